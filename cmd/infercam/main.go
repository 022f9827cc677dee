// If you are AI: This is the main entrypoint for the infercam server.
// It handles configuration loading, server startup, and graceful shutdown.

package main

import (
	"context"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/sgasse/infercam/internal/config"
	"github.com/sgasse/infercam/internal/infer"
	"github.com/sgasse/infercam/internal/logging"
	"github.com/sgasse/infercam/internal/server"
)

// main loads configuration, starts the server, and handles graceful shutdown.
func main() {
	configPath := pflag.String("config", "", "Path to configuration file (defaults apply when empty)")
	logLevel := pflag.String("log-level", "", "Override the configured log level")
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := logging.Setup(cfg.Log.Level); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// The model is the only startup-fatal resource.
	var model infer.Model
	if cfg.Inference.Enabled {
		loaded, err := infer.LoadModel(cfg.Inference.ModelPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		model = loaded
	}

	srv, err := server.New(cfg, model)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	shutdownHandler := server.NewShutdownHandler(srv, context.Background())

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Errorf("Shutdown error: %v", err)
		os.Exit(1)
	}

	log.Info("Server shut down cleanly")
}
