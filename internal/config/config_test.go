// If you are AI: This file contains tests for configuration loading,
// defaults and validation.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTPAddr != "127.0.0.1:3000" {
		t.Errorf("Expected default http_addr 127.0.0.1:3000, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Server.IngestAddr != "127.0.0.1:3001" {
		t.Errorf("Expected default ingest_addr 127.0.0.1:3001, got %s", cfg.Server.IngestAddr)
	}
	if cfg.Stream.SinkCapacity != 20 {
		t.Errorf("Expected default sink_capacity 20, got %d", cfg.Stream.SinkCapacity)
	}
	if cfg.Inference.QueueCapacity != 10 {
		t.Errorf("Expected default queue_capacity 10, got %d", cfg.Inference.QueueCapacity)
	}
	if cfg.Inference.MinConfidence != 0.5 || cfg.Inference.MaxIoU != 0.5 {
		t.Errorf("Expected default thresholds 0.5/0.5, got %v/%v",
			cfg.Inference.MinConfidence, cfg.Inference.MaxIoU)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "server:\n  http_addr: \"0.0.0.0:8000\"\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.HTTPAddr != "0.0.0.0:8000" {
		t.Errorf("Expected overridden http_addr, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Stream.SinkCapacity != 20 {
		t.Errorf("Expected defaulted sink_capacity, got %d", cfg.Stream.SinkCapacity)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("bogus: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected strict decoding to reject unknown keys")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad http addr", func(c *Config) { c.Server.HTTPAddr = "nonsense" }},
		{"same addrs", func(c *Config) { c.Server.IngestAddr = c.Server.HTTPAddr }},
		{"negative sink capacity", func(c *Config) { c.Stream.SinkCapacity = -1 }},
		{"short grace", func(c *Config) { c.Stream.IdleGraceMs = 100 }},
		{"timeout below grace", func(c *Config) { c.Stream.IdleTimeoutMs = 200 }},
		{"bad confidence", func(c *Config) { c.Inference.MinConfidence = 1.5 }},
		{"bad iou", func(c *Config) { c.Inference.MaxIoU = -0.1 }},
		{"relay without url", func(c *Config) { c.Relays = []RelayConfig{{Name: "x"}} }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
