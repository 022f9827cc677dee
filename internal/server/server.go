// If you are AI: This file wires all components together and owns the
// HTTP and ingest listener lifecycles.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/config"
	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
	"github.com/sgasse/infercam/internal/infer"
	"github.com/sgasse/infercam/internal/svc/api"
	"github.com/sgasse/infercam/internal/svc/health"
	"github.com/sgasse/infercam/internal/svc/ingest"
	mjpegsvc "github.com/sgasse/infercam/internal/svc/mjpeg"
	"github.com/sgasse/infercam/internal/svc/relay"
	"github.com/sgasse/infercam/internal/svc/wsstream"
)

// Server wraps the HTTP server, the publisher ingest listener and all
// background loops.
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	ingestSrv  *ingest.Server
	router     *bus.Router
	meter      *meter.Meter
	worker     *infer.Worker
	relayMgr   *relay.Manager

	mu     sync.Mutex
	httpLn net.Listener
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server instance with the given configuration.
// The model may be nil when inference is disabled; with inference enabled a
// nil model is a configuration error. The server is not started until Start
// is called.
func New(cfg *config.Config, model infer.Model) (*Server, error) {
	if cfg.Inference.Enabled && model == nil {
		return nil, errors.New("inference enabled but no model provided")
	}

	registry := prometheus.NewRegistry()
	m := meter.New(registry)

	router := bus.NewRouter(bus.Options{
		SinkCapacity:  cfg.Stream.SinkCapacity,
		MaxStrikes:    cfg.Stream.MaxStrikes,
		QueueCapacity: cfg.Inference.QueueCapacity,
		IdleGrace:     cfg.Stream.IdleGrace(),
		IdleTimeout:   cfg.Stream.IdleTimeout(),
		FrameWidth:    cfg.Inference.FrameWidth,
		FrameHeight:   cfg.Inference.FrameHeight,
	}, m)

	var worker *infer.Worker
	if cfg.Inference.Enabled {
		detector := infer.NewDetector(model, infer.DetectorOptions{
			InputWidth:    cfg.Inference.InputWidth,
			InputHeight:   cfg.Inference.InputHeight,
			MinConfidence: cfg.Inference.MinConfidence,
			MaxIoU:        cfg.Inference.MaxIoU,
		})
		worker = infer.NewWorker(router.InferQueue(), detector, m)
	}

	mux := httprouter.New()
	health.New().RegisterRoutes(mux)
	mjpegsvc.NewService(router).RegisterRoutes(mux)
	wsstream.NewService(router).RegisterRoutes(mux)
	api.NewService(router, m).RegisterRoutes(mux)
	mux.Handler(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:    cfg.Server.HTTPAddr,
			Handler: mux,
		},
		ingestSrv: ingest.NewServer(router, m),
		router:    router,
		meter:     m,
		worker:    worker,
		relayMgr:  relay.NewManager(router),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Router exposes the frame router (tests).
func (s *Server) Router() *bus.Router {
	return s.router
}

// Start launches the background loops and both listeners.
// Blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	if err := s.ingestSrv.Listen(s.cfg.Server.IngestAddr); err != nil {
		return fmt.Errorf("ingest listen: %w", err)
	}
	go func() {
		if err := s.ingestSrv.Accept(); err != nil {
			log.Errorf("Ingest accept loop ended: %v", err)
		}
	}()

	go s.router.RunSweeper(s.ctx, s.cfg.Stream.SweepInterval())
	go s.meter.Run(s.ctx, s.cfg.Stream.MeterInterval())
	if s.worker != nil {
		go s.worker.Run(s.ctx)
	}
	if err := s.relayMgr.StartTasks(s.cfg); err != nil {
		return fmt.Errorf("start relay tasks: %w", err)
	}

	ln, err := net.Listen("tcp", s.cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	s.mu.Lock()
	s.httpLn = ln
	s.mu.Unlock()

	log.Infof("Serving HTTP on %s, ingest on %s", ln.Addr(), s.ingestSrv.Addr())
	return s.httpServer.Serve(ln)
}

// HTTPAddr returns the bound HTTP listener address, or nil before Start.
func (s *Server) HTTPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpLn == nil {
		return nil
	}
	return s.httpLn.Addr()
}

// IngestAddr returns the bound ingest listener address, or nil before Start.
func (s *Server) IngestAddr() net.Addr {
	return s.ingestSrv.Addr()
}

// Shutdown gracefully stops the server with the given context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.relayMgr.Stop()
	if err := s.ingestSrv.Close(); err != nil {
		log.Warnf("Closing ingest listener: %v", err)
	}
	return s.httpServer.Shutdown(ctx)
}

// ShutdownWithTimeout stops the server with a fixed 5-second timeout.
func (s *Server) ShutdownWithTimeout() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
