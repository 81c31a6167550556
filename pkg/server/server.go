package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"signalhq/beacon/pkg/config"
	"signalhq/beacon/pkg/engine"
	"signalhq/beacon/pkg/policy"
	"signalhq/beacon/pkg/server/middleware"
	sig "signalhq/beacon/pkg/signal"
	"signalhq/beacon/pkg/telemetry/health"
	"signalhq/beacon/pkg/telemetry/metrics"
)

// Server is the HTTP control-plane server.
type Server struct {
	config   *config.ServerConfig
	engine   *engine.Engine
	policies *policy.Store
	signals  *sig.Store
	metrics  *metrics.Collector
	health   *health.Checker

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a control-plane server over the injected stores and
// engine. The metrics collector may be nil to disable instrumentation.
func NewServer(cfg *config.ServerConfig, eng *engine.Engine, policies *policy.Store, signals *sig.Store, collector *metrics.Collector) *Server {
	s := &Server{
		config:       cfg,
		engine:       eng,
		policies:     policies,
		signals:      signals,
		metrics:      collector,
		health:       health.NewChecker(),
		shutdownChan: make(chan struct{}),
	}

	s.health.RegisterCheck("policy", func(ctx context.Context) error {
		if s.policies.Active() == nil {
			return fmt.Errorf("no active policy")
		}
		return nil
	})

	return s
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting control plane server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case osSig := <-sigChan:
		slog.Info("received shutdown signal", "signal", osSig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("control plane server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signal", s.handleIngestSignal)
	mux.HandleFunc("GET /config/{service}/{environment}", s.handleGetConfig)
	mux.HandleFunc("GET /policy", s.handleGetPolicy)
	mux.HandleFunc("POST /policy", s.handleSetPolicy)
	mux.Handle("GET /healthz", s.health.LivenessHandler())
	mux.Handle("GET /readyz", s.health.ReadinessHandler())

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
