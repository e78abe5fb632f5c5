package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/pipeline"
	"github.com/mdrysdale/cgtcalc/internal/storage"
	"github.com/mdrysdale/cgtcalc/pkg/healthprobe"
)

// Server exposes the calculation pipeline over HTTP alongside metrics and
// health endpoints.
type Server struct {
	server *http.Server
	logger *zap.Logger
	probe  *healthprobe.Probe
}

// Config holds server configuration.
type Config struct {
	Port     string
	Logger   *zap.Logger
	Probe    *healthprobe.Probe
	Pipeline *pipeline.Pipeline

	// ReportingCurrency is echoed into calculation reports.
	ReportingCurrency string

	// Storage persists calculation runs. Optional.
	Storage storage.Storage
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.Probe.Health())
	r.Get("/ready", cfg.Probe.Ready())

	calcHandler := NewCalculateHandler(cfg.Pipeline, cfg.ReportingCurrency, cfg.Storage, cfg.Logger)
	r.Post("/api/v1/calculate", calcHandler.HandleCalculate)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server: server,
		logger: cfg.Logger,
		probe:  cfg.Probe,
	}
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
