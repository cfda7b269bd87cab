// Package core provides the HTTP chassis of the Fangindex API. It creates a
// chi router usable both by a plain HTTP listener (local dev) and by the
// Lambda proxy adapter, and applies the cross-cutting middleware (panic
// recovery, request IDs, logging, CORS, metrics, rate limiting) before
// requests reach the domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fangindex/internal/config"
)

// MetricsCollector records API request telemetry.
type MetricsCollector interface {
	RecordRequest(ctx context.Context, method, endpoint, status string, duration time.Duration)
}

// MetricsBatcher is implemented by collectors that buffer the metrics of one
// request and publish them together when the request ends.
type MetricsBatcher interface {
	StartBatch(ctx context.Context) context.Context
	FlushBatch(ctx context.Context)
}

// Server bundles the dependencies of the API so tests can inject fakes.
type Server struct {
	Config         *config.Config
	Logger         *slog.Logger
	Validator      *Validator
	Metrics        MetricsCollector
	RateLimitStore RateLimitStore
	HealthProbes   []HealthProbe

	// V1RouteRegistrars mount domain routes under /v1. They are supplied by
	// the entry point so core does not import the handler packages.
	V1RouteRegistrars []func(chi.Router)

	// Closers run on Shutdown, e.g. the database pool.
	Closers []func()

	router *chi.Mux
}

// NewServer initializes the server and its router. Routes are mounted
// separately via MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server resources in reverse registration order.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.InfoContext(ctx, "server shutdown initiated")
	for i := len(s.Closers) - 1; i >= 0; i-- {
		s.Closers[i]()
	}
	s.Logger.InfoContext(ctx, "server shutdown complete")
	return nil
}
