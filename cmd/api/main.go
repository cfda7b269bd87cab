// Package main is the entry point for the Fangindex API.
//
// It loads the configuration, wires the database, upstream clients and
// metrics into the spots service, mounts the handlers on the core chassis
// and serves requests.
//
// Inside AWS Lambda (AWS_LAMBDA_RUNTIME_API set) API Gateway HTTP API
// events are bridged to the router. Everywhere else a plain HTTP server runs
// on the configured port with graceful shutdown on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"fangindex/internal/api/handlers"
	"fangindex/internal/config"
	"fangindex/internal/core"
	"fangindex/internal/spots"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := core.NewJSONLogger(cfg.LogLevel, os.Stdout)
	logger.Info("fangindex API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()
	rt, err := spots.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := buildServer(cfg, logger, rt)
	if err != nil {
		rt.Close()
		return err
	}

	if isLambdaEnvironment() {
		logger.Info("running in Lambda mode")
		lambda.Start(core.NewLambdaHandler(srv.Handler()).Handle)
		return nil
	}
	return runHTTPServer(srv, cfg, logger)
}

// buildServer assembles the chassis around an already wired runtime.
func buildServer(cfg *config.Config, logger *slog.Logger, rt *spots.Runtime) (*core.Server, error) {
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	srv.Metrics = rt.Metrics
	srv.RateLimitStore = core.NewMemoryRateLimitStore(nil)
	if rt.Pool != nil {
		srv.HealthProbes = append(srv.HealthProbes, core.PingProbe{ProbeName: "database", Target: rt.Pool})
	}
	srv.Closers = append(srv.Closers, rt.Close)

	h := handlers.NewSpotsHandler(rt.Service, srv.Validator, logger.With("component", "handlers"))
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, h.RegisterRoutes)

	srv.MountRoutes()
	return srv, nil
}

// isLambdaEnvironment reports whether the process runs inside AWS Lambda.
func isLambdaEnvironment() bool {
	_, hasRuntimeAPI := os.LookupEnv("AWS_LAMBDA_RUNTIME_API")
	_, hasServerPort := os.LookupEnv("_LAMBDA_SERVER_PORT")
	return hasRuntimeAPI || hasServerPort
}

// runHTTPServer serves until SIGINT/SIGTERM or a listener error, then
// drains in-flight requests within the shutdown timeout.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		listenErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-listenErr:
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("server error: %w", err)
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped cleanly")
	return nil
}
