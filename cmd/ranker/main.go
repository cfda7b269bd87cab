// Package main is the entry point for the ranker Lambda.
//
// The ranker returns the best nearby fishing spots for a coordinate. It is
// invoked directly (scheduled warm-ups, other services) rather than through
// API Gateway, so it takes a small JSON event instead of an HTTP request.
//
// This file wires the dependencies on cold start; ranking lives in
// internal/spots.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"

	"fangindex/internal/config"
	"fangindex/internal/core"
	"fangindex/internal/spots"
	"fangindex/internal/types"
)

// Input is the invocation event. Lat and Lon are optional together; without
// them the configured fallback coordinate is used.
type Input struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	RadiusKm  float64  `json:"radius_km,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Output is the invocation result.
type Output struct {
	RequestID      string               `json:"request_id"`
	Spots          []types.RankedSpot   `json:"spots"`
	Location       types.Location       `json:"location"`
	LocationSource types.LocationSource `json:"location_source"`
	RadiusKm       float64              `json:"radius_km"`
	RadiusFallback bool                 `json:"radius_fallback"`
	Skipped        int                  `json:"skipped"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

// nearbyRanker is the part of *spots.Service the handler needs.
type nearbyRanker interface {
	Nearby(ctx context.Context, req spots.NearbyRequest) (*spots.NearbyResponse, error)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger := core.NewJSONLogger(cfg.LogLevel, os.Stdout)

	rt, err := spots.Bootstrap(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("ranker initialization failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ranker Lambda initialized",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
	)
	lambda.Start(newHandler(rt.Service, logger, time.Now))
}

// newHandler adapts the service to the Lambda signature.
func newHandler(ranker nearbyRanker, logger *slog.Logger, now func() time.Time) func(ctx context.Context, in Input) (Output, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, in Input) (Output, error) {
		if (in.Lat == nil) != (in.Lon == nil) {
			return Output{}, types.NewAppError(types.ErrCodeValidationMissingField, "lat and lon must be given together", nil)
		}

		requestID := in.RequestID
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = types.WithRequestID(ctx, requestID)

		req := spots.NearbyRequest{RadiusKm: in.RadiusKm, Limit: in.Limit}
		if in.Lat != nil {
			req.Location = &types.Location{Latitude: *in.Lat, Longitude: *in.Lon}
		}

		res, err := ranker.Nearby(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "ranking failed", "request_id", requestID, "error", err)
			return Output{}, fmt.Errorf("ranking failed: %w", err)
		}

		logger.InfoContext(ctx, "ranking complete",
			"request_id", requestID,
			"spots", len(res.Spots),
			"skipped", len(res.Skipped),
			"location_source", res.Source,
		)
		return Output{
			RequestID:      requestID,
			Spots:          res.Spots,
			Location:       res.Location,
			LocationSource: res.Source,
			RadiusKm:       res.RadiusKm,
			RadiusFallback: res.RadiusFallback,
			Skipped:        len(res.Skipped),
			GeneratedAt:    now().UTC(),
		}, nil
	}
}
