package spots

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"fangindex/internal/config"
	"fangindex/internal/core"
	"fangindex/internal/db"
	"fangindex/internal/external"
	"fangindex/internal/telemetry"
)

// Runtime is a fully wired Service together with the resources the entry
// points must publish or release.
type Runtime struct {
	Service *Service
	Pool    *pgxpool.Pool
	Metrics telemetry.Recorder
}

// Close releases the database pool.
func (r *Runtime) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}

// Bootstrap connects to PostgreSQL, builds the upstream clients and the
// metrics publisher, and assembles the Service.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	clients, err := external.NewClientRegistry(cfg, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("building clients: %w", err)
	}

	metrics, err := telemetry.New(ctx, cfg, core.NewLogger(logger.With("component", "telemetry")))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("building metrics: %w", err)
	}

	deps := Deps{
		Weather:    clients.Weather,
		Candidates: db.NewWaterBodyRepository(pool, logger),
		Metrics:    metrics,
		Logger:     logger,
	}
	// a nil *PegelOnlineClient must stay a nil interface
	if clients.WaterLevel != nil {
		deps.WaterLevel = clients.WaterLevel
		deps.Stations = clients.WaterLevel
	}

	return &Runtime{
		Service: NewService(deps, SettingsFromConfig(cfg)),
		Pool:    pool,
		Metrics: metrics,
	}, nil
}
