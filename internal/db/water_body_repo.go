package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"fangindex/internal/types"
)

// WaterBodyRepository provides data access for the water_bodies table and
// implements types.CandidateSource.
//
// Coordinates are read as text and parsed in Go: imported data contains
// rows with missing or garbled coordinates, and such rows are skipped with
// a warning instead of failing the whole listing.
type WaterBodyRepository struct {
	db     DBTX
	logger *slog.Logger
}

var _ types.CandidateSource = (*WaterBodyRepository)(nil)

// NewWaterBodyRepository creates a new WaterBodyRepository backed by the
// given database connection (pool or transaction).
func NewWaterBodyRepository(db DBTX, logger *slog.Logger) *WaterBodyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &WaterBodyRepository{db: db, logger: logger}
}

const waterBodyColumns = `id, name, water_type, raw_type,
	latitude::text, longitude::text, region,
	fish_species, permit_price, is_assumed, station_id`

// waterBodyRow mirrors one selected row before normalization.
type waterBodyRow struct {
	id          string
	name        string
	waterType   string
	rawType     *string
	latitude    *string
	longitude   *string
	region      *string
	fishSpecies []string
	permitPrice *float64
	isAssumed   bool
	stationID   *string
}

func scanWaterBodyRow(row pgx.Row) (*waterBodyRow, error) {
	var r waterBodyRow
	err := row.Scan(
		&r.id,
		&r.name,
		&r.waterType,
		&r.rawType,
		&r.latitude,
		&r.longitude,
		&r.region,
		&r.fishSpecies,
		&r.permitPrice,
		&r.isAssumed,
		&r.stationID,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// toCandidate normalizes a row. It fails with
// ErrCodeValidationMalformedCandidate when the row cannot be ranked.
func (r *waterBodyRow) toCandidate() (types.WaterBodyCandidate, error) {
	lat, err := parseCoordinate(r.latitude)
	if err != nil {
		return types.WaterBodyCandidate{}, types.NewAppErrorWithDetails(types.ErrCodeValidationMalformedCandidate,
			"unparseable latitude", err, map[string]any{"id": r.id})
	}
	lon, err := parseCoordinate(r.longitude)
	if err != nil {
		return types.WaterBodyCandidate{}, types.NewAppErrorWithDetails(types.ErrCodeValidationMalformedCandidate,
			"unparseable longitude", err, map[string]any{"id": r.id})
	}

	c := types.WaterBodyCandidate{
		ID:          r.id,
		Name:        strings.TrimSpace(r.name),
		Type:        types.ParseWaterType(r.waterType),
		Latitude:    lat,
		Longitude:   lon,
		PermitPrice: r.permitPrice,
		IsAssumed:   r.isAssumed,
	}
	if r.rawType != nil {
		c.RawType = *r.rawType
	}
	if r.region != nil {
		c.Region = *r.region
	}
	if r.stationID != nil {
		c.StationID = *r.stationID
	}
	c.FishSpecies, c.RawFishSpecies = types.ParseSpeciesList(r.fishSpecies)

	if err := types.ValidateCandidate(c); err != nil {
		return types.WaterBodyCandidate{}, err
	}
	return c, nil
}

func parseCoordinate(s *string) (float64, error) {
	if s == nil {
		return 0, errors.New("coordinate is null")
	}
	return strconv.ParseFloat(strings.TrimSpace(*s), 64)
}

// ListWaterBodies returns every rankable water body ordered by id. Rows that
// fail normalization are logged and skipped.
func (r *WaterBodyRepository) ListWaterBodies(ctx context.Context) ([]types.WaterBodyCandidate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+waterBodyColumns+`
		 FROM water_bodies
		 ORDER BY id`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list water bodies", err)
	}
	defer rows.Close()

	results := make([]types.WaterBodyCandidate, 0)
	skipped := 0
	for rows.Next() {
		row, scanErr := scanWaterBodyRow(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan water body row", scanErr)
		}
		c, convErr := row.toCandidate()
		if convErr != nil {
			skipped++
			r.logger.WarnContext(ctx, "skipping malformed water body",
				slog.String("id", row.id),
				slog.String("error", convErr.Error()),
			)
			continue
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating water body rows", err)
	}

	if skipped > 0 {
		r.logger.InfoContext(ctx, "water bodies listed",
			slog.Int("count", len(results)),
			slog.Int("skipped", skipped),
		)
	}
	return results, nil
}

// GetWaterBody returns one water body. A missing row yields
// ErrCodeNotFoundWaterBody; a row that cannot be normalized yields
// ErrCodeValidationMalformedCandidate.
func (r *WaterBodyRepository) GetWaterBody(ctx context.Context, id string) (*types.WaterBodyCandidate, error) {
	row, err := scanWaterBodyRow(r.db.QueryRow(ctx,
		`SELECT `+waterBodyColumns+`
		 FROM water_bodies
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeNotFoundWaterBody, "water body not found", nil,
				map[string]any{"id": id})
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve water body", err)
	}

	c, err := row.toCandidate()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserts or replaces a water body keyed by id. Species are stored
// as their normalized names followed by any unrecognized raw names.
func (r *WaterBodyRepository) Upsert(ctx context.Context, c types.WaterBodyCandidate) error {
	if c.ID == "" {
		return types.NewAppError(types.ErrCodeValidationMissingField, "water body id is required", nil)
	}

	species := make([]string, 0, len(c.FishSpecies)+len(c.RawFishSpecies))
	for _, s := range c.FishSpecies {
		species = append(species, string(s))
	}
	species = append(species, c.RawFishSpecies...)

	_, err := r.db.Exec(ctx,
		`INSERT INTO water_bodies (
			id, name, water_type, raw_type, latitude, longitude, region,
			fish_species, permit_price, is_assumed, station_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			water_type = EXCLUDED.water_type,
			raw_type = EXCLUDED.raw_type,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			region = EXCLUDED.region,
			fish_species = EXCLUDED.fish_species,
			permit_price = EXCLUDED.permit_price,
			is_assumed = EXCLUDED.is_assumed,
			station_id = EXCLUDED.station_id,
			updated_at = NOW()`,
		c.ID,
		c.Name,
		string(c.Type),
		nullString(c.RawType),
		c.Latitude,
		c.Longitude,
		nullString(c.Region),
		species,
		c.PermitPrice,
		c.IsAssumed,
		nullString(c.StationID),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, fmt.Sprintf("failed to upsert water body %s", c.ID), err)
	}
	return nil
}

// Count returns the number of stored water bodies.
func (r *WaterBodyRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM water_bodies`).Scan(&n); err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count water bodies", err)
	}
	return n, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
