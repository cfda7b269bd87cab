package types

import (
	"context"
	"time"
)

// WeatherProvider returns the current weather at a coordinate.
// Implementations fail with ErrCodeUpstreamWeather; they never fabricate
// a snapshot.
type WeatherProvider interface {
	GetWeather(ctx context.Context, lat, lon float64) (*WeatherSnapshot, error)
}

// WaterLevelProvider returns the latest reading of a gauge station.
// A nil reading with a nil error means the station has no current data.
type WaterLevelProvider interface {
	GetWaterLevel(ctx context.Context, stationID string) (*WaterLevelReading, error)
}

// CandidateSource lists the water bodies eligible for ranking.
type CandidateSource interface {
	ListWaterBodies(ctx context.Context) ([]WaterBodyCandidate, error)
	GetWaterBody(ctx context.Context, id string) (*WaterBodyCandidate, error)
}

// LocationProvider resolves the caller's position. Implementations return
// ErrCodePermissionLocationDenied when no position may be used.
type LocationProvider interface {
	UserLocation(ctx context.Context) (Location, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time.
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Logger is the structured logging interface used across packages.
// *slog.Logger satisfies it through an adapter in core.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}
