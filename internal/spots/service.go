// Package spots is the application service behind the HTTP API and the
// ranker Lambda. It resolves the caller's position, gathers weather, water
// levels and candidates, and hands them to the pure scoring, ranking and
// insights packages.
package spots

import (
	"context"
	"log/slog"
	"time"

	"fangindex/internal/config"
	"fangindex/internal/external"
	"fangindex/internal/geo"
	"fangindex/internal/ranking"
	"fangindex/internal/types"
)

const (
	// WaterLevelConcurrency caps parallel PEGELONLINE lookups per ranking.
	WaterLevelConcurrency = 4

	// DefaultSpotName labels a Fangindex computed for a bare coordinate.
	DefaultSpotName = "your spot"

	ProviderWeather    = "openweather"
	ProviderWaterLevel = "pegelonline"
)

// Metrics is the subset of telemetry the service emits.
type Metrics interface {
	RecordSpotsRanked(ctx context.Context, count int)
	RecordCandidatesSkipped(ctx context.Context, count int)
	RecordRadiusFallback(ctx context.Context)
	RecordLocationFallback(ctx context.Context, source types.LocationSource)
	RecordFangindexScore(ctx context.Context, endpoint string, score int)
	RecordProviderFailure(ctx context.Context, provider string)
}

// StationSearcher looks up gauge stations by water name.
type StationSearcher interface {
	SearchStations(ctx context.Context, water string) ([]external.Station, error)
}

// Deps are the collaborators of a Service. WaterLevel, Stations and Locator
// are optional.
type Deps struct {
	Weather    types.WeatherProvider
	WaterLevel types.WaterLevelProvider
	Stations   StationSearcher
	Candidates types.CandidateSource
	Locator    types.LocationProvider
	Clock      types.Clock
	Metrics    Metrics
	Logger     *slog.Logger
}

// Settings are the ranking defaults and the angler's time zone.
type Settings struct {
	DefaultRadiusKm float64
	DefaultLimit    int
	MaxLimit        int
	Fallback        types.Location
	Zone            *time.Location
}

// SettingsFromConfig copies the ranking section of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DefaultRadiusKm: cfg.Ranking.DefaultRadiusKm,
		DefaultLimit:    cfg.Ranking.DefaultLimit,
		MaxLimit:        cfg.Ranking.MaxLimit,
		Fallback:        cfg.Ranking.Fallback(),
		Zone:            cfg.Location(),
	}
}

// Service implements every read operation of the API.
type Service struct {
	weather    types.WeatherProvider
	waterLevel types.WaterLevelProvider
	stations   StationSearcher
	candidates types.CandidateSource
	locator    types.LocationProvider
	clock      types.Clock
	metrics    Metrics
	logger     *slog.Logger
	settings   Settings
}

// NewService creates a Service. A nil Clock, Metrics or Logger gets a
// default, and zero Settings fields take the package defaults.
func NewService(deps Deps, settings Settings) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = types.RealClock{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if settings.DefaultRadiusKm <= 0 {
		settings.DefaultRadiusKm = ranking.DefaultRadiusKm
	}
	if settings.DefaultLimit <= 0 {
		settings.DefaultLimit = ranking.DefaultLimit
	}
	if settings.MaxLimit < settings.DefaultLimit {
		settings.MaxLimit = settings.DefaultLimit
	}
	if settings.Zone == nil {
		settings.Zone = time.UTC
	}

	return &Service{
		weather:    deps.Weather,
		waterLevel: deps.WaterLevel,
		stations:   deps.Stations,
		candidates: deps.Candidates,
		locator:    deps.Locator,
		clock:      deps.Clock,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		settings:   settings,
	}
}

// ResolvedLocation is the position a response was computed for.
type ResolvedLocation struct {
	Location types.Location       `json:"location"`
	Source   types.LocationSource `json:"location_source"`
}

// resolveLocation picks the request coordinate if one was sent, then the
// location provider, then the configured fallback. A request coordinate
// out of range is a validation error; a failing provider is not.
func (s *Service) resolveLocation(ctx context.Context, requested *types.Location) (ResolvedLocation, error) {
	if requested != nil {
		if !types.ValidLatitude(requested.Latitude) {
			return ResolvedLocation{}, types.NewAppError(types.ErrCodeValidationInvalidLat, "lat must be between -90 and 90", nil)
		}
		if !types.ValidLongitude(requested.Longitude) {
			return ResolvedLocation{}, types.NewAppError(types.ErrCodeValidationInvalidLon, "lon must be between -180 and 180", nil)
		}
		return ResolvedLocation{Location: *requested, Source: types.LocationSourceRequest}, nil
	}

	if s.locator != nil {
		loc, err := s.locator.UserLocation(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "location provider failed, using fallback",
				"request_id", types.GetRequestID(ctx),
				"error", err,
			)
		case !geo.Valid(loc):
			s.logger.WarnContext(ctx, "location provider returned invalid coordinate, using fallback",
				"request_id", types.GetRequestID(ctx),
			)
		default:
			return ResolvedLocation{Location: loc, Source: types.LocationSourceProvider}, nil
		}
	}

	s.metrics.RecordLocationFallback(ctx, types.LocationSourceFallback)
	return ResolvedLocation{Location: s.settings.Fallback, Source: types.LocationSourceFallback}, nil
}

// now is the current instant in the angler's zone. Scoring reads the
// local clock hour from it.
func (s *Service) now() time.Time {
	return s.clock.Now().In(s.settings.Zone)
}

func (s *Service) fetchWeather(ctx context.Context, loc types.Location) (types.WeatherSnapshot, error) {
	if s.weather == nil {
		return types.WeatherSnapshot{}, types.NewAppError(types.ErrCodeUpstreamWeather, "weather provider not configured", nil)
	}
	w, err := s.weather.GetWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.metrics.RecordProviderFailure(ctx, ProviderWeather)
		return types.WeatherSnapshot{}, err
	}
	if w == nil {
		s.metrics.RecordProviderFailure(ctx, ProviderWeather)
		return types.WeatherSnapshot{}, types.NewAppError(types.ErrCodeUpstreamWeather, "weather provider returned no data", nil)
	}
	return *w, nil
}

// fetchWaterLevel returns nil when there is no provider, no station or no
// current reading. Provider failures are logged and scored as unknown.
func (s *Service) fetchWaterLevel(ctx context.Context, stationID string) *types.WaterLevelReading {
	if s.waterLevel == nil || stationID == "" {
		return nil
	}
	r, err := s.waterLevel.GetWaterLevel(ctx, stationID)
	if err != nil {
		s.metrics.RecordProviderFailure(ctx, ProviderWaterLevel)
		s.logger.WarnContext(ctx, "water level unavailable",
			"request_id", types.GetRequestID(ctx),
			"station", stationID,
			"error", err,
		)
		return nil
	}
	return r
}

func (s *Service) listCandidates(ctx context.Context) ([]types.WaterBodyCandidate, error) {
	if s.candidates == nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "no candidate source configured", nil)
	}
	return s.candidates.ListWaterBodies(ctx)
}

type noopMetrics struct{}

func (noopMetrics) RecordSpotsRanked(context.Context, int)                       {}
func (noopMetrics) RecordCandidatesSkipped(context.Context, int)                 {}
func (noopMetrics) RecordRadiusFallback(context.Context)                         {}
func (noopMetrics) RecordLocationFallback(context.Context, types.LocationSource) {}
func (noopMetrics) RecordFangindexScore(context.Context, string, int)            {}
func (noopMetrics) RecordProviderFailure(context.Context, string)                {}
