package spots

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fangindex/internal/astro"
	"fangindex/internal/external"
	"fangindex/internal/insights"
	"fangindex/internal/ranking"
	"fangindex/internal/types"
)

// InsightsResponse describes the current situation at a location.
type InsightsResponse struct {
	ResolvedLocation
	Context     insights.FishingContext `json:"context"`
	Insights    []types.Insight         `json:"insights"`
	Headline    string                  `json:"headline"`
	Subheadline string                  `json:"subheadline"`
	Condition   types.Condition         `json:"condition"`
}

// Insights builds contextual tips for the resolved location. A failing
// weather provider only removes the weather-based tips.
func (s *Service) Insights(ctx context.Context, loc *types.Location) (*InsightsResponse, error) {
	resolved, err := s.resolveLocation(ctx, loc)
	if err != nil {
		return nil, err
	}

	weather := s.optionalWeather(ctx, resolved.Location)
	return s.situation(resolved, weather, nil), nil
}

// SmartResponse combines insights, a ranking and recommendations.
type SmartResponse struct {
	InsightsResponse
	Spots            []types.RankedSpot       `json:"spots"`
	Recommendations  []ranking.Recommendation `json:"recommendations"`
	RadiusKm         float64                  `json:"radius_km"`
	RadiusFallback   bool                     `json:"radius_fallback"`
	WeatherAvailable bool                     `json:"weather_available"`
}

// Smart is the home-screen feed. Without weather no spot can be scored, so
// the response degrades to insights only.
func (s *Service) Smart(ctx context.Context, req NearbyRequest) (*SmartResponse, error) {
	resolved, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	radius, limit, err := s.bounds(req.RadiusKm, req.Limit)
	if err != nil {
		return nil, err
	}

	var (
		weather    *types.WeatherSnapshot
		candidates []types.WaterBodyCandidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weather = s.optionalWeather(gctx, resolved.Location)
		return nil
	})
	g.Go(func() error {
		c, err := s.listCandidates(gctx)
		if err != nil {
			return err
		}
		candidates = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SmartResponse{
		Spots:            []types.RankedSpot{},
		Recommendations:  []ranking.Recommendation{},
		RadiusKm:         radius,
		WeatherAvailable: weather != nil,
	}

	var scores []int
	at := s.now()
	fctx := insights.DetectContext(at, resolved.Location.Latitude, resolved.Location.Longitude, weather)
	if weather != nil {
		levels := s.fetchWaterLevels(ctx, candidates, resolved.Location, radius)
		ranked := s.rank(ctx, "smart", resolved, candidates, ranking.Options{
			RadiusKm:    radius,
			Limit:       limit,
			Weather:     *weather,
			WaterLevels: levels,
			At:          at,
		})
		out.Spots = ranked.Spots
		out.RadiusFallback = ranked.RadiusFallback
		out.Recommendations = ranking.Recommend(ranked.Spots, fctx)
		for _, r := range out.Recommendations {
			scores = append(scores, r.Score)
		}
	}

	out.InsightsResponse = *s.situationFor(resolved, fctx, scores)
	return out, nil
}

// GoldenHourResponse reports today's sun times and golden-hour windows.
// The time fields are nil when the sun does not cross the horizon.
type GoldenHourResponse struct {
	ResolvedLocation
	Date         string     `json:"date"`
	Now          time.Time  `json:"now"`
	Sunrise      *time.Time `json:"sunrise,omitempty"`
	Sunset       *time.Time `json:"sunset,omitempty"`
	MorningEnd   *time.Time `json:"morning_end,omitempty"`
	EveningStart *time.Time `json:"evening_start,omitempty"`
	SunCrosses   bool       `json:"sun_crosses_horizon"`
	IsGoldenHour bool       `json:"is_golden_hour"`
}

// GoldenHour computes sun times for the current local date.
func (s *Service) GoldenHour(ctx context.Context, loc *types.Location) (*GoldenHourResponse, error) {
	resolved, err := s.resolveLocation(ctx, loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lat, lon := resolved.Location.Latitude, resolved.Location.Longitude
	out := &GoldenHourResponse{
		ResolvedLocation: resolved,
		Date:             now.Format(time.DateOnly),
		Now:              now,
		IsGoldenHour:     astro.IsGoldenHour(lat, lon, now),
	}

	st := astro.ComputeSunTimes(lat, lon, now)
	if st.OK {
		gh := astro.GoldenHourWindows(st.Sunrise, st.Sunset)
		out.SunCrosses = true
		out.Sunrise = &st.Sunrise
		out.Sunset = &st.Sunset
		out.MorningEnd = &gh.MorningEnd
		out.EveningStart = &gh.EveningStart
	}
	return out, nil
}

// Stations searches PEGELONLINE gauge stations on a named water.
func (s *Service) Stations(ctx context.Context, water string) ([]external.Station, error) {
	water = strings.TrimSpace(water)
	if water == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField, "water is required", nil)
	}
	if s.stations == nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWaterLevel, "water level service disabled", nil)
	}

	stations, err := s.stations.SearchStations(ctx, water)
	if err != nil {
		s.metrics.RecordProviderFailure(ctx, ProviderWaterLevel)
		return nil, err
	}
	if stations == nil {
		stations = []external.Station{}
	}
	return stations, nil
}

// optionalWeather returns nil instead of an error.
func (s *Service) optionalWeather(ctx context.Context, loc types.Location) *types.WeatherSnapshot {
	w, err := s.fetchWeather(ctx, loc)
	if err != nil {
		s.logger.WarnContext(ctx, "weather unavailable, continuing without it",
			"request_id", types.GetRequestID(ctx),
			"error", err,
		)
		return nil
	}
	return &w
}

func (s *Service) situation(resolved ResolvedLocation, weather *types.WeatherSnapshot, scores []int) *InsightsResponse {
	fctx := insights.DetectContext(s.now(), resolved.Location.Latitude, resolved.Location.Longitude, weather)
	return s.situationFor(resolved, fctx, scores)
}

func (s *Service) situationFor(resolved ResolvedLocation, fctx insights.FishingContext, scores []int) *InsightsResponse {
	list := insights.Generate(fctx)
	headline, sub := insights.Headline(fctx)
	return &InsightsResponse{
		ResolvedLocation: resolved,
		Context:          fctx,
		Insights:         list,
		Headline:         headline,
		Subheadline:      sub,
		Condition:        insights.Condition(list, scores),
	}
}
