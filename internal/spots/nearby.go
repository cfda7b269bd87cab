package spots

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fangindex/internal/geo"
	"fangindex/internal/ranking"
	"fangindex/internal/types"
)

// NearbyRequest asks for the best spots around a coordinate. Zero radius
// and limit take the configured defaults.
type NearbyRequest struct {
	Location *types.Location
	RadiusKm float64
	Limit    int
}

// NearbyResponse is a ranking plus the parameters it was run with.
type NearbyResponse struct {
	ResolvedLocation
	Spots          []types.RankedSpot         `json:"spots"`
	RadiusKm       float64                    `json:"radius_km"`
	Limit          int                        `json:"limit"`
	RadiusFallback bool                       `json:"radius_fallback"`
	Skipped        []ranking.SkippedCandidate `json:"skipped,omitempty"`
	Weather        types.WeatherSnapshot      `json:"weather"`
}

// Nearby ranks the stored water bodies around the resolved location.
// Weather and candidates are fetched concurrently; water levels follow for
// the stations inside the radius.
func (s *Service) Nearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error) {
	resolved, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	radius, limit, err := s.bounds(req.RadiusKm, req.Limit)
	if err != nil {
		return nil, err
	}

	var (
		weather    types.WeatherSnapshot
		candidates []types.WaterBodyCandidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.fetchWeather(gctx, resolved.Location)
		if err != nil {
			return err
		}
		weather = w
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

	levels := s.fetchWaterLevels(ctx, candidates, resolved.Location, radius)
	return s.rank(ctx, "nearby", resolved, candidates, ranking.Options{
		RadiusKm:    radius,
		Limit:       limit,
		Weather:     weather,
		WaterLevels: levels,
		At:          s.now(),
	}), nil
}

// RankRequest ranks caller-supplied candidates under caller-supplied
// conditions. No provider is contacted except the location chain when
// Location is nil.
type RankRequest struct {
	Candidates  []types.WaterBodyCandidate
	Weather     types.WeatherSnapshot
	WaterLevels map[string]*types.WaterLevelReading
	At          *time.Time
	Location    *types.Location
	RadiusKm    float64
	Limit       int
}

// Rank runs the ranking on the given inputs. At defaults to now and is
// interpreted in the configured zone.
func (s *Service) Rank(ctx context.Context, req RankRequest) (*NearbyResponse, error) {
	resolved, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	radius, limit, err := s.bounds(req.RadiusKm, req.Limit)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if req.At != nil && !req.At.IsZero() {
		at = req.At.In(s.settings.Zone)
	}

	return s.rank(ctx, "rank", resolved, req.Candidates, ranking.Options{
		RadiusKm:    radius,
		Limit:       limit,
		Weather:     req.Weather,
		WaterLevels: req.WaterLevels,
		At:          at,
	}), nil
}

func (s *Service) rank(ctx context.Context, endpoint string, resolved ResolvedLocation, candidates []types.WaterBodyCandidate, opts ranking.Options) *NearbyResponse {
	r := ranking.RankDetailed(candidates, resolved.Location, opts)

	for _, sk := range r.Skipped {
		s.logger.WarnContext(ctx, "skipping malformed candidate",
			"request_id", types.GetRequestID(ctx),
			"candidate_id", sk.ID,
			"index", sk.Index,
			"error", sk.Err,
		)
	}
	s.metrics.RecordCandidatesSkipped(ctx, len(r.Skipped))
	s.metrics.RecordSpotsRanked(ctx, len(r.Spots))
	if r.UsedFallback {
		s.metrics.RecordRadiusFallback(ctx)
	}
	if len(r.Spots) > 0 {
		s.metrics.RecordFangindexScore(ctx, endpoint, r.Spots[0].Fangindex)
	}

	return &NearbyResponse{
		ResolvedLocation: resolved,
		Spots:            r.Spots,
		RadiusKm:         opts.RadiusKm,
		Limit:            opts.Limit,
		RadiusFallback:   r.UsedFallback,
		Skipped:          r.Skipped,
		Weather:          opts.Weather,
	}
}

// bounds applies defaults and range checks to a radius and limit.
func (s *Service) bounds(radiusKm float64, limit int) (float64, int, error) {
	switch {
	case math.IsNaN(radiusKm) || radiusKm < 0 || radiusKm > types.MaxRadiusKm:
		return 0, 0, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidRadius,
			"radius_km must be between 0 and 500", nil,
			map[string]any{"max": types.MaxRadiusKm})
	case radiusKm == 0:
		radiusKm = s.settings.DefaultRadiusKm
	}

	switch {
	case limit < 0 || limit > s.settings.MaxLimit:
		return 0, 0, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidLimit,
			"limit out of range", nil,
			map[string]any{"max": s.settings.MaxLimit})
	case limit == 0:
		limit = s.settings.DefaultLimit
	}
	return radiusKm, limit, nil
}

// fetchWaterLevels reads every distinct station of the valid candidates
// inside the radius. Failed stations are absent from the map.
func (s *Service) fetchWaterLevels(ctx context.Context, candidates []types.WaterBodyCandidate, user types.Location, radiusKm float64) map[string]*types.WaterLevelReading {
	if s.waterLevel == nil {
		return nil
	}

	seen := make(map[string]bool)
	var stations []string
	for _, c := range candidates {
		if c.StationID == "" || seen[c.StationID] || types.ValidateCandidate(c) != nil {
			continue
		}
		if geo.DistanceKm(user, c.Location()) > radiusKm {
			continue
		}
		seen[c.StationID] = true
		stations = append(stations, c.StationID)
	}
	if len(stations) == 0 {
		return nil
	}

	var mu sync.Mutex
	levels := make(map[string]*types.WaterLevelReading, len(stations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(WaterLevelConcurrency)
	for _, id := range stations {
		g.Go(func() error {
			if r := s.fetchWaterLevel(gctx, id); r != nil {
				mu.Lock()
				levels[id] = r
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return levels
}
