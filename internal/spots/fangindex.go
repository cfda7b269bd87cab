package spots

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"fangindex/internal/scoring"
	"fangindex/internal/types"
)

// FangindexRequest asks for the score at one coordinate. A nil Location
// resolves through the provider and fallback chain.
type FangindexRequest struct {
	Location  *types.Location
	Name      string
	StationID string
	Species   types.Species
}

// FangindexResponse is a score together with the inputs it was computed from.
type FangindexResponse struct {
	ResolvedLocation
	Fangindex  types.FangindexResult     `json:"fangindex"`
	Weather    types.WeatherSnapshot     `json:"weather"`
	WaterLevel *types.WaterLevelReading  `json:"water_level,omitempty"`
	WaterBody  *types.WaterBodyCandidate `json:"water_body,omitempty"`
}

// Fangindex scores the conditions at a coordinate. Weather is required;
// a missing water level reading is scored as unknown.
func (s *Service) Fangindex(ctx context.Context, req FangindexRequest) (*FangindexResponse, error) {
	resolved, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultSpotName
	}

	weather, level, err := s.conditions(ctx, resolved.Location, req.StationID)
	if err != nil {
		return nil, err
	}

	result := scoring.Compute(scoring.Input{
		WaterBodyName: name,
		Weather:       weather,
		WaterLevel:    level,
		TargetSpecies: req.Species,
		At:            s.now(),
	})
	s.metrics.RecordFangindexScore(ctx, "fangindex", result.Score)

	return &FangindexResponse{
		ResolvedLocation: resolved,
		Fangindex:        result,
		Weather:          weather,
		WaterLevel:       level,
	}, nil
}

// WaterFangindex scores a stored water body at its own coordinate, using
// its gauge station when it has one.
func (s *Service) WaterFangindex(ctx context.Context, id string) (*FangindexResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField, "water body id is required", nil)
	}
	if s.candidates == nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "no candidate source configured", nil)
	}

	wb, err := s.candidates.GetWaterBody(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := types.ValidateCandidate(*wb); err != nil {
		return nil, err
	}

	loc := types.Location{Latitude: wb.Latitude, Longitude: wb.Longitude}
	weather, level, err := s.conditions(ctx, loc, wb.StationID)
	if err != nil {
		return nil, err
	}

	result := scoring.Compute(scoring.Input{
		WaterBodyName: wb.Name,
		Weather:       weather,
		WaterLevel:    level,
		At:            s.now(),
	})
	s.metrics.RecordFangindexScore(ctx, "water", result.Score)

	return &FangindexResponse{
		ResolvedLocation: ResolvedLocation{Location: loc, Source: types.LocationSourceRequest},
		Fangindex:        result,
		Weather:          weather,
		WaterLevel:       level,
		WaterBody:        wb,
	}, nil
}

// conditions fetches weather and the station reading in parallel. Only the
// weather fetch can fail the call.
func (s *Service) conditions(ctx context.Context, loc types.Location, stationID string) (types.WeatherSnapshot, *types.WaterLevelReading, error) {
	var (
		weather types.WeatherSnapshot
		level   *types.WaterLevelReading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.fetchWeather(gctx, loc)
		if err != nil {
			return err
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		level = s.fetchWaterLevel(gctx, stationID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.WeatherSnapshot{}, nil, err
	}
	return weather, level, nil
}
