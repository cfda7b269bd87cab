// Package handlers contains the HTTP handlers of the Fangindex API.
//
// This file covers scoring and ranking:
//   - Fangindex at a coordinate (GET /v1/fangindex)
//   - Fangindex of a stored water (GET /v1/waters/{id}/fangindex)
//   - Nearby spots (GET /v1/spots/nearby)
//   - Ranking of caller-supplied candidates (POST /v1/rank)
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fangindex/internal/core"
	"fangindex/internal/external"
	"fangindex/internal/spots"
	"fangindex/internal/types"
)

// SpotsService is the service contract of SpotsHandler. It is satisfied by
// *spots.Service.
type SpotsService interface {
	Fangindex(ctx context.Context, req spots.FangindexRequest) (*spots.FangindexResponse, error)
	WaterFangindex(ctx context.Context, id string) (*spots.FangindexResponse, error)
	Nearby(ctx context.Context, req spots.NearbyRequest) (*spots.NearbyResponse, error)
	Rank(ctx context.Context, req spots.RankRequest) (*spots.NearbyResponse, error)
	Insights(ctx context.Context, loc *types.Location) (*spots.InsightsResponse, error)
	Smart(ctx context.Context, req spots.NearbyRequest) (*spots.SmartResponse, error)
	GoldenHour(ctx context.Context, loc *types.Location) (*spots.GoldenHourResponse, error)
	Stations(ctx context.Context, water string) ([]external.Station, error)
}

var _ SpotsService = (*spots.Service)(nil)

// SpotsHandler maps HTTP requests to SpotsService methods.
type SpotsHandler struct {
	service   SpotsService
	validator *core.Validator
	logger    *slog.Logger
}

// NewSpotsHandler creates a SpotsHandler.
func NewSpotsHandler(svc SpotsService, val *core.Validator, logger *slog.Logger) *SpotsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if val == nil {
		val = core.NewValidator(logger)
	}
	return &SpotsHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts all endpoints onto a /v1 router.
func (h *SpotsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fangindex", h.HandleFangindex)
	r.Get("/waters/{id}/fangindex", h.HandleWaterFangindex)
	r.Get("/spots/nearby", h.HandleNearby)
	r.Post("/rank", h.HandleRank)
	r.Get("/insights", h.HandleInsights)
	r.Get("/smart", h.HandleSmart)
	r.Get("/golden-hour", h.HandleGoldenHour)
	r.Get("/stations", h.HandleStations)
}

// HandleFangindex handles GET /v1/fangindex?lat=&lon=&name=&station=&species=.
// Without lat and lon the location provider chain is used.
func (h *SpotsHandler) HandleFangindex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc, err := parseLocation(q)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	req := spots.FangindexRequest{
		Location:  loc,
		Name:      q.Get("name"),
		StationID: strings.TrimSpace(q.Get("station")),
	}
	if raw := q.Get("species"); raw != "" {
		sp, ok := types.ParseSpecies(raw)
		if !ok {
			core.Error(w, r, types.NewAppErrorWithDetails(
				types.ErrCodeValidationInvalidRequest,
				"unknown species",
				nil,
				map[string]any{"species": raw},
			))
			return
		}
		req.Species = sp
	}
	if len(req.Name) > types.MaxNameLength {
		core.Error(w, r, types.NewAppError(types.ErrCodeValidationInvalidRequest, "name too long", nil))
		return
	}

	result, err := h.service.Fangindex(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleWaterFangindex handles GET /v1/waters/{id}/fangindex.
func (h *SpotsHandler) HandleWaterFangindex(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.WaterFangindex(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleNearby handles GET /v1/spots/nearby?lat=&lon=&radius_km=&limit=.
func (h *SpotsHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	req, err := parseNearby(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Nearby(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: result.Spots,
		Meta: nearbyMeta(result),
	})
}

// rankRequest is the body of POST /v1/rank. Candidate type and species are
// free text and normalized the same way stored waters are.
type rankRequest struct {
	Location    *locationBody             `json:"location"`
	RadiusKm    float64                   `json:"radius_km" validate:"gte=0,lte=500"`
	Limit       int                       `json:"limit" validate:"gte=0"`
	At          *time.Time                `json:"at"`
	Weather     *weatherBody              `json:"weather" validate:"required"`
	WaterLevels []types.WaterLevelReading `json:"water_levels"`
	Candidates  []candidateBody           `json:"candidates" validate:"required,max=500"`
}

type locationBody struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type weatherBody struct {
	TemperatureC  float64 `json:"temperature_c" validate:"gte=-60,lte=60"`
	PressureHPa   int     `json:"pressure_hpa" validate:"gte=0,lte=1200"`
	HumidityPct   int     `json:"humidity_pct" validate:"gte=0,lte=100"`
	WindSpeedMS   float64 `json:"wind_speed_ms" validate:"gte=0"`
	CloudCoverPct int     `json:"cloud_cover_pct" validate:"gte=0,lte=100"`
	Description   string  `json:"description"`
}

// candidateBody is not validated field by field: malformed candidates are
// skipped by the ranking and reported in meta.skipped. Coordinates stay raw
// so a null, missing or non-numeric value only affects its own candidate.
type candidateBody struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
	Region      string          `json:"region"`
	FishSpecies []string        `json:"fish_species"`
	PermitPrice *float64        `json:"permit_price"`
	IsAssumed   bool            `json:"is_assumed"`
	StationID   string          `json:"station_id"`
}

// parseCoordinate accepts a JSON number or a numeric string. Anything else
// yields NaN, which candidate validation rejects.
func parseCoordinate(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func (c candidateBody) toCandidate() types.WaterBodyCandidate {
	out := types.WaterBodyCandidate{
		ID:          c.ID,
		Name:        strings.TrimSpace(c.Name),
		Type:        types.ParseWaterType(c.Type),
		Latitude:    parseCoordinate(c.Latitude),
		Longitude:   parseCoordinate(c.Longitude),
		Region:      c.Region,
		PermitPrice: c.PermitPrice,
		IsAssumed:   c.IsAssumed,
		StationID:   c.StationID,
	}
	if out.Type == types.WaterTypeUnknown && c.Type != "" {
		out.RawType = c.Type
	}
	out.FishSpecies, out.RawFishSpecies = types.ParseSpeciesList(c.FishSpecies)
	return out
}

// HandleRank handles POST /v1/rank. No upstream provider is called: the
// caller supplies weather and water levels.
func (h *SpotsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	var body rankRequest
	if err := core.DecodeJSON(w, r, &body); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		core.Error(w, r, err)
		return
	}

	req := spots.RankRequest{
		Candidates: make([]types.WaterBodyCandidate, 0, len(body.Candidates)),
		Weather: types.WeatherSnapshot{
			TemperatureC:  body.Weather.TemperatureC,
			PressureHPa:   body.Weather.PressureHPa,
			HumidityPct:   body.Weather.HumidityPct,
			WindSpeedMS:   body.Weather.WindSpeedMS,
			CloudCoverPct: body.Weather.CloudCoverPct,
			Description:   body.Weather.Description,
		},
		At:       body.At,
		RadiusKm: body.RadiusKm,
		Limit:    body.Limit,
	}
	if body.Location != nil {
		req.Location = &types.Location{Latitude: body.Location.Lat, Longitude: body.Location.Lon}
	}
	for _, c := range body.Candidates {
		req.Candidates = append(req.Candidates, c.toCandidate())
	}
	if len(body.WaterLevels) > 0 {
		req.WaterLevels = make(map[string]*types.WaterLevelReading, len(body.WaterLevels))
		for i := range body.WaterLevels {
			lvl := body.WaterLevels[i]
			req.WaterLevels[lvl.StationID] = &lvl
		}
	}

	result, err := h.service.Rank(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: result.Spots,
		Meta: nearbyMeta(result),
	})
}

// nearbyMeta carries the ranking parameters next to the spot list.
func nearbyMeta(res *spots.NearbyResponse) map[string]any {
	meta := map[string]any{
		"location":        res.Location,
		"location_source": res.Source,
		"radius_km":       res.RadiusKm,
		"limit":           res.Limit,
		"radius_fallback": res.RadiusFallback,
		"weather":         res.Weather,
	}
	if len(res.Skipped) > 0 {
		meta["skipped"] = res.Skipped
	}
	return meta
}
