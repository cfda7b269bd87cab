package handlers

// This file covers the contextual endpoints:
//   - Insights (GET /v1/insights)
//   - Smart recommendations (GET /v1/smart)
//   - Golden hour (GET /v1/golden-hour)
//   - Gauge station search (GET /v1/stations)

import (
	"net/http"

	"fangindex/internal/core"
)

// HandleInsights handles GET /v1/insights?lat=&lon=.
func (h *SpotsHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r.URL.Query())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Insights(r.Context(), loc)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleSmart handles GET /v1/smart?lat=&lon=&radius_km=&limit=.
func (h *SpotsHandler) HandleSmart(w http.ResponseWriter, r *http.Request) {
	req, err := parseNearby(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Smart(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleGoldenHour handles GET /v1/golden-hour?lat=&lon=.
func (h *SpotsHandler) HandleGoldenHour(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r.URL.Query())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.GoldenHour(r.Context(), loc)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	// sun times only change with the date
	w.Header().Set("Cache-Control", "private, max-age=900")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleStations handles GET /v1/stations?water=.
func (h *SpotsHandler) HandleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.Stations(r.Context(), r.URL.Query().Get("water"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: stations,
		Meta: map[string]any{"count": len(stations)},
	})
}
