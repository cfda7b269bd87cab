package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fangindex/internal/spots"
	"fangindex/internal/types"
)

// parseLocation reads lat and lon. Both absent yields nil so the service
// resolves the position itself; one without the other is an error. Range
// checks happen in the service.
func parseLocation(q url.Values) (*types.Location, error) {
	latStr := strings.TrimSpace(q.Get("lat"))
	lonStr := strings.TrimSpace(q.Get("lon"))
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField, "lat is required when lon is given", nil)
	}
	if lonStr == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField, "lon is required when lat is given", nil)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLat, "lat must be a valid number", nil)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLon, "lon must be a valid number", nil)
	}
	return &types.Location{Latitude: lat, Longitude: lon}, nil
}

func parseNearby(r *http.Request) (spots.NearbyRequest, error) {
	q := r.URL.Query()
	loc, err := parseLocation(q)
	if err != nil {
		return spots.NearbyRequest{}, err
	}
	req := spots.NearbyRequest{Location: loc}

	if s := q.Get("radius_km"); s != "" {
		radius, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return spots.NearbyRequest{}, types.NewAppError(types.ErrCodeValidationInvalidRadius, "radius_km must be a number", nil)
		}
		req.RadiusKm = radius
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return spots.NearbyRequest{}, types.NewAppError(types.ErrCodeValidationInvalidLimit, "limit must be an integer", nil)
		}
		req.Limit = limit
	}
	return req, nil
}
