package types

import "math"

// Coordinate and request bounds.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0

	MaxNameLength = 200
	MaxRadiusKm   = 500.0
)

// ValidLatitude reports whether lat is a finite latitude.
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= MinLat && lat <= MaxLat
}

// ValidLongitude reports whether lon is a finite longitude.
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= MinLon && lon <= MaxLon
}

// ValidateCandidate checks that a water body can take part in ranking.
// It returns an AppError with ErrCodeValidationMalformedCandidate describing
// the first problem found.
func ValidateCandidate(c WaterBodyCandidate) error {
	switch {
	case c.Name == "":
		return NewAppErrorWithDetails(ErrCodeValidationMalformedCandidate, "water body has no name", nil,
			map[string]any{"id": c.ID})
	case len(c.Name) > MaxNameLength:
		return NewAppErrorWithDetails(ErrCodeValidationMalformedCandidate, "water body name too long", nil,
			map[string]any{"id": c.ID})
	case !ValidLatitude(c.Latitude):
		return NewAppErrorWithDetails(ErrCodeValidationMalformedCandidate, "latitude out of range", nil,
			map[string]any{"id": c.ID, "latitude": c.Latitude})
	case !ValidLongitude(c.Longitude):
		return NewAppErrorWithDetails(ErrCodeValidationMalformedCandidate, "longitude out of range", nil,
			map[string]any{"id": c.ID, "longitude": c.Longitude})
	}
	return nil
}
