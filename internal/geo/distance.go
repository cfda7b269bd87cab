// Package geo provides great-circle distances between coordinates.
package geo

import (
	"math"

	"fangindex/internal/types"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between a and b in kilometres.
// The result is symmetric and never negative.
func DistanceKm(a, b types.Location) float64 {
	if a == b {
		return 0
	}
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h marginally outside [0,1]
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Valid reports whether loc is a finite, in-range coordinate.
func Valid(loc types.Location) bool {
	return types.ValidLatitude(loc.Latitude) && types.ValidLongitude(loc.Longitude)
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
