package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fangindex/internal/types"
)

var (
	bendestorf = types.Location{Latitude: 53.3347, Longitude: 9.9717}
	hamburg    = types.Location{Latitude: 53.5511, Longitude: 9.9937}
	berlin     = types.Location{Latitude: 52.5200, Longitude: 13.4050}
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	assert.InDelta(t, 24.1, DistanceKm(bendestorf, hamburg), 0.3)
	assert.InDelta(t, 255.0, DistanceKm(hamburg, berlin), 3)
}

func TestDistanceKm_Identity(t *testing.T) {
	for _, loc := range []types.Location{bendestorf, hamburg, berlin, {Latitude: -33.9, Longitude: 151.2}} {
		assert.Equal(t, 0.0, DistanceKm(loc, loc))
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	points := []types.Location{
		bendestorf, hamburg, berlin,
		{Latitude: 0, Longitude: 179.9},
		{Latitude: 0, Longitude: -179.9},
		{Latitude: 89.9, Longitude: 0},
		{Latitude: -45, Longitude: 60},
	}
	for _, a := range points {
		for _, b := range points {
			ab := DistanceKm(a, b)
			ba := DistanceKm(b, a)
			assert.InDelta(t, ab, ba, 1e-9)
			assert.GreaterOrEqual(t, ab, 0.0)
		}
	}
}

func TestDistanceKm_AntimeridianIsShort(t *testing.T) {
	d := DistanceKm(types.Location{Latitude: 0, Longitude: 179.9}, types.Location{Latitude: 0, Longitude: -179.9})
	assert.Less(t, d, 25.0)
}

func TestDistanceKm_Antipodal(t *testing.T) {
	d := DistanceKm(types.Location{Latitude: 0, Longitude: 0}, types.Location{Latitude: 0, Longitude: 180})
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(bendestorf))
	assert.True(t, Valid(types.Location{Latitude: -90, Longitude: 180}))
	assert.False(t, Valid(types.Location{Latitude: math.NaN(), Longitude: 0}))
	assert.False(t, Valid(types.Location{Latitude: 0, Longitude: math.Inf(-1)}))
	assert.False(t, Valid(types.Location{Latitude: 90.1, Longitude: 0}))
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 2.0, RoundKm(2.04))
	assert.Equal(t, 8.1, RoundKm(8.06))
	assert.Equal(t, 0.0, RoundKm(0.01))
}
