package scoring

import "fangindex/internal/types"

const (
	noWaterLevelScore = 60
	stableLevelScore  = 75
	risingLevelScore  = 85
	fallingLevelScore = 50
)

// WaterLevelScore rates a gauge trend. A nil reading, or one with an
// unrecognized trend, gets the neutral default.
func WaterLevelScore(r *types.WaterLevelReading) int {
	if r == nil {
		return noWaterLevelScore
	}
	switch r.Trend {
	case types.TrendStable:
		return stableLevelScore
	case types.TrendRising:
		return risingLevelScore
	case types.TrendFalling:
		return fallingLevelScore
	default:
		return noWaterLevelScore
	}
}
