// Package scoring turns weather, time of day, lunar phase and water level
// into the 0-100 Fangindex catch score.
package scoring

import "fangindex/internal/types"

const baselineScore = 50

// WeatherScore rates a weather snapshot. Each rule adds to or subtracts from
// the baseline independently and the sum is clamped to [0,100].
func WeatherScore(w types.WeatherSnapshot) int {
	score := baselineScore

	switch {
	case w.PressureHPa >= 1010 && w.PressureHPa <= 1020:
		score += 20
	case w.PressureHPa < 1000 || w.PressureHPa > 1030:
		score -= 15
	}

	switch {
	case w.TemperatureC >= 10 && w.TemperatureC <= 20:
		score += 15
	case w.TemperatureC < 5 || w.TemperatureC > 28:
		score -= 20
	}

	switch {
	case w.WindSpeedMS < 3:
		score += 10
	case w.WindSpeedMS > 8:
		score -= 15
	}

	if w.CloudCoverPct >= 30 && w.CloudCoverPct <= 70 {
		score += 10
	}

	return clamp(score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
