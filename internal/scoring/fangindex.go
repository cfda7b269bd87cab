package scoring

import (
	"fmt"
	"math"
	"time"

	"fangindex/internal/astro"
	"fangindex/internal/types"
)

// Composite weights. Weather and time of day change hour to hour and
// dominate; moon phase and water level move slowly.
const (
	weatherWeight    = 0.35
	timeWeight       = 0.30
	moonWeight       = 0.20
	waterLevelWeight = 0.15

	excellentThreshold = 75
	decentThreshold    = 50
)

// Input is everything needed to score one water body at one instant.
type Input struct {
	WaterBodyName string
	Weather       types.WeatherSnapshot
	WaterLevel    *types.WaterLevelReading
	// TargetSpecies is accepted for future species-specific tuning and does
	// not affect the score.
	TargetSpecies types.Species
	At            time.Time
}

// Compute scores the input. It always returns a result.
func Compute(in Input) types.FangindexResult {
	phase := astro.MoonPhaseIndex(in.At)
	factors := types.FactorScores{
		Weather:    WeatherScore(in.Weather),
		TimeOfDay:  TimeScore(in.At.Hour()),
		MoonPhase:  MoonScore(phase),
		WaterLevel: WaterLevelScore(in.WaterLevel),
	}
	score := Composite(factors)
	label := astro.MoonPhaseLabel(phase)

	return types.FangindexResult{
		Score:          score,
		Factors:        factors,
		BestFish:       BestFish(in.Weather),
		Reasoning:      reasoning(label, in.Weather, factors.TimeOfDay),
		Recommendation: recommendation(score, in.WaterBodyName, label),
		MoonPhase:      label,
		ComputedAt:     in.At,
	}
}

// ComputeFangindex scores a named water body with the shared weather and an
// optional water-level reading at the instant at.
func ComputeFangindex(name string, weather types.WeatherSnapshot, waterLevel *types.WaterLevelReading, at time.Time) types.FangindexResult {
	return Compute(Input{
		WaterBodyName: name,
		Weather:       weather,
		WaterLevel:    waterLevel,
		At:            at,
	})
}

// Composite combines clamped sub-scores into the final integer score.
func Composite(f types.FactorScores) int {
	total := float64(clamp(f.Weather))*weatherWeight +
		float64(clamp(f.TimeOfDay))*timeWeight +
		float64(clamp(f.MoonPhase))*moonWeight +
		float64(clamp(f.WaterLevel))*waterLevelWeight
	return clamp(int(math.Round(total)))
}

func reasoning(moon string, w types.WeatherSnapshot, timeScore int) string {
	remark := "Not the optimal time of day."
	if timeScore >= GoodBiteThreshold {
		remark = "Good bite time!"
	}
	return fmt.Sprintf("%s, %d°C, pressure %d hPa. %s", moon, int(math.Round(w.TemperatureC)), w.PressureHPa, remark)
}

func recommendation(score int, waterBody, moon string) string {
	switch {
	case score >= excellentThreshold:
		return fmt.Sprintf("Excellent conditions at %s! The %s and the current weather promise good catches.", waterBody, moon)
	case score >= decentThreshold:
		return "Decent chances today. Focus on the early morning or late evening hours."
	default:
		return "Tough conditions. Try bottom fishing or wait for better weather."
	}
}
