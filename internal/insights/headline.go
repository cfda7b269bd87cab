package insights

import (
	"fangindex/internal/astro"
	"fangindex/internal/types"
)

// Headline returns a greeting for the time of day and a one-line summary.
// Extreme weather replaces the summary; a pressure drop wins over wind.
func Headline(ctx FishingContext) (headline, subheadline string) {
	switch ctx.TimeOfDay {
	case types.TimeEarlyMorning:
		headline, subheadline = "Early start!", "The predators are already waiting."
	case types.TimeMorning:
		headline, subheadline = "Good morning", "Still good chances until noon."
	case types.TimeMidday:
		headline, subheadline = "Lunch break?", "Bottom fishing works best right now."
	case types.TimeAfternoon:
		headline, subheadline = "Afternoon session", "The golden hour starts soon."
	case types.TimeEvening:
		headline, subheadline = "Golden hour!", "Best bite time of the day. Go!"
	default:
		headline = "Night fishing?"
		if ctx.MoonPhaseIndex == astro.FullMoon {
			subheadline = "The full moon gets the eels moving!"
		} else {
			subheadline = "Enjoy the quiet at the water."
		}
	}

	if ctx.Weather != nil {
		if ctx.Weather.WindSpeedMS > 15 {
			subheadline = "Careful, strong wind today!"
		}
		if ctx.Weather.PressureHPa < 1005 {
			subheadline = "Pressure drop means the fish are biting!"
		}
	}
	return headline, subheadline
}

const goodConditionScore = 75

// Condition summarizes the situation from the insights shown and the scores
// of the recommended spots.
func Condition(insights []types.Insight, spotScores []int) types.Condition {
	for _, in := range insights {
		if in.Priority == types.PriorityHigh && in.Type == types.InsightOpportunity {
			return types.ConditionExcellent
		}
	}
	for _, s := range spotScores {
		if s >= goodConditionScore {
			return types.ConditionGood
		}
	}
	for _, in := range insights {
		if in.Type == types.InsightWarning {
			return types.ConditionPoor
		}
	}
	return types.ConditionModerate
}
