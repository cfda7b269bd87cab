package insights

import (
	"fmt"
	"math"
	"sort"

	"fangindex/internal/astro"
	"fangindex/internal/types"
)

// MaxInsights caps how many insights are shown at once.
const MaxInsights = 3

type rule func(FishingContext) *types.Insight

// rules run in this order; each yields at most one insight.
var rules = []rule{
	earlyMorningRule,
	goldenHourRule,
	middayRule,
	fullMoonNightRule,
	lowPressureRule,
	highPressureRule,
	strongWindRule,
	perfectConditionsRule,
	waterTemperatureRule,
	newMoonRule,
	weekendRule,
}

// Generate evaluates every rule against ctx and returns at most three
// insights, high priority first. Insights of equal priority keep rule order.
func Generate(ctx FishingContext) []types.Insight {
	out := make([]types.Insight, 0, len(rules))
	for _, r := range rules {
		if in := r(ctx); in != nil {
			out = append(out, *in)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

func earlyMorningRule(ctx FishingContext) *types.Insight {
	if ctx.TimeOfDay != types.TimeEarlyMorning {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightOpportunity,
		Title:    "Early start!",
		Message:  "Perfect time for predators. Pike and zander are active now.",
		Priority: types.PriorityHigh,
		Action: &types.InsightAction{
			Label:   "Predator spots",
			Kind:    types.ActionFilter,
			Species: []types.Species{types.SpeciesPike, types.SpeciesZander, types.SpeciesPerch},
		},
	}
}

func goldenHourRule(ctx FishingContext) *types.Insight {
	if !ctx.IsGoldenHour {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightTiming,
		Title:    "Golden hour!",
		Message:  "The best bite time of the day. Get to the water now!",
		Priority: types.PriorityHigh,
	}
}

func middayRule(ctx FishingContext) *types.Insight {
	if ctx.TimeOfDay != types.TimeMidday {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightTip,
		Title:    "Midday heat",
		Message:  "Fish retreat to deeper water. Bottom fishing recommended.",
		Priority: types.PriorityMedium,
	}
}

func fullMoonNightRule(ctx FishingContext) *types.Insight {
	if ctx.TimeOfDay != types.TimeNight || ctx.MoonPhaseIndex != astro.FullMoon {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightOpportunity,
		Title:    "Full moon night",
		Message:  "Eels and catfish are especially active under a full moon!",
		Priority: types.PriorityHigh,
		Action: &types.InsightAction{
			Label:   "Night fishing spots",
			Kind:    types.ActionFilter,
			Species: []types.Species{types.SpeciesEel, types.SpeciesCatfish},
		},
	}
}

func lowPressureRule(ctx FishingContext) *types.Insight {
	if ctx.Weather == nil || ctx.Weather.PressureHPa >= 1010 {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightOpportunity,
		Title:    "Pressure drop!",
		Message:  "Low air pressure gets the fish feeding. Very good chances today!",
		Priority: types.PriorityHigh,
	}
}

func highPressureRule(ctx FishingContext) *types.Insight {
	if ctx.Weather == nil || ctx.Weather.PressureHPa <= 1025 {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightTip,
		Title:    "High pressure",
		Message:  "Fish are sluggish. Try smaller baits and a slower retrieve.",
		Priority: types.PriorityMedium,
	}
}

func strongWindRule(ctx FishingContext) *types.Insight {
	if ctx.Weather == nil || ctx.Weather.WindSpeedMS <= 10 {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightWarning,
		Title:    "Strong wind",
		Message:  fmt.Sprintf("%d m/s wind. Look for sheltered spots.", int(math.Round(ctx.Weather.WindSpeedMS))),
		Priority: types.PriorityMedium,
	}
}

func perfectConditionsRule(ctx FishingContext) *types.Insight {
	w := ctx.Weather
	if w == nil {
		return nil
	}
	if w.PressureHPa < 1010 || w.PressureHPa > 1020 ||
		w.TemperatureC < 12 || w.TemperatureC > 22 ||
		w.WindSpeedMS >= 5 ||
		w.CloudCoverPct < 30 || w.CloudCoverPct > 70 {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightOpportunity,
		Title:    "Perfect conditions!",
		Message:  "Every factor lines up. Today is your day!",
		Priority: types.PriorityHigh,
	}
}

func waterTemperatureRule(ctx FishingContext) *types.Insight {
	if ctx.Weather == nil {
		return nil
	}
	switch {
	case ctx.Weather.TemperatureC < 10:
		return &types.Insight{
			Type:     types.InsightTip,
			Title:    "Cold water",
			Message:  "Trout and grayling love it. Salmonid season.",
			Priority: types.PriorityLow,
		}
	case ctx.Weather.TemperatureC > 25:
		return &types.Insight{
			Type:     types.InsightTip,
			Title:    "Warm water",
			Message:  "Carp, tench and catfish are at their most active now.",
			Priority: types.PriorityLow,
		}
	}
	return nil
}

func newMoonRule(ctx FishingContext) *types.Insight {
	if ctx.MoonPhaseIndex != astro.NewMoon {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightTip,
		Title:    "New moon",
		Message:  "Dark nights mean active predators. A good time for night fishing.",
		Priority: types.PriorityLow,
	}
}

func weekendRule(ctx FishingContext) *types.Insight {
	if !ctx.IsWeekend {
		return nil
	}
	return &types.Insight{
		Type:     types.InsightTip,
		Title:    "Weekend",
		Message:  "Popular spots may be crowded. Arrive early or try a hidden gem.",
		Priority: types.PriorityLow,
	}
}
