// Package insights derives the angler's situation from the clock, position
// and weather, and turns it into short prioritized tips.
package insights

import (
	"time"

	"fangindex/internal/astro"
	"fangindex/internal/types"
)

// FishingContext is the situation an angler is in at one instant.
type FishingContext struct {
	At             time.Time              `json:"at"`
	Hour           int                    `json:"hour"`
	TimeOfDay      types.TimeOfDay        `json:"time_of_day"`
	IsGoldenHour   bool                   `json:"is_golden_hour"`
	MoonPhaseIndex int                    `json:"moon_phase_index"`
	MoonPhase      string                 `json:"moon_phase"`
	Weather        *types.WeatherSnapshot `json:"weather,omitempty"`
	Season         types.Season           `json:"season"`
	Weekday        time.Weekday           `json:"weekday"`
	IsWeekend      bool                   `json:"is_weekend"`
}

// DetectContext builds the context for now at the given coordinate. now
// should already be in the angler's local time zone. weather may be nil.
func DetectContext(now time.Time, lat, lon float64, weather *types.WeatherSnapshot) FishingContext {
	hour := now.Hour()
	phase := astro.MoonPhaseIndex(now)
	weekday := now.Weekday()

	return FishingContext{
		At:             now,
		Hour:           hour,
		TimeOfDay:      ClassifyHour(hour),
		IsGoldenHour:   astro.IsGoldenHour(lat, lon, now),
		MoonPhaseIndex: phase,
		MoonPhase:      astro.MoonPhaseLabel(phase),
		Weather:        weather,
		Season:         SeasonOf(now.Month()),
		Weekday:        weekday,
		IsWeekend:      weekday == time.Saturday || weekday == time.Sunday,
	}
}

// ClassifyHour maps a clock hour to its period of the day.
func ClassifyHour(hour int) types.TimeOfDay {
	switch {
	case hour >= 5 && hour < 8:
		return types.TimeEarlyMorning
	case hour >= 8 && hour < 12:
		return types.TimeMorning
	case hour >= 12 && hour < 14:
		return types.TimeMidday
	case hour >= 14 && hour < 17:
		return types.TimeAfternoon
	case hour >= 17 && hour < 21:
		return types.TimeEvening
	default:
		return types.TimeNight
	}
}

// SeasonOf returns the meteorological season of a month.
func SeasonOf(m time.Month) types.Season {
	switch {
	case m >= time.March && m <= time.May:
		return types.SeasonSpring
	case m >= time.June && m <= time.August:
		return types.SeasonSummer
	case m >= time.September && m <= time.November:
		return types.SeasonAutumn
	default:
		return types.SeasonWinter
	}
}
