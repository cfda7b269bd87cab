// Package astro provides the approximate lunar and solar calculations used
// for bite-time scoring. Every function takes the instant it evaluates as a
// parameter; nothing here reads the wall clock.
package astro

import (
	"math"
	"time"
)

const (
	synodicMonth = 29.53058867
	// Julian-day offset of the 1900 epoch used by the phase approximation.
	phaseEpoch = 694039.09
)

// Phase indices. The remaining values are the waxing and waning steps in between.
const (
	NewMoon      = 0
	FirstQuarter = 2
	FullMoon     = 4
	LastQuarter  = 6
)

var phaseLabels = [8]string{
	"New Moon",
	"Waxing",
	"First Quarter",
	"Waxing",
	"Full Moon",
	"Waning",
	"Last Quarter",
	"Waning",
}

// MoonPhaseIndex returns the lunar phase of the calendar date of t as an
// index in [0,7], where 0 is new moon and 4 is full moon. Only the year,
// month and day in t's own location are used, so every instant of the same
// local date yields the same index.
func MoonPhaseIndex(t time.Time) int {
	year, month, day := t.Date()
	y := float64(year)
	m := float64(month)
	if month < 3 {
		y--
		m += 12
	}
	m++

	jd := 365.25*y + 30.6*m + float64(day) - phaseEpoch
	_, frac := math.Modf(jd / synodicMonth)
	return int(math.Round(frac*8)) % 8
}

// MoonPhaseLabel returns the display label of a phase index. Indices outside
// [0,7] wrap around.
func MoonPhaseLabel(index int) string {
	return phaseLabels[((index%8)+8)%8]
}
