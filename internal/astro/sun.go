package astro

import (
	"math"
	"time"
)

// Official zenith for sunrise and sunset, including refraction and the
// apparent radius of the solar disc.
const zenith = 90.833

const goldenHourSpan = time.Hour

// SunTimes holds the sunrise and sunset of one day. OK is false during polar
// day or polar night, when the sun does not cross the horizon.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
	OK      bool      `json:"ok"`
}

// GoldenHours marks the end of the morning window and the start of the
// evening window.
type GoldenHours struct {
	MorningEnd   time.Time `json:"morning_end"`
	EveningStart time.Time `json:"evening_start"`
}

// ComputeSunTimes approximates sunrise and sunset for the calendar date of
// date at the given coordinate. Results are in date's location and are
// accurate to a few minutes outside the polar regions.
func ComputeSunTimes(lat, lon float64, date time.Time) SunTimes {
	rise, okRise := solarEvent(lat, lon, date, true)
	set, okSet := solarEvent(lat, lon, date, false)
	if !okRise || !okSet {
		return SunTimes{}
	}
	return SunTimes{Sunrise: rise, Sunset: set, OK: true}
}

// GoldenHourWindows derives the golden-hour boundaries from sun times.
func GoldenHourWindows(sunrise, sunset time.Time) GoldenHours {
	return GoldenHours{
		MorningEnd:   sunrise.Add(goldenHourSpan),
		EveningStart: sunset.Add(-goldenHourSpan),
	}
}

// IsGoldenHour reports whether now lies within one hour of sunrise or sunset
// at the coordinate. When the sun does not rise or set that day, it falls
// back to fixed morning (5-7) and evening (18-20) clock hours.
func IsGoldenHour(lat, lon float64, now time.Time) bool {
	st := ComputeSunTimes(lat, lon, now)
	if !st.OK {
		h := now.Hour()
		return (h >= 5 && h <= 7) || (h >= 18 && h <= 20)
	}
	return within(now, st.Sunrise, goldenHourSpan) || within(now, st.Sunset, goldenHourSpan)
}

func within(t, center time.Time, span time.Duration) bool {
	d := t.Sub(center)
	return d >= -span && d <= span
}

func solarEvent(lat, lon float64, date time.Time, rising bool) (time.Time, bool) {
	year, month, day := date.Date()
	n := float64(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).YearDay())
	lngHour := lon / 15

	approx := 18.0
	if rising {
		approx = 6.0
	}
	t := n + (approx-lngHour)/24

	meanAnomaly := 0.9856*t - 3.289
	trueLong := normalizeDegrees(meanAnomaly + 1.916*sinDeg(meanAnomaly) + 0.020*sinDeg(2*meanAnomaly) + 282.634)

	ra := normalizeDegrees(radToDeg(math.Atan(0.91764 * tanDeg(trueLong))))
	// right ascension must share the quadrant of the true longitude
	ra += math.Floor(trueLong/90)*90 - math.Floor(ra/90)*90
	ra /= 15

	sinDec := 0.39782 * sinDeg(trueLong)
	cosDec := math.Cos(math.Asin(sinDec))

	cosH := (cosDeg(zenith) - sinDec*sinDeg(lat)) / (cosDec * cosDeg(lat))
	if math.IsNaN(cosH) || cosH > 1 || cosH < -1 {
		return time.Time{}, false
	}

	var hourAngle float64
	if rising {
		hourAngle = 360 - radToDeg(math.Acos(cosH))
	} else {
		hourAngle = radToDeg(math.Acos(cosH))
	}
	hourAngle /= 15

	localMean := hourAngle + ra - 0.06571*t - 6.622
	ut := math.Mod(localMean-lngHour, 24)
	if ut < 0 {
		ut += 24
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	event := midnight.Add(time.Duration(ut * float64(time.Hour))).In(date.Location())
	return onLocalDate(event, year, month, day), true
}

// onLocalDate moves t by whole days until its calendar date in its own
// location is year-month-day. The UT hour above is relative to UTC
// midnight, so far from Greenwich the event can land on the neighbouring
// local day.
func onLocalDate(t time.Time, year int, month time.Month, day int) time.Time {
	want := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	for range 2 {
		y, m, d := t.Date()
		got := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		switch {
		case got.Before(want):
			t = t.Add(24 * time.Hour)
		case got.After(want):
			t = t.Add(-24 * time.Hour)
		default:
			return t
		}
	}
	return t
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func sinDeg(d float64) float64 { return math.Sin(degToRad(d)) }
func cosDeg(d float64) float64 { return math.Cos(degToRad(d)) }
func tanDeg(d float64) float64 { return math.Tan(degToRad(d)) }
