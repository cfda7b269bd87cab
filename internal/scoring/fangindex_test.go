package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fangindex/internal/astro"
	"fangindex/internal/types"
)

var (
	idealWeather = types.WeatherSnapshot{TemperatureC: 16, PressureHPa: 1015, WindSpeedMS: 2, CloudCoverPct: 50}
	// full moon, 06:00
	fullMoonMorning = time.Date(2024, time.July, 21, 6, 0, 0, 0, time.UTC)
)

func TestCompute_IdealMorningFullMoon(t *testing.T) {
	res := ComputeFangindex("Waldteich", idealWeather, nil, fullMoonMorning)

	assert.Equal(t, types.FactorScores{Weather: 100, TimeOfDay: 90, MoonPhase: 90, WaterLevel: 60}, res.Factors)
	assert.Equal(t, 89, res.Score)
	assert.Equal(t, "Full Moon", res.MoonPhase)
	assert.Equal(t, "Full Moon, 16°C, pressure 1015 hPa. Good bite time!", res.Reasoning)
	assert.Equal(t, "Excellent conditions at Waldteich! The Full Moon and the current weather promise good catches.", res.Recommendation)
	assert.Equal(t, []types.Species{types.SpeciesPike, types.SpeciesZander, types.SpeciesPerch}, res.BestFish)
	assert.Equal(t, fullMoonMorning, res.ComputedAt)
}

func TestCompute_RisingWaterLevel(t *testing.T) {
	res := Compute(Input{
		WaterBodyName: "Elbe",
		Weather:       idealWeather,
		WaterLevel:    &types.WaterLevelReading{StationID: "123", Trend: types.TrendRising},
		At:            time.Date(2024, time.July, 20, 6, 0, 0, 0, time.UTC),
	})

	// 100*.35 + 90*.30 + moon*.20 + 85*.15
	moon := MoonScore(astro.MoonPhaseIndex(time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 85, res.Factors.WaterLevel)
	assert.Equal(t, moon, res.Factors.MoonPhase)
	assert.GreaterOrEqual(t, res.Score, 80)
}

func TestCompute_TargetSpeciesDoesNotAffectScore(t *testing.T) {
	base := Compute(Input{WaterBodyName: "See", Weather: idealWeather, At: fullMoonMorning})
	hinted := Compute(Input{WaterBodyName: "See", Weather: idealWeather, At: fullMoonMorning, TargetSpecies: types.SpeciesCarp})

	assert.Equal(t, base, hinted)
}

func TestCompute_RecommendationBands(t *testing.T) {
	noon := time.Date(2024, time.July, 21, 13, 0, 0, 0, time.UTC)
	night := time.Date(2024, time.July, 14, 2, 0, 0, 0, time.UTC)
	neutral := types.WeatherSnapshot{TemperatureC: 25, PressureHPa: 1005, WindSpeedMS: 5, CloudCoverPct: 80}
	storm := types.WeatherSnapshot{TemperatureC: 2, PressureHPa: 995, WindSpeedMS: 12, CloudCoverPct: 90}

	decent := ComputeFangindex("Teich", neutral, nil, noon)
	require.GreaterOrEqual(t, decent.Score, 50)
	require.Less(t, decent.Score, 75)
	assert.Contains(t, decent.Recommendation, "early morning or late evening")
	assert.True(t, strings.HasSuffix(decent.Reasoning, "Not the optimal time of day."))

	tough := ComputeFangindex("Teich", storm, nil, night)
	require.Less(t, tough.Score, 50)
	assert.Contains(t, tough.Recommendation, "bottom fishing")
}

func TestCompute_Deterministic(t *testing.T) {
	a := ComputeFangindex("Waldteich", idealWeather, nil, fullMoonMorning)
	b := ComputeFangindex("Waldteich", idealWeather, nil, fullMoonMorning)
	assert.Equal(t, a, b)
}

func TestComposite_ClampsSubScores(t *testing.T) {
	assert.Equal(t, 100, Composite(types.FactorScores{Weather: 250, TimeOfDay: 100, MoonPhase: 100, WaterLevel: 100}))
	assert.Equal(t, 0, Composite(types.FactorScores{Weather: -40, TimeOfDay: -1, MoonPhase: 0, WaterLevel: 0}))
	assert.Equal(t, 92, Composite(types.FactorScores{Weather: 100, TimeOfDay: 90, MoonPhase: 85, WaterLevel: 85}))
}

func TestBestFish(t *testing.T) {
	tests := []struct {
		name    string
		weather types.WeatherSnapshot
		want    []types.Species
	}{
		{"cold water", types.WeatherSnapshot{TemperatureC: 8, CloudCoverPct: 20}, []types.Species{types.SpeciesTrout, types.SpeciesGrayling}},
		{"cold and overcast adds eel", types.WeatherSnapshot{TemperatureC: 8, CloudCoverPct: 80}, []types.Species{types.SpeciesTrout, types.SpeciesGrayling, types.SpeciesEel}},
		{"moderate at lower edge", types.WeatherSnapshot{TemperatureC: 12}, []types.Species{types.SpeciesPike, types.SpeciesZander, types.SpeciesPerch}},
		{"moderate at upper edge", types.WeatherSnapshot{TemperatureC: 20}, []types.Species{types.SpeciesPike, types.SpeciesZander, types.SpeciesPerch}},
		{"warm water", types.WeatherSnapshot{TemperatureC: 25}, []types.Species{types.SpeciesCarp, types.SpeciesTench, types.SpeciesCatfish}},
		{"warm and overcast truncates to three", types.WeatherSnapshot{TemperatureC: 25, CloudCoverPct: 90}, []types.Species{types.SpeciesCarp, types.SpeciesTench, types.SpeciesCatfish}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestFish(tt.weather)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), 3)
		})
	}
}

func TestCompute_ScoresStayInRangeAcrossWeatherGrid(t *testing.T) {
	levels := []*types.WaterLevelReading{
		nil,
		{Trend: types.TrendRising},
		{Trend: types.TrendFalling},
		{Trend: types.TrendStable},
	}
	at := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	for pressure := 800; pressure <= 1100; pressure += 25 {
		for temp := -40.0; temp <= 50; temp += 5 {
			for wind := 0.0; wind <= 60; wind += 7.5 {
				for clouds := 0; clouds <= 100; clouds += 20 {
					w := types.WeatherSnapshot{
						TemperatureC:  temp,
						PressureHPa:   pressure,
						WindSpeedMS:   wind,
						CloudCoverPct: clouds,
					}
					for i, level := range levels {
						// Walk the hours and moon cycle alongside the weather.
						ts := at.Add(time.Duration(pressure+clouds+i) * 37 * time.Hour)
						res := Compute(Input{WaterBodyName: "Grid", Weather: w, WaterLevel: level, At: ts})

						for name, v := range map[string]int{
							"weather":     res.Factors.Weather,
							"time_of_day": res.Factors.TimeOfDay,
							"moon_phase":  res.Factors.MoonPhase,
							"water_level": res.Factors.WaterLevel,
							"composite":   res.Score,
						} {
							if v < 0 || v > 100 {
								t.Fatalf("%s score %d out of range for %+v at %s", name, v, w, ts)
							}
						}
					}
				}
			}
		}
	}
}
