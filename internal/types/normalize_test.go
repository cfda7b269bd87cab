package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWaterType(t *testing.T) {
	tests := []struct {
		raw  string
		want WaterType
	}{
		{"teich", WaterTypePond},
		{"Angelteich", WaterTypePond},
		{"Forellensee", WaterTypeTroutPond},
		{"Forellenteich", WaterTypeTroutPond},
		{"Karpfenteich", WaterTypeCarpPond},
		{"Privatteich", WaterTypePrivatePond},
		{"see", WaterTypeLake},
		{"Baggersee", WaterTypeLake},
		{"fluss", WaterTypeRiver},
		{"kanal", WaterTypeCanal},
		{"Nord-Ostsee-Kanal", WaterTypeCanal},
		{"Elbe-Lübeck-Kanal", WaterTypeCanal},
		{"Seebach", WaterTypeStream},
		{"Bachsee", WaterTypeLake},
		{"Mühlenbach", WaterTypeStream},
		{"Talsperre", WaterTypeReservoir},
		{"lake", WaterTypeLake},
		{" trout_pond ", WaterTypeTroutPond},
		{"", WaterTypeUnknown},
		{"Meer", WaterTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWaterType(tt.raw))
		})
	}
}

func TestWaterType_IsSmallWater(t *testing.T) {
	assert.True(t, WaterTypePond.IsSmallWater())
	assert.True(t, WaterTypePrivatePond.IsSmallWater())
	assert.True(t, WaterTypeTroutPond.IsSmallWater())
	assert.True(t, WaterTypeCarpPond.IsSmallWater())
	assert.False(t, WaterTypeLake.IsSmallWater())
	assert.False(t, WaterTypeRiver.IsSmallWater())
	assert.False(t, WaterTypeUnknown.IsSmallWater())
}

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		raw    string
		want   Species
		wantOK bool
	}{
		{"Forelle", SpeciesTrout, true},
		{"Bachforelle", SpeciesTrout, true},
		{"Regenbogenforelle", SpeciesTrout, true},
		{"Äsche", SpeciesGrayling, true},
		{"Hecht", SpeciesPike, true},
		{"Zander", SpeciesZander, true},
		{"Flussbarsch", SpeciesPerch, true},
		{"Spiegelkarpfen", SpeciesCarp, true},
		{"Schleie", SpeciesTench, true},
		{"Wels", SpeciesCatfish, true},
		{"Aal", SpeciesEel, true},
		{"pike", SpeciesPike, true},
		{"Rotauge", SpeciesUnknown, false},
		{"", SpeciesUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseSpecies(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseSpeciesList(t *testing.T) {
	known, unknown := ParseSpeciesList([]string{"Hecht", "Rotauge", "hecht", "Karpfen", " "})

	assert.Equal(t, []Species{SpeciesPike, SpeciesCarp}, known)
	assert.Equal(t, []string{"Rotauge"}, unknown)
}

func TestTrendFromGauge(t *testing.T) {
	assert.Equal(t, TrendRising, TrendFromGauge(1))
	assert.Equal(t, TrendFalling, TrendFromGauge(-1))
	assert.Equal(t, TrendStable, TrendFromGauge(0))
	assert.Equal(t, TrendStable, TrendFromGauge(-999))
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}
