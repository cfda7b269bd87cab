package scoring

import "fangindex/internal/types"

const maxBestFish = 3

var (
	coldWaterSpecies = []types.Species{types.SpeciesTrout, types.SpeciesGrayling}
	predatorSpecies  = []types.Species{types.SpeciesPike, types.SpeciesZander, types.SpeciesPerch}
	warmWaterSpecies = []types.Species{types.SpeciesCarp, types.SpeciesTench, types.SpeciesCatfish}
)

// BestFish picks up to three species for the conditions. Only the
// temperature band and cloud cover are considered, not the stock of a
// particular water.
func BestFish(w types.WeatherSnapshot) []types.Species {
	var band []types.Species
	switch {
	case w.TemperatureC < 12:
		band = coldWaterSpecies
	case w.TemperatureC <= 20:
		band = predatorSpecies
	default:
		band = warmWaterSpecies
	}

	fish := make([]types.Species, 0, maxBestFish+1)
	fish = append(fish, band...)
	if w.CloudCoverPct > 60 {
		fish = append(fish, types.SpeciesEel)
	}
	if len(fish) > maxBestFish {
		fish = fish[:maxBestFish]
	}
	return fish
}
