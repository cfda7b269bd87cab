package ranking

import (
	"fmt"
	"math"

	"fangindex/internal/insights"
	"fangindex/internal/types"
)

const (
	goldenHourBonus  = 10
	distancePenalty  = 2.0
	speciesBoost     = 15
	lowLightBoost    = 10
	maxPickedSpecies = 2
)

// Recommendation is a ranked spot singled out for a particular reason.
type Recommendation struct {
	ID         string                       `json:"id"`
	SpotID     string                       `json:"spot_id"`
	SpotName   string                       `json:"spot_name"`
	Category   types.RecommendationCategory `json:"category"`
	Score      int                          `json:"score"`
	DistanceKm float64                      `json:"distance_km"`
	Reason     string                       `json:"reason"`
	BestFish   []types.Species              `json:"best_fish"`
	Timing     string                       `json:"timing"`
}

// Recommend picks up to three distinct spots: the best one right now, the
// best trade-off between score and distance, and, when weather is known,
// the one whose stock suits the weather. Ties keep the order of spots.
func Recommend(spots []types.RankedSpot, ctx insights.FishingContext) []Recommendation {
	recs := make([]Recommendation, 0, 3)
	if len(spots) == 0 {
		return recs
	}
	used := make(map[int]bool, 3)

	bonus := 0
	if ctx.IsGoldenHour {
		bonus = goldenHourBonus
	}
	best := pick(spots, used, func(s types.RankedSpot) float64 {
		return float64(s.Fangindex + bonus)
	})
	if best >= 0 {
		s := spots[best]
		timing := timingMessage(ctx.TimeOfDay)
		if ctx.IsGoldenHour {
			timing = "Golden hour is on!"
		}
		recs = append(recs, newRecommendation(s, types.RecommendPerfectNow, perfectNowReason(s.Fangindex, ctx.IsGoldenHour), firstSpecies(s.FishSpecies), timing))
	}

	near := pick(spots, used, func(s types.RankedSpot) float64 {
		return float64(s.Fangindex) - s.DistanceKm*distancePenalty
	})
	if near >= 0 {
		s := spots[near]
		recs = append(recs, newRecommendation(s, types.RecommendNearby,
			fmt.Sprintf("Only %.1f km away", s.DistanceKm),
			firstSpecies(s.FishSpecies),
			fmt.Sprintf("~%d min drive", int(math.Ceil(s.DistanceKm*distancePenalty)))))
	}

	if ctx.Weather != nil {
		w := *ctx.Weather
		pickIdx := pick(spots, used, func(s types.RankedSpot) float64 {
			return float64(s.Fangindex + WeatherBoost(s.FishSpecies, w))
		})
		if pickIdx >= 0 {
			s := spots[pickIdx]
			recs = append(recs, newRecommendation(s, types.RecommendWeatherPick,
				fmt.Sprintf("Ideal at %d°C", int(math.Round(w.TemperatureC))),
				WeatherFish(w),
				w.Description))
		}
	}
	return recs
}

// WeatherBoost rewards stock that suits the weather.
func WeatherBoost(species []types.Species, w types.WeatherSnapshot) int {
	boost := 0
	if w.TemperatureC < 12 && hasAny(species, types.Species.IsColdWater) {
		boost += speciesBoost
	}
	if w.TemperatureC > 18 && hasAny(species, types.Species.IsWarmWater) {
		boost += speciesBoost
	}
	if w.CloudCoverPct > 60 && hasAny(species, func(s types.Species) bool {
		return s == types.SpeciesPike || s == types.SpeciesZander || s == types.SpeciesEel
	}) {
		boost += lowLightBoost
	}
	return boost
}

// WeatherFish names two species to target at the current temperature.
func WeatherFish(w types.WeatherSnapshot) []types.Species {
	switch {
	case w.TemperatureC < 10:
		return []types.Species{types.SpeciesTrout, types.SpeciesGrayling}
	case w.TemperatureC < 15:
		return []types.Species{types.SpeciesPike, types.SpeciesPerch}
	case w.TemperatureC < 22:
		return []types.Species{types.SpeciesZander, types.SpeciesCarp}
	default:
		return []types.Species{types.SpeciesCarp, types.SpeciesCatfish}
	}
}

// pick returns the index of the highest scoring unused spot, or -1. The
// first of equal scores wins.
func pick(spots []types.RankedSpot, used map[int]bool, score func(types.RankedSpot) float64) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, s := range spots {
		if used[i] {
			continue
		}
		if v := score(s); v > bestScore {
			best, bestScore = i, v
		}
	}
	if best >= 0 {
		used[best] = true
	}
	return best
}

func newRecommendation(s types.RankedSpot, cat types.RecommendationCategory, reason string, fish []types.Species, timing string) Recommendation {
	return Recommendation{
		ID:         string(cat) + "_" + s.ID,
		SpotID:     s.ID,
		SpotName:   s.Name,
		Category:   cat,
		Score:      s.Fangindex,
		DistanceKm: s.DistanceKm,
		Reason:     reason,
		BestFish:   fish,
		Timing:     timing,
	}
}

func perfectNowReason(fangindex int, golden bool) string {
	switch {
	case fangindex >= 80:
		return "Excellent conditions!"
	case fangindex >= 65:
		return "Good chances today"
	case golden:
		return "Golden hour is on"
	default:
		return "Decent conditions"
	}
}

func timingMessage(tod types.TimeOfDay) string {
	switch tod {
	case types.TimeEarlyMorning:
		return "Morning bite is on!"
	case types.TimeMorning:
		return "2-3 more good hours"
	case types.TimeMidday:
		return "Quieter phase"
	case types.TimeAfternoon:
		return "Evening bite starts soon"
	case types.TimeEvening:
		return "Best bite time!"
	default:
		return "Night fishing"
	}
}

func firstSpecies(species []types.Species) []types.Species {
	if len(species) > maxPickedSpecies {
		return species[:maxPickedSpecies]
	}
	return species
}

func hasAny(species []types.Species, match func(types.Species) bool) bool {
	for _, s := range species {
		if match(s) {
			return true
		}
	}
	return false
}
