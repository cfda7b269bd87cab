// Package ranking orders nearby water bodies by a blend of proximity,
// Fangindex and a bonus for small waters.
package ranking

import (
	"math"
	"sort"
	"time"

	"fangindex/internal/geo"
	"fangindex/internal/scoring"
	"fangindex/internal/types"
)

const (
	DefaultRadiusKm = 20.0
	DefaultLimit    = 3

	distanceWeight  = 0.4
	fangindexWeight = 0.4
	smallWaterBonus = 20
)

// Options controls a ranking run.
type Options struct {
	RadiusKm float64
	Limit    int
	Weather  types.WeatherSnapshot
	// WaterLevels maps station IDs to their latest reading. Candidates
	// without a station, or with no entry, are scored without a reading.
	WaterLevels map[string]*types.WaterLevelReading
	At          time.Time
}

// SkippedCandidate records a candidate that could not be ranked.
type SkippedCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index int    `json:"index"`
	Err   error  `json:"-"`
}

// Ranking is the detailed outcome of a ranking run.
type Ranking struct {
	Spots []types.RankedSpot
	// Skipped lists malformed candidates in input order.
	Skipped []SkippedCandidate
	// UsedFallback is set when nothing was within the radius and the
	// nearest candidates were ranked instead.
	UsedFallback bool
}

type scored struct {
	candidate types.WaterBodyCandidate
	distance  float64
}

// Rank returns the top spots for the user. An empty candidate list yields an
// empty result.
func Rank(candidates []types.WaterBodyCandidate, user types.Location, opts Options) []types.RankedSpot {
	return RankDetailed(candidates, user, opts).Spots
}

// RankNearbySpots ranks candidates around (userLat, userLon) with the shared
// weather at the instant at.
func RankNearbySpots(candidates []types.WaterBodyCandidate, userLat, userLon, radiusKm float64, limit int, weather types.WeatherSnapshot, at time.Time) []types.RankedSpot {
	return Rank(candidates, types.Location{Latitude: userLat, Longitude: userLon}, Options{
		RadiusKm: radiusKm,
		Limit:    limit,
		Weather:  weather,
		At:       at,
	})
}

// RankDetailed ranks candidates and reports which ones were skipped.
// Malformed candidates never abort the run. When no candidate lies within
// the radius, the Limit nearest are ranked instead, so a non-empty set of
// well-formed candidates never produces an empty result.
func RankDetailed(candidates []types.WaterBodyCandidate, user types.Location, opts Options) Ranking {
	radius := opts.RadiusKm
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = DefaultRadiusKm
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out Ranking
	all := make([]scored, 0, len(candidates))
	for i, c := range candidates {
		if err := types.ValidateCandidate(c); err != nil {
			out.Skipped = append(out.Skipped, SkippedCandidate{ID: c.ID, Name: c.Name, Index: i, Err: err})
			continue
		}
		all = append(all, scored{candidate: c, distance: geo.DistanceKm(user, c.Location())})
	}
	if len(all) == 0 {
		out.Spots = []types.RankedSpot{}
		return out
	}

	inRadius := make([]scored, 0, len(all))
	for _, s := range all {
		if s.distance <= radius {
			inRadius = append(inRadius, s)
		}
	}
	if len(inRadius) == 0 {
		out.UsedFallback = true
		inRadius = nearest(all, limit)
	}

	spots := make([]types.RankedSpot, 0, len(inRadius))
	for _, s := range inRadius {
		res := scoring.Compute(scoring.Input{
			WaterBodyName: s.candidate.Name,
			Weather:       opts.Weather,
			WaterLevel:    waterLevelFor(s.candidate, opts.WaterLevels),
			At:            opts.At,
		})
		spots = append(spots, types.RankedSpot{
			WaterBodyCandidate: s.candidate,
			Fangindex:          res.Score,
			DistanceKm:         geo.RoundKm(s.distance),
			RankingScore:       RankingScore(s.distance, radius, res.Score, s.candidate.Type),
		})
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].RankingScore > spots[j].RankingScore
	})
	if len(spots) > limit {
		spots = spots[:limit]
	}
	out.Spots = spots
	return out
}

// RankingScore blends proximity and Fangindex and adds the small-water bonus.
// radiusKm must be positive.
func RankingScore(distanceKm, radiusKm float64, fangindex int, waterType types.WaterType) int {
	distanceScore := math.Max(0, 100-distanceKm*(100/radiusKm))
	bonus := 0.0
	if waterType.IsSmallWater() {
		bonus = smallWaterBonus
	}
	return int(math.Round(distanceScore*distanceWeight + float64(fangindex)*fangindexWeight + bonus))
}

func nearest(all []scored, n int) []scored {
	sorted := make([]scored, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].distance < sorted[j].distance
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func waterLevelFor(c types.WaterBodyCandidate, levels map[string]*types.WaterLevelReading) *types.WaterLevelReading {
	if c.StationID == "" || levels == nil {
		return nil
	}
	return levels[c.StationID]
}
