package types

import "time"

// Location is a WGS84 coordinate in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSource records where the coordinate used for a request came from.
type LocationSource string

const (
	LocationSourceRequest  LocationSource = "request"
	LocationSourceProvider LocationSource = "provider"
	LocationSourceFallback LocationSource = "fallback"
)

// WeatherSnapshot is the current weather at a single location.
// Wind speed is in metres per second.
type WeatherSnapshot struct {
	TemperatureC  float64 `json:"temperature_c"`
	PressureHPa   int     `json:"pressure_hpa"`
	HumidityPct   int     `json:"humidity_pct"`
	WindSpeedMS   float64 `json:"wind_speed_ms"`
	CloudCoverPct int     `json:"cloud_cover_pct"`
	Description   string  `json:"description"`
}

// WaterLevelReading is the latest gauge measurement of a station.
// Callers pass *WaterLevelReading; nil means no reading is available.
type WaterLevelReading struct {
	StationID string    `json:"station_id"`
	Level     float64   `json:"level"`
	Trend     Trend     `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}

// WaterBodyCandidate is a fishing water considered for ranking.
type WaterBodyCandidate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           WaterType `json:"type"`
	RawType        string    `json:"raw_type,omitempty"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Region         string    `json:"region,omitempty"`
	FishSpecies    []Species `json:"fish_species,omitempty"`
	RawFishSpecies []string  `json:"raw_fish_species,omitempty"`
	PermitPrice    *float64  `json:"permit_price,omitempty"`
	IsAssumed      bool      `json:"is_assumed"`
	StationID      string    `json:"station_id,omitempty"`
}

// Location returns the candidate's coordinate.
func (c WaterBodyCandidate) Location() Location {
	return Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// FactorScores holds the four sub-scores that feed the composite Fangindex.
type FactorScores struct {
	Weather    int `json:"weather"`
	TimeOfDay  int `json:"time_of_day"`
	MoonPhase  int `json:"moon_phase"`
	WaterLevel int `json:"water_level"`
}

// FangindexResult is the outcome of scoring one water body at one instant.
type FangindexResult struct {
	Score          int          `json:"score"`
	Factors        FactorScores `json:"factors"`
	BestFish       []Species    `json:"best_fish"`
	Reasoning      string       `json:"reasoning"`
	Recommendation string       `json:"recommendation"`
	MoonPhase      string       `json:"moon_phase"`
	ComputedAt     time.Time    `json:"computed_at"`
}

// RankedSpot is a candidate annotated with its score and distance.
// RankingScore is the sort key and is exposed for diagnostics only.
type RankedSpot struct {
	WaterBodyCandidate
	Fangindex    int     `json:"fangindex"`
	DistanceKm   float64 `json:"distance_km"`
	RankingScore int     `json:"ranking_score"`
}

// InsightAction is an optional follow-up attached to an insight.
type InsightAction struct {
	Label   string     `json:"label"`
	Kind    ActionKind `json:"kind"`
	Species []Species  `json:"species,omitempty"`
}

// Insight is a short contextual tip shown to the angler.
type Insight struct {
	Type     InsightType    `json:"type"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Priority Priority       `json:"priority"`
	Action   *InsightAction `json:"action,omitempty"`
}
