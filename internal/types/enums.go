package types

// Trend is the direction of a water-level gauge.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Valid reports whether t is one of the known trends.
func (t Trend) Valid() bool {
	switch t {
	case TrendRising, TrendFalling, TrendStable:
		return true
	}
	return false
}

// TrendFromGauge maps the numeric trend of a PEGELONLINE measurement
// (1 rising, -1 falling, anything else stable).
func TrendFromGauge(v int) Trend {
	switch v {
	case 1:
		return TrendRising
	case -1:
		return TrendFalling
	default:
		return TrendStable
	}
}

// WaterType is the closed set of water body kinds.
type WaterType string

const (
	WaterTypePond        WaterType = "pond"
	WaterTypePrivatePond WaterType = "private_pond"
	WaterTypeTroutPond   WaterType = "trout_pond"
	WaterTypeCarpPond    WaterType = "carp_pond"
	WaterTypeLake        WaterType = "lake"
	WaterTypeRiver       WaterType = "river"
	WaterTypeCanal       WaterType = "canal"
	WaterTypeStream      WaterType = "stream"
	WaterTypeReservoir   WaterType = "reservoir"
	WaterTypeUnknown     WaterType = "unknown"
)

// IsSmallWater reports whether the type earns the small-water ranking bonus.
func (w WaterType) IsSmallWater() bool {
	switch w {
	case WaterTypePond, WaterTypePrivatePond, WaterTypeTroutPond, WaterTypeCarpPond:
		return true
	}
	return false
}

// Species is the closed set of fish the engine knows about.
type Species string

const (
	SpeciesTrout    Species = "trout"
	SpeciesGrayling Species = "grayling"
	SpeciesChar     Species = "char"
	SpeciesPike     Species = "pike"
	SpeciesZander   Species = "zander"
	SpeciesPerch    Species = "perch"
	SpeciesCarp     Species = "carp"
	SpeciesTench    Species = "tench"
	SpeciesCatfish  Species = "catfish"
	SpeciesEel      Species = "eel"
	SpeciesUnknown  Species = "unknown"
)

var speciesDisplayNames = map[Species]string{
	SpeciesTrout:    "Trout",
	SpeciesGrayling: "Grayling",
	SpeciesChar:     "Char",
	SpeciesPike:     "Pike",
	SpeciesZander:   "Zander",
	SpeciesPerch:    "Perch",
	SpeciesCarp:     "Carp",
	SpeciesTench:    "Tench",
	SpeciesCatfish:  "Catfish",
	SpeciesEel:      "Eel",
}

// DisplayName returns the human readable name of the species.
func (s Species) DisplayName() string {
	if name, ok := speciesDisplayNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsColdWater reports whether the species prefers cold water.
func (s Species) IsColdWater() bool {
	return s == SpeciesTrout || s == SpeciesGrayling || s == SpeciesChar
}

// IsWarmWater reports whether the species prefers warm water.
func (s Species) IsWarmWater() bool {
	return s == SpeciesCarp || s == SpeciesTench || s == SpeciesCatfish
}

// IsPredator reports whether the species is a predatory fish.
func (s Species) IsPredator() bool {
	return s == SpeciesPike || s == SpeciesZander || s == SpeciesPerch
}

// Priority orders insights.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort position of the priority; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// InsightType classifies an insight.
type InsightType string

const (
	InsightTip         InsightType = "tip"
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
	InsightTiming      InsightType = "timing"
)

// ActionKind describes what an insight action does in a client.
type ActionKind string

const (
	ActionFilter   ActionKind = "filter"
	ActionNavigate ActionKind = "navigate"
	ActionInfo     ActionKind = "info"
)

// TimeOfDay is the coarse period of the local day.
type TimeOfDay string

const (
	TimeEarlyMorning TimeOfDay = "early_morning"
	TimeMorning      TimeOfDay = "morning"
	TimeMidday       TimeOfDay = "midday"
	TimeAfternoon    TimeOfDay = "afternoon"
	TimeEvening      TimeOfDay = "evening"
	TimeNight        TimeOfDay = "night"
)

// Season is the meteorological season of the northern hemisphere.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Condition is the overall fishing condition summary.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionModerate  Condition = "moderate"
	ConditionPoor      Condition = "poor"
)

// RecommendationCategory labels a recommended spot.
type RecommendationCategory string

const (
	RecommendPerfectNow  RecommendationCategory = "perfect_now"
	RecommendNearby      RecommendationCategory = "nearby"
	RecommendWeatherPick RecommendationCategory = "weather_pick"
)
