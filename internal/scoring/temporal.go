package scoring

// Fixed bite-time scores by hour of day.
const (
	primeTimeScore = 90
	goodTimeScore  = 65
	middayScore    = 35
	nightScore     = 20

	// GoodBiteThreshold is the time score from which an hour counts as a
	// good bite time.
	GoodBiteThreshold = 70
)

// TimeScore rates a local clock hour (0-23). Dawn and dusk score highest,
// the midday lull and the night lowest.
func TimeScore(hour int) int {
	switch {
	case (hour >= 5 && hour <= 8) || (hour >= 17 && hour <= 21):
		return primeTimeScore
	case (hour >= 9 && hour <= 11) || (hour >= 15 && hour <= 16):
		return goodTimeScore
	case hour >= 12 && hour <= 14:
		return middayScore
	default:
		return nightScore
	}
}

// new and full moon score highest
var moonScores = [8]int{85, 60, 45, 60, 90, 60, 45, 60}

// MoonScore rates a lunar phase index.
func MoonScore(phaseIndex int) int {
	return moonScores[((phaseIndex%8)+8)%8]
}
