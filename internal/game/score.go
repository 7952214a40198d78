// Package game holds the pure match rules: the canonical score formula and
// the case solution check. Nothing here touches the network or the clock.
package game

const (
	basePoints         = 10000
	timePenaltyDivisor = 5
	timePenaltyCap     = 5000
	wrongAccusationFee = 500
	pointsPerClue      = 100
	pointsPerRoom      = 50
)

// Score is the authoritative scoring rule. It must stay bit-for-bit
// identical to the client-side preview: the server result decides ties and
// final awards.
func Score(elapsedSeconds, clueCount, roomsVisited, wrongAccusations int) int {
	timePenalty := elapsedSeconds / timePenaltyDivisor
	if timePenalty > timePenaltyCap {
		timePenalty = timePenaltyCap
	}
	score := basePoints - timePenalty - wrongAccusations*wrongAccusationFee +
		clueCount*pointsPerClue + roomsVisited*pointsPerRoom
	if score < 0 {
		return 0
	}
	return score
}
