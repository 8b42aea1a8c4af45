package searcher

import (
	"math"

	"penguins/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const (
	Win  = 1.0  // Reward for winning outcome
	Draw = 0.0  // Reward when both players collected the same number of fish
	Loss = -Win // Reward for loss outcome (negate from opponent perspective)
)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// BestMove returns the move with the highest share of visits.
func BestMove(policy map[game.Move]float64) (game.Move, bool) {
	var best game.Move
	found := false
	maxVisits := math.Inf(-1)
	for move, visits := range policy {
		if visits > maxVisits || (visits == maxVisits && moveLess(move, best)) {
			maxVisits = visits
			best = move
			found = true
		}
	}
	return best, found
}

// moveLess orders moves so that ties are broken independently of map
// iteration order.
func moveLess(a, b game.Move) bool {
	if a.Start != b.Start {
		return a.Start.Y < b.Start.Y || (a.Start.Y == b.Start.Y && a.Start.X < b.Start.X)
	}
	return a.Destination.Y < b.Destination.Y || (a.Destination.Y == b.Destination.Y && a.Destination.X < b.Destination.X)
}
