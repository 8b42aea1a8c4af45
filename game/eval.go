package game

import "golang.org/x/exp/rand"

// EvaluateFish compares the fish both players collected to produce a score
// between -1 and 1 from the current player's perspective.
func EvaluateFish(gs *GameState) float64 {
	own := float64(gs.FishCount(gs.currentPlayer))
	other := float64(gs.FishCount(gs.currentPlayer.Opponent()))
	if own+other == 0 {
		return 0
	}
	return (own - other) / (own + other)
}

// EvaluateMobility adds the number of reachable fields of both players to
// the fish balance.
func EvaluateMobility(gs *GameState) float64 {
	fish := EvaluateFish(gs)
	if gs.IsPlacementPhase() {
		return fish
	}
	own := float64(len(gs.possibleDragMoves(gs.currentPlayer)))
	other := float64(len(gs.possibleDragMoves(gs.currentPlayer.Opponent())))
	if own+other == 0 {
		return fish
	}
	return (fish + (own-other)/(own+other)) / 2
}

// RandomBoard returns a board covered with ice floes carrying one to four
// fish, of which at least twice as many as needed for placement carry one.
func RandomBoard(rng *rand.Rand) Board {
	b := NewBoard()
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			b.Set(Field{Coordinate: Coordinate{X: x, Y: y}, State: IceFloe(rng.Intn(4) + 1)})
		}
	}

	singles := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if fish, _ := b[x][y].State.Fish(); fish == 1 {
				singles++
			}
		}
	}
	for singles < 2*PlacementTurns {
		x, y := rng.Intn(BoardSize), rng.Intn(BoardSize)
		if fish, _ := b[x][y].State.Fish(); fish != 1 {
			b[x][y].State = IceFloe(1)
			singles++
		}
	}
	return b
}

// NewGameStateWithBoard starts a game on the given board.
func NewGameStateWithBoard(startPlayer Player, board Board) *GameState {
	gs := NewGameState(startPlayer)
	gs.board = board
	return gs
}
