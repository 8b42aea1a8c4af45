package searcher

import "penguins/game"

// reward converts the outcome of a rollout, scored from player's
// perspective, to the perspective of the player who moved into a node.
func reward(mover, player game.Player, score float64) float64 {
	if mover == player {
		return score
	}
	return -score
}

// play performs move and skips the next player while they are stuck.
func play(state *game.GameState, move game.Move) {
	if !state.PerformMove(move) {
		panic("searcher: generated move " + move.String() + " cannot be performed")
	}
	state.Advance()
}

// legalMoves returns the moves of the current player, or none once the game
// is over.
func legalMoves(state *game.GameState) []game.Move {
	if state.IsOver() {
		return nil
	}
	return state.PossibleMoves()
}
