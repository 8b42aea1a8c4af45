// Package game models the penguins board: hex coordinates, fields, the
// board and the rules engine that generates and applies moves.
package game

import "penguins/meta"

const (
	BoardSize      = meta.BOARD_SIZE
	PlacementTurns = meta.PLACEMENT_TURNS
)

// Evaluates the game state to a score between -1 and 1 indicating how
// favorable the current player's position is to a winning (positive) outcome.
type Evaluate func(*GameState) float64
