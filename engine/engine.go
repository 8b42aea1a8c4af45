package engine

import (
	"penguins/experiments/metrics"
	"penguins/meta"
)

// MaxMoves bounds the moves of one game.
const MaxMoves = meta.MAX_TURNS

// Engine plays one game between two agents without a game server.
type Engine interface {
	// Run plays the game until it is over or MaxMoves moves were played. The
	// winner is empty on a draw.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
