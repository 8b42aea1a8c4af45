package agent

import (
	"fmt"
	"math"
	"sort"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/searcher"
)

type mcts struct {
	base
	search      *searcher.MCTS
	temperature float64
	last        metrics.SearchMetric
}

func newMCTS(player game.Player, o options) Agent {
	searchOptions := []searcher.Option{
		searcher.WithEvaluationFn(o.evaluate),
		searcher.WithCutoff(o.cutoff),
		searcher.WithMetrics(),
	}
	if o.episodes > 0 {
		searchOptions = append(searchOptions, searcher.WithEpisodes(o.episodes))
	} else {
		searchOptions = append(searchOptions, searcher.WithDuration(o.budget))
	}

	return &mcts{
		base:        newBase("mcts", player, o),
		search:      searcher.NewMCTS(o.goroutines, searchOptions...),
		temperature: o.temperature,
	}
}

// OnMoveRequested searches the game tree and plays the most visited move, or
// samples one when a temperature is set.
func (a *mcts) OnMoveRequested(state *game.GameState) (*game.Move, []string) {
	policy, metric := a.search.Simulate(state)
	a.last = metric

	var move game.Move
	var ok bool
	if a.temperature > 0 && len(policy) > 0 {
		move, ok = a.sample(adjustTemperature(policy, a.temperature)), true
	} else {
		move, ok = searcher.BestMove(policy)
	}
	if !ok {
		a.log.Warn().Int("turn", state.Turn()).Msg("no possible moves")
		return nil, nil
	}

	a.log.Debug().
		Stringer("move", move).
		Int("episodes", metric.Episodes).
		Int("fullPlayouts", metric.FullPlayouts).
		Int("treeDepth", metric.TreeDepth).
		Dur("duration", metric.Duration).
		Msg("search completed")
	hints := []string{
		fmt.Sprintf("episodes=%d", metric.Episodes),
		fmt.Sprintf("playouts=%d", metric.FullPlayouts),
		fmt.Sprintf("depth=%d", metric.TreeDepth),
		fmt.Sprintf("visits=%.2f", policy[move]),
	}
	return &move, hints
}

// LastSearch returns the metrics of the most recent search.
func (a *mcts) LastSearch() metrics.SearchMetric {
	return a.last
}

func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, visits := range policy {
		prob := math.Pow(visits, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		for move := range adjusted {
			adjusted[move] = 1 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

func (a *mcts) sample(policy map[game.Move]float64) game.Move {
	moves := make([]game.Move, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	sort.Slice(moves, func(i, j int) bool { // map order is random
		return moves[i].String() < moves[j].String()
	})

	sampled := a.rng.Float64()
	cumulative := 0.0
	for _, move := range moves {
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return moves[len(moves)-1] // Fallback in case of rounding errors
}
