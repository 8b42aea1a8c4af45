package searcher

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/meta"
)

// MaxCutoff lets rollouts run until the game is over.
const MaxCutoff = meta.MAX_TURNS

type Option func(mcts *MCTS)

// MCTS searches the moves of the current player with tree parallel Monte
// Carlo tree search. Goroutines share one tree and steer each other away
// from the paths they are exploring with virtual losses.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   game.Evaluate
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(u *MCTS) {
		if duration > 0 {
			u.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(u *MCTS) {
		if episodes > 0 {
			u.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(u *MCTS) {
		if depth > 0 {
			u.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluateFish,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state, which is left untouched, and returns the
// share of visits of every move of the current player together with the
// search metrics. An episode budget takes precedence over a time budget.
func (m *MCTS) Simulate(state *game.GameState) (map[game.Move]float64, metrics.SearchMetric) {
	state = state.Copy()
	m.root = newDecision(nil, state.CurrentPlayer().Opponent(), state)

	m.metrics.Start(m.goroutines, m.cutoff, m.evaluate)
	m.search(state)
	return m.root.Policy(), m.metrics.Complete()
}

func (m *MCTS) search(state *game.GameState) {
	var claimed atomic.Int64
	timeUp := make(chan struct{})
	if m.episodes <= 0 {
		timer := time.AfterFunc(m.duration, func() { close(timeUp) })
		defer timer.Stop()
	}

	// proceed claims the next episode of the budget
	proceed := func() bool {
		if m.episodes > 0 {
			return claimed.Add(1) <= int64(m.episodes)
		}
		select {
		case <-timeUp:
			return false
		default:
			return true
		}
	}

	var wg sync.WaitGroup
	for range m.goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for proceed() {
				m.metrics.AddEpisode(m.simulate(state))
			}
		}()
	}
	wg.Wait()
}

// simulate runs one episode on a copy of state and returns the depth of the
// node it expanded.
func (m *MCTS) simulate(state *game.GameState) int {
	state = state.Copy()
	node, depth := selectThenExpand(m.root, state)
	player, score := rollout(state, m.cutoff, m.evaluate, m.metrics)
	for node != nil {
		node = node.Backup(player, score)
	}
	return depth
}

// selectThenExpand descends from root to a newly added or terminal node,
// playing the moves along the path on state.
func selectThenExpand(root *decision, state *game.GameState) (*decision, int) {
	node, depth := root, 0
	for {
		child, selected := node.SelectOrExpand(state)
		if child != node {
			depth++
		}
		if !selected {
			return child, depth
		}
		node = child
	}
}

// rollout plays random moves until the game is over or cutoff moves were
// played. It returns the player the score is seen from: the winner of a
// finished game, otherwise the player to move.
func rollout(state *game.GameState, cutoff int, evaluate game.Evaluate, collector metrics.Collector) (game.Player, float64) {
	for played := 0; played < cutoff; played++ {
		moves := legalMoves(state)
		if len(moves) == 0 {
			break
		}
		play(state, moves[rand.Intn(len(moves))])
	}

	if !state.IsOver() {
		return state.CurrentPlayer(), evaluate(state)
	}
	collector.AddFullPlayout()
	if winner, ok := state.Leader(); ok {
		return winner, Win
	}
	return state.CurrentPlayer(), Draw
}
