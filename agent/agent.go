// Package agent provides the move selection strategies that play a game on
// behalf of the client.
package agent

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/game"
	"penguins/protocol"
)

// Agent plays one side of a game.
type Agent interface {
	protocol.Delegate
	Strategy() string
}

type Option func(o *options)

type options struct {
	goroutines  int
	budget      time.Duration
	episodes    int
	cutoff      int
	temperature float64
	evaluate    game.Evaluate
	seed        uint64
	log         zerolog.Logger
}

// WithGoroutines sets the number of search goroutines of the mcts strategy.
func WithGoroutines(goroutines int) Option {
	return func(o *options) {
		o.goroutines = goroutines
	}
}

// WithMoveBudget limits the time the mcts strategy searches for a move.
func WithMoveBudget(budget time.Duration) Option {
	return func(o *options) {
		o.budget = budget
	}
}

// WithEpisodes makes the mcts strategy run a fixed number of episodes
// instead of searching for a fixed time.
func WithEpisodes(episodes int) Option {
	return func(o *options) {
		o.episodes = episodes
	}
}

func WithCutoff(depth int) Option {
	return func(o *options) {
		o.cutoff = depth
	}
}

// WithTemperature makes the mcts strategy sample its move from the visit
// distribution instead of playing the most visited move.
func WithTemperature(temperature float64) Option {
	return func(o *options) {
		o.temperature = temperature
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(o *options) {
		o.evaluate = evaluate
	}
}

// WithSeed makes random decisions reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

type constructor func(player game.Player, o options) Agent

var strategies = map[string]constructor{
	"random": newRandom,
	"greedy": newGreedy,
	"mcts":   newMCTS,
}

// Strategies returns the names of all strategies.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the agent of the named strategy playing as player. An empty
// strategy selects random moves.
func New(strategy string, player game.Player, opts ...Option) (Agent, error) {
	if strategy == "" {
		strategy = "random"
	}
	create, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q, expected one of %v", strategy, Strategies())
	}

	o := options{
		goroutines: 1,
		budget:     time.Second,
		evaluate:   game.EvaluateFish,
		seed:       uint64(time.Now().UnixNano()),
		log:        log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With().Str("strategy", strategy).Stringer("player", player).Logger()
	return create(player, o), nil
}

// Factory creates agents of the named strategy once the server assigns the
// player.
func Factory(strategy string, opts ...Option) protocol.Factory {
	return func(player game.Player) (protocol.Delegate, error) {
		return New(strategy, player, opts...)
	}
}

// base implements the notifications shared by all strategies.
type base struct {
	strategy string
	player   game.Player
	rng      *rand.Rand
	log      zerolog.Logger
	state    *game.GameState
}

func newBase(strategy string, player game.Player, o options) base {
	return base{
		strategy: strategy,
		player:   player,
		rng:      rand.New(rand.NewSource(o.seed)),
		log:      o.log,
	}
}

func (b *base) Player() game.Player {
	return b.player
}

func (b *base) Strategy() string {
	return b.strategy
}

func (b *base) OnGameStateUpdated(state *game.GameState) {
	b.state = state
	b.log.Debug().
		Int("turn", state.Turn()).
		Stringer("current", state.CurrentPlayer()).
		Int("fish", state.FishCount(b.player)).
		Int("opponentFish", state.FishCount(b.player.Opponent())).
		Msg("game state updated")
}

func (b *base) OnGameEnded() {
	b.log.Info().Msg("game ended")
}

func (b *base) OnGameResultReceived(result game.Result) {
	event := b.log.Info()
	if result.Winner != nil {
		event = event.Stringer("winner", result.Winner.Player).Bool("won", result.Winner.Player == b.player)
		if result.Winner.DisplayName != "" {
			event = event.Str("winnerName", result.Winner.DisplayName)
		}
	} else {
		event = event.Bool("draw", true)
	}
	for i, score := range result.Scores {
		event = event.Strs(fmt.Sprintf("score%d", i+1), append([]string{string(score.Cause)}, score.Values...))
	}
	event.Msg("game result received")
}
