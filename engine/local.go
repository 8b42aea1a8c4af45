package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/protocol"
)

// searchReporter is implemented by agents that search for their moves.
type searchReporter interface {
	LastSearch() metrics.SearchMetric
}

// Local plays a game between two delegates without a server. It drives the
// delegates the way the server does: both are told about every state, the
// player to move is asked for a move and both receive the result.
type Local struct {
	State   *game.GameState
	players map[game.Player]protocol.Delegate
	log     zerolog.Logger
}

func LocalEngine(delegates []protocol.Delegate, board game.Board, start game.Player) *Local {
	if len(delegates) != 2 {
		panic("need exactly two players")
	}
	players := make(map[game.Player]protocol.Delegate, 2)
	for _, d := range delegates {
		players[d.Player()] = d
	}
	if players[game.PlayerOne] == nil || players[game.PlayerTwo] == nil {
		panic("both players must be represented")
	}

	return &Local{
		State:   game.NewGameStateWithBoard(start, board),
		players: players,
		log:     log.Logger,
	}
}

// Run executes the entire game loop until the game is over.
func (e *Local) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.StartPlayer(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	e.log.Info().Msgf("player %s is starting", e.State.StartPlayer())
	e.notify()

	for step := 1; step <= MaxMoves && !e.State.IsOver(); {
		moves := e.State.PossibleMoves()
		if len(moves) == 0 {
			if e.State.IsPlacementPhase() {
				e.log.Warn().Msg("no floe left to place a penguin on")
				break
			}
			e.State.SkipMove()
			e.log.Debug().Msgf("player %s skipped", e.State.CurrentPlayer().Opponent())
			e.notify()
			continue
		}

		player := e.State.CurrentPlayer()
		delegate := e.players[player]
		move, hints := delegate.OnMoveRequested(e.State.Copy())
		if move == nil || !slices.Contains(moves, *move) {
			e.log.Warn().Msgf("player %s returned an impossible move %v, playing %s instead", player, move, moves[0])
			move = &moves[0]
		}
		e.log.Debug().Strs("hints", hints).Msgf("step %d: player %s plays %s", step, player, move)

		moveMetric := metrics.MoveMetric{Step: step, Player: player, Move: *move}
		if reporter, ok := delegate.(searchReporter); ok {
			moveMetric.SearchMetric = reporter.LastSearch()
		}
		moveMetrics = append(moveMetrics, moveMetric)

		if !e.State.PerformMove(*move) {
			panic(fmt.Sprintf("possible move %s cannot be performed", move))
		}
		e.notify()
		step++
	}

	result := e.State.Result()
	for _, player := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		e.players[player].OnGameResultReceived(result)
	}

	winner := ""
	if result.Winner != nil {
		winner = result.Winner.Player.String()
	}
	gameMetric.Winner = winner
	gameMetric.FishOne = e.State.FishCount(game.PlayerOne)
	gameMetric.FishTwo = e.State.FishCount(game.PlayerTwo)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	return winner, gameMetric, moveMetrics
}

func (e *Local) notify() {
	for _, player := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		e.players[player].OnGameStateUpdated(e.State.Copy())
	}
}
