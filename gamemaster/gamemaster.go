// Package gamemaster hosts a game of penguins between two clients that speak
// the XML protocol. It plays the part of the game server for local games.
package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"penguins/game"
	"penguins/protocol"
)

var players = []game.Player{game.PlayerOne, game.PlayerTwo}

type Option func(*GameMaster)

func WithRoomID(id string) Option {
	return func(gm *GameMaster) {
		gm.roomID = id
	}
}

// WithSkipStates sends a state update without a last move whenever a player
// is skipped.
func WithSkipStates() Option {
	return func(gm *GameMaster) {
		gm.skipStates = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(gm *GameMaster) {
		gm.log = logger
	}
}

// GameMaster manages the game flow and resolves the moves of its clients.
type GameMaster struct {
	board      game.Board
	start      game.Player
	roomID     string
	skipStates bool
	log        zerolog.Logger
}

// NewGameMaster initializes a game master for one game on board.
func NewGameMaster(board game.Board, start game.Player, options ...Option) *GameMaster {
	gm := &GameMaster{
		board:  board,
		start:  start,
		roomID: uuid.NewString(),
		log:    log.Logger,
	}
	for _, option := range options {
		option(gm)
	}
	return gm
}

// ListenAndServe accepts two clients on ln and hosts one game between them.
// The first client to connect plays for player one. ln is closed when ctx is
// done.
func (gm *GameMaster) ListenAndServe(ctx context.Context, ln net.Listener) (game.Result, error) {
	stopListening := context.AfterFunc(ctx, func() { ln.Close() })
	defer stopListening()

	conns := make([]net.Conn, 0, len(players))
	for len(conns) < len(players) {
		conn, err := ln.Accept()
		if err != nil {
			closeAll(conns)
			if ctx.Err() != nil {
				return game.Result{}, ctx.Err()
			}
			return game.Result{}, fmt.Errorf("failed to accept client: %w", err)
		}
		gm.log.Debug().Stringer("address", conn.RemoteAddr()).Msg("client connected")
		conns = append(conns, conn)
	}
	defer closeAll(conns)
	stopServing := context.AfterFunc(ctx, func() { closeAll(conns) })
	defer stopServing()

	return gm.Serve(ctx, conns[0], conns[1])
}

func closeAll(conns []net.Conn) {
	for _, conn := range conns {
		conn.Close()
	}
}

// Serve hosts one game between the clients on first and second. A client that
// sends an impossible move or leaves loses the game. The returned error is
// only set when the game could not be played to a result.
func (gm *GameMaster) Serve(ctx context.Context, first, second io.ReadWriter) (game.Result, error) {
	seats := map[game.Player]*seat{
		game.PlayerOne: newSeat(game.PlayerOne, first),
		game.PlayerTwo: newSeat(game.PlayerTwo, second),
	}
	for _, player := range players {
		s := seats[player]
		if err := s.awaitJoin(); err != nil {
			return game.Result{}, fmt.Errorf("player %s failed to join: %w", player, err)
		}
		if err := s.send(joinedMessage(gm.roomID), welcomeMessage(gm.roomID, player)); err != nil {
			return game.Result{}, err
		}
		gm.log.Info().Stringer("player", player).Str("room", gm.roomID).Msg("client joined")
	}

	state := game.NewGameStateWithBoard(gm.start, gm.board)
	if err := gm.broadcast(seats, stateMessage(gm.roomID, state, nil)); err != nil {
		return game.Result{}, err
	}

	for !state.IsOver() {
		if err := ctx.Err(); err != nil {
			return game.Result{}, err
		}
		moves := state.PossibleMoves()
		if len(moves) == 0 {
			if state.IsPlacementPhase() {
				gm.log.Warn().Msg("no floe left to place a penguin on")
				break
			}
			state.SkipMove()
			gm.log.Debug().Msgf("player %s skipped", state.CurrentPlayer().Opponent())
			if gm.skipStates {
				if err := gm.broadcast(seats, stateMessage(gm.roomID, state, nil)); err != nil {
					return game.Result{}, err
				}
			}
			continue
		}

		player := state.CurrentPlayer()
		s := seats[player]
		if err := s.send(moveRequestMessage(gm.roomID)); err != nil {
			return gm.forfeit(seats, state, player, game.CauseLeft, err.Error())
		}
		move, hints, err := s.receiveMove()
		if err != nil {
			if ctx.Err() != nil {
				return game.Result{}, ctx.Err()
			}
			var perr *protocol.ProtocolError
			if errors.As(err, &perr) {
				return gm.forfeit(seats, state, player, game.CauseRuleViolation, err.Error())
			}
			return gm.forfeit(seats, state, player, game.CauseLeft, err.Error())
		}
		if move == nil || !slices.Contains(moves, *move) {
			return gm.forfeit(seats, state, player, game.CauseRuleViolation, fmt.Sprintf("impossible move %v", move))
		}

		gm.log.Debug().Strs("hints", hints).Msgf("turn %d: player %s plays %s", state.Turn(), player, move)
		if !state.PerformMove(*move) {
			panic(fmt.Sprintf("possible move %s cannot be performed", move))
		}
		if err := gm.broadcast(seats, stateMessage(gm.roomID, state, move)); err != nil {
			return game.Result{}, err
		}
	}

	return gm.finish(seats, state.Result()), nil
}

func (gm *GameMaster) broadcast(seats map[game.Player]*seat, message string) error {
	for _, player := range players {
		if err := seats[player].send(message); err != nil {
			return err
		}
	}
	return nil
}

// forfeit ends the game with a loss of player for the given cause.
func (gm *GameMaster) forfeit(seats map[game.Player]*seat, state *game.GameState, loser game.Player, cause game.ScoreCause, reason string) (game.Result, error) {
	gm.log.Warn().Stringer("player", loser).Str("cause", string(cause)).Msg(reason)

	result := game.Result{Winner: &game.Winner{Player: loser.Opponent()}}
	for _, player := range players {
		score := game.Score{Cause: game.CauseRegular, Values: []string{"2", strconv.Itoa(state.FishCount(player))}}
		if player == loser {
			score = game.Score{Cause: cause, Reason: reason, Values: []string{"0", strconv.Itoa(state.FishCount(player))}}
		}
		result.Scores = append(result.Scores, score)
	}
	return gm.finish(seats, result), nil
}

// finish sends the result to both clients and closes their streams. Clients
// that are gone no longer receive it.
func (gm *GameMaster) finish(seats map[game.Player]*seat, result game.Result) game.Result {
	for _, player := range players {
		err := seats[player].send(resultMessage(gm.roomID, result), leftMessage(gm.roomID), closingMessage)
		if err != nil {
			gm.log.Debug().Err(err).Stringer("player", player).Msg("failed to send the result")
		}
	}
	winner := "none"
	if result.Winner != nil {
		winner = result.Winner.Player.String()
	}
	gm.log.Info().Str("winner", winner).Msg("game over")
	return result
}
