package protocol

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"penguins/communication"
	"penguins/game"
)

// SkipPolicy decides when the handler assumes a player was skipped by the
// server.
type SkipPolicy int

const (
	// SkipOnLastMove derives skips from the last move: a move made by the
	// player who is not to move, an empty last move, or a move request for the
	// player who is not to move.
	SkipOnLastMove SkipPolicy = iota
	// SkipOnStateUpdate skips once per state update in which no last move
	// was applied.
	SkipOnStateUpdate
)

// ParseSkipPolicy parses "last-move" or "state-update".
func ParseSkipPolicy(s string) (SkipPolicy, error) {
	switch s {
	case "", "last-move":
		return SkipOnLastMove, nil
	case "state-update":
		return SkipOnStateUpdate, nil
	default:
		return 0, fmt.Errorf("unknown skip policy %q", s)
	}
}

type Option func(h *Handler)

// WithReservation joins the prepared game with the given reservation code.
func WithReservation(code string) Option {
	return func(h *Handler) {
		h.reservation = code
	}
}

func WithSkipPolicy(policy SkipPolicy) Option {
	return func(h *Handler) {
		h.policy = policy
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.log = logger
	}
}

// Handler is the protocol state machine of one game. It consumes the events
// of the server stream, keeps the game state in sync, answers move requests
// through its delegate and notifies the delegate of the game's progress.
type Handler struct {
	transport   communication.Transport
	factory     Factory
	reservation string
	policy      SkipPolicy
	log         zerolog.Logger

	delegate  Delegate
	roomID    string
	gameState *game.GameState
	// stateReceived is set once the first complete state has been received;
	// later states are applied through their last move.
	stateReceived bool
	leave         bool

	open       []string
	foundChars strings.Builder
	fieldIndex int

	lastMoveStart       *game.Coordinate
	lastMoveDestination *game.Coordinate
	moveApplied         bool

	score              *game.Score
	scores             []game.Score
	winner             *game.Winner
	gameResultReceived bool
}

// NewHandler returns a handler for one game played over transport. The
// delegate is created by factory when the server assigns the player.
func NewHandler(transport communication.Transport, factory Factory, options ...Option) *Handler {
	h := &Handler{
		transport: transport,
		factory:   factory,
		policy:    SkipOnLastMove,
		log:       log.Logger,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Run joins a game and processes the server stream until the game is left,
// the result is received, the stream ends or a protocol violation occurs.
// The context is checked between events; a blocked read is not interrupted.
func (h *Handler) Run(ctx context.Context) error {
	if err := h.transport.Send(JoinMessage(h.reservation)); err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	decoder := NewDecoder(communication.Reader(h.transport))
	for !h.leave {
		if err := ctx.Err(); err != nil {
			return err
		}
		event, err := decoder.Next()
		if err != nil {
			if errors.Is(err, ErrStreamClosed) {
				return err
			}
			var perr *ProtocolError
			if errors.As(err, &perr) {
				return err
			}
			return fmt.Errorf("failed to receive: %w", err)
		}
		if err := h.Handle(event); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether the game is over for this handler.
func (h *Handler) Done() bool {
	return h.leave
}

// GameState returns a snapshot of the current game state, or nil before the
// start player is known.
func (h *Handler) GameState() *game.GameState {
	if h.gameState == nil {
		return nil
	}
	return h.gameState.Copy()
}

func (h *Handler) RoomID() string {
	return h.roomID
}

// Handle processes one event. Any error is a fatal protocol violation or a
// failure to send a reply.
func (h *Handler) Handle(event Event) error {
	switch event.Kind {
	case StartElement:
		h.foundChars.Reset()
		parent := h.parent()
		h.open = append(h.open, event.Name)
		return h.startElement(event.Name, parent, event.Attrs)
	case CharData:
		h.foundChars.WriteString(event.Text)
		return nil
	case EndElement:
		if len(h.open) == 0 || h.open[len(h.open)-1] != event.Name {
			return violation(event.Name, "unexpected closing element", nil)
		}
		h.open = h.open[:len(h.open)-1]
		return h.endElement(event.Name)
	default:
		return nil
	}
}

func (h *Handler) parent() string {
	if len(h.open) == 0 {
		return ""
	}
	return h.open[len(h.open)-1]
}

func (h *Handler) startElement(name, parent string, attrs map[string]string) error {
	switch name {
	case "data":
		return h.startData(attrs)
	case "joined":
		var a joinedAttrs
		if err := decodeAttrs(attrs, &a); err != nil || a.RoomID == nil {
			return violation(name, "the room ID is missing", err)
		}
		h.roomID = *a.RoomID
		h.log.Info().Str("room", h.roomID).Msg("joined room")
	case "lastMove":
		h.lastMoveStart = nil
		h.lastMoveDestination = nil
	case "from", "to":
		if parent != "lastMove" {
			return nil
		}
		c, err := DecodeCoordinate(name, attrs)
		if err != nil {
			return err
		}
		if name == "from" {
			h.lastMoveStart = &c
		} else {
			h.lastMoveDestination = &c
		}
	case "left":
		h.log.Info().Msg("left the game")
		if h.delegate != nil {
			h.delegate.OnGameEnded()
		}
		h.leave = true
	case "score":
		var a scoreAttrs
		if err := decodeAttrs(attrs, &a); err != nil || a.Cause == nil {
			return violation(name, "the score cause is missing", err)
		}
		cause, err := game.ParseScoreCause(*a.Cause)
		if err != nil {
			return violation(name, "the score could not be parsed", err)
		}
		h.score = &game.Score{Cause: cause, Reason: a.Reason}
	case "state":
		h.fieldIndex = 0
		h.moveApplied = false
	case "winner":
		var a winnerAttrs
		if err := decodeAttrs(attrs, &a); err != nil {
			return violation(name, "the winner could not be parsed", err)
		}
		token := a.Team
		if token == "" {
			token = a.Color
		}
		player, err := game.ParsePlayer(token)
		if err != nil {
			return violation(name, "the winner could not be parsed", err)
		}
		h.winner = &game.Winner{Player: player, DisplayName: a.DisplayName}
	}
	return nil
}

func (h *Handler) startData(attrs map[string]string) error {
	var a dataAttrs
	if err := decodeAttrs(attrs, &a); err != nil || a.Class == nil {
		return violation("data", "the class attribute is missing", err)
	}

	switch *a.Class {
	case "moveRequest":
		return h.requestMove()
	case "result":
		h.gameResultReceived = true
	case "welcomeMessage":
		if a.Color == nil {
			return violation("data", "the player of the welcome message is missing", nil)
		}
		player, err := game.ParsePlayer(*a.Color)
		if err != nil {
			return violation("data", "the player of the welcome message could not be parsed", err)
		}
		delegate, err := h.factory(player)
		if err != nil {
			return fmt.Errorf("failed to create game logic: %w", err)
		}
		h.delegate = delegate
		h.log.Info().Stringer("player", player).Msg("received welcome message")
	}
	return nil
}

// requestMove asks the delegate for a move and sends it before the next
// event is processed.
func (h *Handler) requestMove() error {
	switch {
	case h.delegate == nil:
		return violation("data", "move requested before the welcome message", nil)
	case h.gameState == nil:
		return violation("data", "move requested before the game state", nil)
	case h.roomID == "":
		return violation("data", "move requested before joining a room", nil)
	}

	if h.policy == SkipOnLastMove && h.delegate.Player() != h.gameState.CurrentPlayer() {
		// The opponent could not move
		h.gameState.SkipMove()
		h.log.Debug().Stringer("player", h.gameState.CurrentPlayer()).Msg("opponent skipped")
		h.delegate.OnGameStateUpdated(h.gameState.Copy())
	}

	move, hints := h.delegate.OnMoveRequested(h.gameState.Copy())
	if move == nil {
		h.log.Warn().Msg("game logic returned no move")
	} else {
		h.log.Debug().Stringer("move", move).Strs("hints", hints).Msg("sending move")
	}
	if err := h.transport.Send(MoveMessage(h.roomID, move, hints)); err != nil {
		return fmt.Errorf("failed to send move: %w", err)
	}
	return nil
}

func (h *Handler) endElement(name string) error {
	switch name {
	case "data":
		if h.gameResultReceived {
			result := game.Result{Scores: h.scores, Winner: h.winner}
			h.log.Info().Int("scores", len(result.Scores)).Msg("received game result")
			if h.delegate != nil {
				h.delegate.OnGameResultReceived(result)
			}
			h.leave = true
		}
	case "field":
		if !h.stateReceived {
			return h.endField()
		}
	case "lastMove":
		if h.stateReceived {
			return h.applyLastMove()
		}
	case "part":
		if h.score != nil {
			h.score.Values = append(h.score.Values, h.chars())
		}
	case "score":
		if h.score != nil {
			h.scores = append(h.scores, *h.score)
			h.score = nil
		}
	case "startTeam":
		if h.gameState == nil {
			player, err := game.ParsePlayer(h.chars())
			if err != nil {
				return violation(name, "the start player could not be parsed", err)
			}
			h.gameState = game.NewGameState(player)
		}
	case "state":
		return h.endState()
	}
	return nil
}

func (h *Handler) endField() error {
	if h.gameState == nil {
		return violation("field", "field received before the start player", nil)
	}
	if h.fieldIndex >= game.BoardSize*game.BoardSize {
		return violation("field", "too many fields", nil)
	}

	coordinate := game.Coordinate{X: h.fieldIndex % game.BoardSize, Y: h.fieldIndex / game.BoardSize}
	content := h.chars()
	var state game.FieldState
	if player, err := game.ParsePlayer(content); err == nil {
		state = game.Occupied(player)
	} else if fish, err := strconv.Atoi(content); err == nil && fish >= 0 {
		state = game.IceFloe(fish)
	} else {
		return violation("field", fmt.Sprintf("the field data %q could not be parsed", content), nil)
	}

	h.gameState.SetField(game.Field{Coordinate: coordinate, State: state})
	h.fieldIndex++
	return nil
}

func (h *Handler) applyLastMove() error {
	start, destination := h.lastMoveStart, h.lastMoveDestination
	h.lastMoveStart = nil
	h.lastMoveDestination = nil

	var move game.Move
	switch {
	case start != nil && destination != nil:
		move = game.NewDragMove(*start, *destination)
		if owner, ok := h.gameState.Field(*start).Owner(); ok && owner != h.gameState.CurrentPlayer() && h.policy == SkipOnLastMove {
			h.gameState.SkipMove()
		}
	case destination != nil:
		move = game.NewSetMove(*destination)
	default:
		if h.policy == SkipOnLastMove {
			h.gameState.SkipMove()
		}
		return nil
	}

	if !h.gameState.PerformMove(move) {
		return violation("lastMove", fmt.Sprintf("the last move %s could not be performed on the game state", move), nil)
	}
	h.moveApplied = true
	h.log.Debug().Stringer("move", move).Int("turn", h.gameState.Turn()).Msg("applied last move")
	return nil
}

func (h *Handler) endState() error {
	if h.gameState == nil {
		return violation("state", "state received without a start player", nil)
	}
	if h.policy == SkipOnStateUpdate && h.stateReceived && !h.moveApplied {
		h.gameState.SkipMove()
	}
	h.stateReceived = true

	if e := h.log.Trace(); e.Enabled() {
		board := h.gameState.Board()
		e.Int("turn", h.gameState.Turn()).Msg("board\n" + board.String())
	}
	if h.delegate != nil {
		h.delegate.OnGameStateUpdated(h.gameState.Copy())
	}
	return nil
}

func (h *Handler) chars() string {
	return strings.TrimSpace(h.foundChars.String())
}
