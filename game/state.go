package game

// GameState represents the state of a game as received from the game server.
// It is mutated only through SetField, PerformMove and SkipMove.
type GameState struct {
	startPlayer        Player
	currentPlayer      Player
	turn               int
	board              Board
	playerOneFishCount int
	playerTwoFishCount int
}

// NewGameState initializes a game on an empty board with startPlayer to move.
func NewGameState(startPlayer Player) *GameState {
	return &GameState{
		startPlayer:   startPlayer,
		currentPlayer: startPlayer,
		board:         NewBoard(),
	}
}

// Copy returns an independent snapshot of the game state.
func (gs *GameState) Copy() *GameState {
	c := *gs // Board is an array, so the fields are copied by value
	return &c
}

func (gs *GameState) StartPlayer() Player   { return gs.startPlayer }
func (gs *GameState) CurrentPlayer() Player { return gs.currentPlayer }
func (gs *GameState) Turn() int             { return gs.turn }

// Board returns a copy of the board.
func (gs *GameState) Board() Board { return gs.board }

func (gs *GameState) Field(c Coordinate) FieldState {
	return gs.board.At(c)
}

// FishCount returns the fish collected by player.
func (gs *GameState) FishCount(player Player) int {
	if player == PlayerOne {
		return gs.playerOneFishCount
	}
	return gs.playerTwoFishCount
}

// SetField replaces a field on the board. It is used while the initial board
// is received.
func (gs *GameState) SetField(field Field) {
	gs.board.Set(field)
}

// IsPlacementPhase reports whether penguins are still being placed.
func (gs *GameState) IsPlacementPhase() bool {
	return gs.turn < PlacementTurns
}

// PossibleMoves returns the possible moves of the current player. Callers
// must not depend on the order of the moves.
func (gs *GameState) PossibleMoves() []Move {
	if gs.IsPlacementPhase() {
		return gs.possibleSetMoves()
	}
	return gs.possibleDragMoves(gs.currentPlayer)
}

func (gs *GameState) possibleSetMoves() []Move {
	var moves []Move
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if fish, ok := gs.board[x][y].State.Fish(); ok && fish == 1 {
				moves = append(moves, NewSetMove(Coordinate{X: x, Y: y}))
			}
		}
	}
	return moves
}

func (gs *GameState) possibleDragMoves(player Player) []Move {
	var moves []Move
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if owner, ok := gs.board[x][y].State.Owner(); !ok || owner != player {
				continue
			}
			start := Coordinate{X: x, Y: y}
			for _, direction := range Directions {
				for distance := 1; distance < BoardSize; distance++ {
					destination := start.Step(direction, distance)
					if !destination.InBounds() || !gs.board[destination.X][destination.Y].IsOccupiable() {
						break
					}
					moves = append(moves, NewDragMove(start, destination))
				}
			}
		}
	}
	return moves
}

// PerformMove performs the given move for the current player. The move is
// not checked against PossibleMoves; only the start and destination fields
// are inspected. It returns false and leaves the state untouched if the move
// cannot be performed.
func (gs *GameState) PerformMove(move Move) bool {
	if !move.Destination.InBounds() || (move.Kind == DragMove && !move.Start.InBounds()) {
		return false
	}
	var fish int
	switch move.Kind {
	case DragMove:
		owner, ok := gs.board.At(move.Start).Owner()
		if !ok || owner != gs.currentPlayer {
			return false
		}
		if fish, ok = gs.board.At(move.Destination).Fish(); !ok {
			return false
		}
		gs.board.Set(Field{Coordinate: move.Start})
	case SetMove:
		if f, ok := gs.board.At(move.Destination).Fish(); !ok || f != 1 {
			return false
		}
		fish = 1
	default:
		return false
	}

	gs.board.Set(Field{Coordinate: move.Destination, State: Occupied(gs.currentPlayer)})
	if gs.currentPlayer == PlayerOne {
		gs.playerOneFishCount += fish
	} else {
		gs.playerTwoFishCount += fish
	}

	gs.turn++
	gs.currentPlayer = gs.currentPlayer.Opponent()
	return true
}

// SkipMove passes the turn to the opponent without touching the board.
func (gs *GameState) SkipMove() {
	gs.currentPlayer = gs.currentPlayer.Opponent()
}

// IsOver reports whether neither player can move any more.
func (gs *GameState) IsOver() bool {
	if gs.IsPlacementPhase() {
		return false
	}
	return len(gs.possibleDragMoves(PlayerOne)) == 0 && len(gs.possibleDragMoves(PlayerTwo)) == 0
}

// Advance skips the current player once when they are stuck. A game that is
// not over always leaves the opponent a move.
func (gs *GameState) Advance() {
	if gs.IsPlacementPhase() || gs.IsOver() {
		return
	}
	if len(gs.PossibleMoves()) == 0 {
		gs.SkipMove()
	}
}

// Leader returns the player with more fish; false on a tie.
func (gs *GameState) Leader() (Player, bool) {
	switch {
	case gs.playerOneFishCount > gs.playerTwoFishCount:
		return PlayerOne, true
	case gs.playerTwoFishCount > gs.playerOneFishCount:
		return PlayerTwo, true
	default:
		return 0, false
	}
}
