package game

import "strconv"

type fieldKind int

const (
	emptyField fieldKind = iota
	iceFloeField
	occupiedField
)

// FieldState is the content of a field: nothing, an ice floe carrying fish,
// or a penguin of a player. The zero value is an empty field.
type FieldState struct {
	kind   fieldKind
	fish   int
	player Player
}

// Empty returns the state of a field without an ice floe.
func Empty() FieldState {
	return FieldState{}
}

// IceFloe returns the state of an ice floe with the given number of fish. A
// floe without fish is empty.
func IceFloe(fish int) FieldState {
	if fish <= 0 {
		return Empty()
	}
	return FieldState{kind: iceFloeField, fish: fish}
}

// Occupied returns the state of a field holding a penguin of player.
func Occupied(player Player) FieldState {
	return FieldState{kind: occupiedField, player: player}
}

func (s FieldState) IsEmpty() bool {
	return s.kind == emptyField
}

// Fish returns the fish on the ice floe and whether the field is an ice floe.
func (s FieldState) Fish() (int, bool) {
	if s.kind != iceFloeField {
		return 0, false
	}
	return s.fish, true
}

// Owner returns the player whose penguin occupies the field, if any.
func (s FieldState) Owner() (Player, bool) {
	if s.kind != occupiedField {
		return 0, false
	}
	return s.player, true
}

func (s FieldState) String() string {
	switch s.kind {
	case iceFloeField:
		return strconv.Itoa(s.fish)
	case occupiedField:
		return s.player.String()
	default:
		return "0"
	}
}

// Field is a board position together with its state.
type Field struct {
	Coordinate Coordinate
	State      FieldState
}

// IsOccupiable reports whether a penguin may be placed on or moved to the field.
func (f Field) IsOccupiable() bool {
	_, ok := f.State.Fish()
	return ok
}
