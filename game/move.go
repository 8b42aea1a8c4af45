package game

import "fmt"

// MoveKind distinguishes placing a penguin from sliding one.
type MoveKind int

const (
	SetMove MoveKind = iota
	DragMove
)

// Move represents a move in the game. Start is only meaningful for drag moves.
type Move struct {
	Kind        MoveKind
	Start       Coordinate
	Destination Coordinate
}

// NewSetMove places a penguin on destination.
func NewSetMove(destination Coordinate) Move {
	return Move{Kind: SetMove, Destination: destination}
}

// NewDragMove slides the penguin on start to destination.
func NewDragMove(start, destination Coordinate) Move {
	return Move{Kind: DragMove, Start: start, Destination: destination}
}

func (m Move) String() string {
	if m.Kind == DragMove {
		return fmt.Sprintf("drag %s->%s", m.Start, m.Destination)
	}
	return fmt.Sprintf("set %s", m.Destination)
}
