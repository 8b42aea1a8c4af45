package game

import (
	"strconv"
	"strings"
)

// Board holds every field indexed [x][y]. It is a value type: assigning a
// board copies all of its fields.
type Board [BoardSize][BoardSize]Field

// NewBoard returns a board of empty fields.
func NewBoard() Board {
	var b Board
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			b[x][y] = Field{Coordinate: Coordinate{X: x, Y: y}}
		}
	}
	return b
}

func (b *Board) Get(x, y int) Field {
	return b[x][y]
}

func (b *Board) At(c Coordinate) FieldState {
	return b[c.X][c.Y].State
}

// Set replaces the field at field.Coordinate.
func (b *Board) Set(field Field) {
	b[field.Coordinate.X][field.Coordinate.Y] = field
}

// Fish returns the total number of fish still lying on ice floes.
func (b *Board) Fish() int {
	total := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if fish, ok := b[x][y].State.Fish(); ok {
				total += fish
			}
		}
	}
	return total
}

// String renders the board row by row, odd rows indented like the hex layout.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		if y%2 == 1 {
			sb.WriteString("  ")
		}
		for x := 0; x < BoardSize; x++ {
			cell := "."
			state := b[x][y].State
			if fish, ok := state.Fish(); ok {
				cell = strconv.Itoa(fish)
			} else if owner, ok := state.Owner(); ok {
				cell = owner.String()[:1]
			}
			sb.WriteString(cell)
			if x < BoardSize-1 {
				sb.WriteString("   ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
