package game

import "fmt"

// Coordinate points to a field on the board using the board axes, i.e. the
// indices of Board.
type Coordinate struct {
	X int
	Y int
}

// FromDoubled converts a doubled coordinate, as used on the wire, back into
// board axes.
func FromDoubled(dx, dy int) Coordinate {
	return Coordinate{X: ceilHalf(dx) - mod2(dy), Y: dy}
}

// Doubled returns the coordinate in doubled representation. Odd rows are
// shifted right by one so hex neighbours differ by small integer deltas.
func (c Coordinate) Doubled() Coordinate {
	return Coordinate{X: c.X*2 + mod2(c.Y), Y: c.Y}
}

// Step moves distance fields in the given direction. The result is not
// bounds checked.
func (c Coordinate) Step(direction Direction, distance int) Coordinate {
	d := c.Doubled()
	dx, dy := direction.delta()
	return FromDoubled(d.X+dx*distance, d.Y+dy*distance)
}

// InBounds reports whether the coordinate lies on the board.
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func mod2(v int) int {
	return ((v % 2) + 2) % 2
}

// ceilHalf rounds v/2 towards positive infinity for negative values too.
func ceilHalf(v int) int {
	if v >= 0 {
		return (v + 1) / 2
	}
	return -((-v) / 2)
}
