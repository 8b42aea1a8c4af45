package game

// Direction is one of the six hex directions a penguin can slide in.
type Direction int

const (
	UpRight Direction = iota
	Right
	DownRight
	DownLeft
	Left
	UpLeft
)

// Directions lists every direction in clockwise order starting at UpRight.
var Directions = []Direction{UpRight, Right, DownRight, DownLeft, Left, UpLeft}

// delta is the per-unit offset in doubled coordinates.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case UpRight:
		return 1, -1
	case Right:
		return 2, 0
	case DownRight:
		return 1, 1
	case DownLeft:
		return -1, 1
	case Left:
		return -2, 0
	case UpLeft:
		return -1, -1
	default:
		panic("unknown direction")
	}
}

func (d Direction) String() string {
	switch d {
	case UpRight:
		return "UP_RIGHT"
	case Right:
		return "RIGHT"
	case DownRight:
		return "DOWN_RIGHT"
	case DownLeft:
		return "DOWN_LEFT"
	case Left:
		return "LEFT"
	case UpLeft:
		return "UP_LEFT"
	default:
		return "UNKNOWN"
	}
}
