package game

import "fmt"

// Player identifies one of the two teams.
type Player int

const (
	PlayerOne Player = iota + 1
	PlayerTwo
)

// ParsePlayer parses the wire token of a player ("ONE" or "TWO").
func ParsePlayer(token string) (Player, error) {
	switch token {
	case "ONE":
		return PlayerOne, nil
	case "TWO":
		return PlayerTwo, nil
	default:
		return 0, fmt.Errorf("unknown player %q", token)
	}
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "ONE"
	case PlayerTwo:
		return "TWO"
	default:
		return "NONE"
	}
}
