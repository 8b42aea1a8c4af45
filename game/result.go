package game

import (
	"fmt"
	"strconv"
)

// ScoreCause tells why a player received their score.
type ScoreCause string

const (
	CauseRegular       ScoreCause = "REGULAR"
	CauseLeft          ScoreCause = "LEFT"
	CauseRuleViolation ScoreCause = "RULE_VIOLATION"
	CauseSoftTimeout   ScoreCause = "SOFT_TIMEOUT"
	CauseHardTimeout   ScoreCause = "HARD_TIMEOUT"
	CauseUnknown       ScoreCause = "UNKNOWN"
)

// ParseScoreCause parses the cause attribute of a score.
func ParseScoreCause(s string) (ScoreCause, error) {
	switch cause := ScoreCause(s); cause {
	case CauseRegular, CauseLeft, CauseRuleViolation, CauseSoftTimeout, CauseHardTimeout, CauseUnknown:
		return cause, nil
	default:
		return "", fmt.Errorf("unknown score cause %q", s)
	}
}

// Score is the final score of one player as reported by the server.
type Score struct {
	Cause  ScoreCause
	Reason string // empty if the server gave no reason
	Values []string
}

// Winner is the player who won the game.
type Winner struct {
	Player      Player
	DisplayName string
}

// Result is the outcome of a game. Winner is nil on a draw.
type Result struct {
	Scores []Score
	Winner *Winner
}

// Result scores the game the way the server does: two points for a win, one
// for a draw and none for a loss, followed by the collected fish.
func (gs *GameState) Result() Result {
	leader, ok := gs.Leader()
	var result Result
	for _, player := range []Player{PlayerOne, PlayerTwo} {
		points := 1
		if ok {
			points = 0
			if player == leader {
				points = 2
			}
		}
		result.Scores = append(result.Scores, Score{
			Cause:  CauseRegular,
			Values: []string{strconv.Itoa(points), strconv.Itoa(gs.FishCount(player))},
		})
	}
	if ok {
		result.Winner = &Winner{Player: leader}
	}
	return result
}
