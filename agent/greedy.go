package agent

import (
	"fmt"

	"penguins/game"
)

type greedy struct {
	base
}

func newGreedy(player game.Player, o options) Agent {
	return &greedy{base: newBase("greedy", player, o)}
}

// OnMoveRequested picks the move collecting the most fish. Ties are broken
// randomly.
func (a *greedy) OnMoveRequested(state *game.GameState) (*game.Move, []string) {
	var best []game.Move
	most := -1
	for _, move := range state.PossibleMoves() {
		fish, _ := state.Field(move.Destination).Fish()
		switch {
		case fish > most:
			most = fish
			best = append(best[:0], move)
		case fish == most:
			best = append(best, move)
		}
	}
	if len(best) == 0 {
		a.log.Warn().Int("turn", state.Turn()).Msg("no possible moves")
		return nil, nil
	}
	move := best[a.rng.Intn(len(best))]
	return &move, []string{fmt.Sprintf("fish=%d", most)}
}
