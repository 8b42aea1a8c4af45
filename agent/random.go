package agent

import "penguins/game"

type random struct {
	base
}

func newRandom(player game.Player, o options) Agent {
	return &random{base: newBase("random", player, o)}
}

// OnMoveRequested picks one of the possible moves uniformly.
func (a *random) OnMoveRequested(state *game.GameState) (*game.Move, []string) {
	moves := state.PossibleMoves()
	if len(moves) == 0 {
		a.log.Warn().Int("turn", state.Turn()).Msg("no possible moves")
		return nil, nil
	}
	move := moves[a.rng.Intn(len(moves))]
	return &move, nil
}
