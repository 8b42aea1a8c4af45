package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// lineBoard returns a board where only the given coordinates hold floes.
func lineBoard(floes map[Coordinate]int) Board {
	b := NewBoard()
	for c, fish := range floes {
		b.Set(Field{Coordinate: c, State: IceFloe(fish)})
	}
	return b
}

// placed returns a movement phase state with the given penguins.
func placed(current Player, board Board, penguins map[Coordinate]Player) *GameState {
	for c, p := range penguins {
		board.Set(Field{Coordinate: c, State: Occupied(p)})
	}
	gs := NewGameStateWithBoard(current, board)
	gs.turn = PlacementTurns
	return gs
}

func TestFieldState(t *testing.T) {
	require.True(t, IceFloe(0).IsEmpty(), "a floe without fish is empty")
	require.Equal(t, Empty(), IceFloe(-1))

	fish, ok := IceFloe(3).Fish()
	require.True(t, ok)
	require.Equal(t, 3, fish)

	owner, ok := Occupied(PlayerTwo).Owner()
	require.True(t, ok)
	require.Equal(t, PlayerTwo, owner)

	require.True(t, Field{State: IceFloe(2)}.IsOccupiable())
	require.False(t, Field{State: Occupied(PlayerOne)}.IsOccupiable())
	require.False(t, Field{}.IsOccupiable())
}

func TestPossibleMovesPlacement(t *testing.T) {
	gs := NewGameState(PlayerOne)
	gs.SetField(Field{Coordinate: Coordinate{X: 0, Y: 0}, State: IceFloe(1)})
	gs.SetField(Field{Coordinate: Coordinate{X: 1, Y: 0}, State: IceFloe(2)})

	moves := gs.PossibleMoves()

	require.Equal(t, []Move{NewSetMove(Coordinate{X: 0, Y: 0})}, moves)
}

func TestPossibleMovesMovement(t *testing.T) {
	t.Run("slides stop at the edge, holes and penguins", func(t *testing.T) {
		// Row 0: penguin at (0,0), floes at (1,0),(2,0), a hole at (3,0), floe at (4,0)
		board := lineBoard(map[Coordinate]int{
			{X: 1, Y: 0}: 1,
			{X: 2, Y: 0}: 3,
			{X: 4, Y: 0}: 2,
			{X: 0, Y: 1}: 1, // down right of (0,0)
			{X: 1, Y: 2}: 1,
		})
		gs := placed(PlayerOne, board, map[Coordinate]Player{{X: 0, Y: 0}: PlayerOne})

		moves := gs.PossibleMoves()

		require.ElementsMatch(t, []Move{
			NewDragMove(Coordinate{X: 0, Y: 0}, Coordinate{X: 1, Y: 0}),
			NewDragMove(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 0}),
			NewDragMove(Coordinate{X: 0, Y: 0}, Coordinate{X: 0, Y: 1}),
			NewDragMove(Coordinate{X: 0, Y: 0}, Coordinate{X: 1, Y: 2}),
		}, moves)
	})

	t.Run("only the current player's penguins move", func(t *testing.T) {
		board := lineBoard(map[Coordinate]int{{X: 1, Y: 0}: 1, {X: 6, Y: 7}: 1})
		gs := placed(PlayerTwo, board, map[Coordinate]Player{
			{X: 0, Y: 0}: PlayerOne,
			{X: 7, Y: 7}: PlayerTwo,
		})

		require.Equal(t, []Move{NewDragMove(Coordinate{X: 7, Y: 7}, Coordinate{X: 6, Y: 7})}, gs.PossibleMoves())
	})

	t.Run("penguins block slides", func(t *testing.T) {
		board := lineBoard(map[Coordinate]int{{X: 2, Y: 0}: 1})
		gs := placed(PlayerOne, board, map[Coordinate]Player{
			{X: 0, Y: 0}: PlayerOne,
			{X: 1, Y: 0}: PlayerTwo,
		})

		require.Empty(t, gs.PossibleMoves())
	})
}

func TestPerformMove(t *testing.T) {
	t.Run("set move on a single fish floe", func(t *testing.T) {
		gs := NewGameState(PlayerOne)
		target := Coordinate{X: 2, Y: 2}
		gs.SetField(Field{Coordinate: target, State: IceFloe(1)})

		require.True(t, gs.PerformMove(NewSetMove(target)))
		require.Equal(t, Occupied(PlayerOne), gs.Field(target))
		require.Equal(t, 1, gs.FishCount(PlayerOne))
		require.Equal(t, 1, gs.Turn())
		require.Equal(t, PlayerTwo, gs.CurrentPlayer())
	})

	t.Run("set move on a floe with more fish fails untouched", func(t *testing.T) {
		gs := NewGameState(PlayerOne)
		target := Coordinate{X: 2, Y: 2}
		gs.SetField(Field{Coordinate: target, State: IceFloe(2)})
		before := gs.Copy()

		require.False(t, gs.PerformMove(NewSetMove(target)))
		require.Equal(t, before, gs)
	})

	t.Run("drag move collects the destination fish", func(t *testing.T) {
		start, destination := Coordinate{X: 2, Y: 2}, Coordinate{X: 4, Y: 2}
		board := lineBoard(map[Coordinate]int{{X: 3, Y: 2}: 1, destination: 3})
		gs := placed(PlayerOne, board, map[Coordinate]Player{start: PlayerOne})

		require.Equal(t, Coordinate{X: 8, Y: 2}, destination.Doubled())
		require.True(t, gs.PerformMove(NewDragMove(start, destination)))
		require.True(t, gs.Field(start).IsEmpty())
		require.Equal(t, Occupied(PlayerOne), gs.Field(destination))
		require.Equal(t, 3, gs.FishCount(PlayerOne))
		require.Equal(t, PlacementTurns+1, gs.Turn())
	})

	t.Run("drag move of the opponent's penguin fails", func(t *testing.T) {
		start, destination := Coordinate{X: 2, Y: 2}, Coordinate{X: 3, Y: 2}
		board := lineBoard(map[Coordinate]int{destination: 2})
		gs := placed(PlayerTwo, board, map[Coordinate]Player{start: PlayerOne})
		before := gs.Copy()

		require.False(t, gs.PerformMove(NewDragMove(start, destination)))
		require.Equal(t, before, gs)
	})

	t.Run("drag move onto an empty field fails", func(t *testing.T) {
		start, destination := Coordinate{X: 2, Y: 2}, Coordinate{X: 3, Y: 2}
		gs := placed(PlayerOne, NewBoard(), map[Coordinate]Player{start: PlayerOne})

		require.False(t, gs.PerformMove(NewDragMove(start, destination)))
	})

	t.Run("moves off the board fail", func(t *testing.T) {
		start := Coordinate{X: 2, Y: 2}
		gs := placed(PlayerOne, NewBoard(), map[Coordinate]Player{start: PlayerOne})
		before := gs.Copy()

		require.False(t, gs.PerformMove(NewSetMove(Coordinate{X: 8, Y: 0})))
		require.False(t, gs.PerformMove(NewDragMove(start, Coordinate{X: -1, Y: 2})))
		require.False(t, gs.PerformMove(NewDragMove(Coordinate{X: 2, Y: 9}, start)))
		require.Equal(t, before, gs)
	})
}

func TestSkipMove(t *testing.T) {
	gs := NewGameState(PlayerTwo)
	board := gs.Board()

	for i := 0; i < 5; i++ {
		before := gs.CurrentPlayer()
		gs.SkipMove()
		require.Equal(t, before.Opponent(), gs.CurrentPlayer())
	}
	require.Equal(t, 0, gs.Turn())
	require.Equal(t, board, gs.Board())
}

func TestCopyIsIndependent(t *testing.T) {
	gs := NewGameState(PlayerOne)
	target := Coordinate{X: 1, Y: 1}
	gs.SetField(Field{Coordinate: target, State: IceFloe(1)})

	snapshot := gs.Copy()
	require.True(t, gs.PerformMove(NewSetMove(target)))

	fish, ok := snapshot.Field(target).Fish()
	require.True(t, ok)
	require.Equal(t, 1, fish)
	require.Equal(t, 0, snapshot.Turn())
	require.Equal(t, PlayerOne, snapshot.CurrentPlayer())
}

// TestRandomPlayout checks fish conservation, alternation and move legality
// over complete games on random boards.
func TestRandomPlayout(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for game := 0; game < 20; game++ {
		gs := NewGameStateWithBoard(PlayerOne, RandomBoard(rng))
		initialBoard := gs.Board()
		total := initialBoard.Fish()

		for steps := 0; !gs.IsOver() && steps < 500; steps++ {
			moves := gs.PossibleMoves()
			if len(moves) == 0 {
				before := gs.CurrentPlayer()
				gs.SkipMove()
				require.Equal(t, before.Opponent(), gs.CurrentPlayer())
				continue
			}

			for _, move := range moves {
				if gs.IsPlacementPhase() {
					require.Equal(t, SetMove, move.Kind)
					fish, ok := gs.Field(move.Destination).Fish()
					require.True(t, ok)
					require.Equal(t, 1, fish)
				} else {
					require.Equal(t, DragMove, move.Kind)
					requireClearPath(t, gs, move)
				}
			}

			before := gs.CurrentPlayer()
			require.True(t, gs.PerformMove(moves[rng.Intn(len(moves))]))
			require.Equal(t, before.Opponent(), gs.CurrentPlayer())

			board := gs.Board()
			require.Equal(t, total, gs.FishCount(PlayerOne)+gs.FishCount(PlayerTwo)+board.Fish())
		}
		require.True(t, gs.IsOver())
	}
}

func requireClearPath(t *testing.T, gs *GameState, move Move) {
	t.Helper()
	for _, direction := range Directions {
		for distance := 1; distance < BoardSize; distance++ {
			c := move.Start.Step(direction, distance)
			if !c.InBounds() || !gs.board[c.X][c.Y].IsOccupiable() {
				break
			}
			if c == move.Destination {
				return
			}
		}
	}
	t.Fatalf("no clear path for %s", move)
}

func TestLeaderAndEvaluate(t *testing.T) {
	gs := NewGameState(PlayerOne)
	_, ok := gs.Leader()
	require.False(t, ok)
	require.Equal(t, 0.0, EvaluateFish(gs))

	gs.playerOneFishCount = 3
	gs.playerTwoFishCount = 1
	leader, ok := gs.Leader()
	require.True(t, ok)
	require.Equal(t, PlayerOne, leader)
	require.InDelta(t, 0.5, EvaluateFish(gs), 1e-9)

	gs.SkipMove()
	require.InDelta(t, -0.5, EvaluateFish(gs), 1e-9)
}

func TestAdvance(t *testing.T) {
	stuck := []Coordinate{{X: 0, Y: 7}, {X: 2, Y: 7}, {X: 4, Y: 7}, {X: 6, Y: 7}}
	free := []Coordinate{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}, {X: 6, Y: 0}}
	floes := map[Coordinate]int{{X: 1, Y: 0}: 2}
	for i := range stuck {
		floes[stuck[i]] = 1
		floes[free[i]] = 1
	}
	gs := NewGameStateWithBoard(PlayerOne, lineBoard(floes))
	for i := range stuck {
		require.True(t, gs.PerformMove(NewSetMove(stuck[i])))
		require.True(t, gs.PerformMove(NewSetMove(free[i])))
	}
	require.Equal(t, PlayerOne, gs.CurrentPlayer())
	require.False(t, gs.IsOver())

	gs.Advance()
	require.Equal(t, PlayerTwo, gs.CurrentPlayer(), "the stuck player is skipped")
	require.Equal(t, PlacementTurns, gs.Turn())

	gs.Advance()
	require.Equal(t, PlayerTwo, gs.CurrentPlayer(), "a player with moves is never skipped")
}
