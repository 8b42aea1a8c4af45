package searcher

import (
	"penguins/game"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Tests parallel MCTS (tree parallelization with virtual loss) on decision nodes
sequential:
- selection: fully expanded node -> max UCT child + loss, state advanced by its move
- expansion: expandable node -> new added child + loss, state advanced by its move
- terminal node -> same node, same state
- backup: reverse loss (non-root), visits++, reward from the mover's perspective
concurrent: 3 race conditions
- shared expansion
- shared backup
- shared selection + backup
*/

var (
	left  = game.Coordinate{X: 0, Y: 0}
	right = game.Coordinate{X: 1, Y: 0}
)

// placementState has player one to place a penguin on one of two floes.
func placementState() *game.GameState {
	board := game.NewBoard()
	board.Set(game.Field{Coordinate: left, State: game.IceFloe(1)})
	board.Set(game.Field{Coordinate: right, State: game.IceFloe(1)})
	return game.NewGameStateWithBoard(game.PlayerOne, board)
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("selecting fully expanded node", func(t *testing.T) {
		maxMove := game.NewSetMove(right)
		maxChild := &decision{player: game.PlayerOne, rewards: 1, visits: 1}
		otherChild := &decision{player: game.PlayerOne, rewards: 0, visits: 1}
		node := &decision{
			player:     game.PlayerTwo,
			unexplored: []game.Move{},
			explored:   []game.Move{game.NewSetMove(left), maxMove},
			children:   []*decision{otherChild, maxChild},
			rewards:    1,
			visits:     2,
		}
		state := placementState()

		gotChild, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.Equal(t, 1+Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, game.Occupied(game.PlayerOne), state.Field(right), "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2.0, node.visits, "Node stats should not change")
	})

	t.Run("selecting unvisited root", func(t *testing.T) {
		first := &decision{player: game.PlayerOne, rewards: Loss, visits: 1}
		second := &decision{player: game.PlayerOne, rewards: Loss, visits: 1}
		node := &decision{
			explored: []game.Move{game.NewSetMove(left), game.NewSetMove(right)},
			children: []*decision{first, second},
		}

		gotChild, gotSelected := node.SelectOrExpand(placementState())

		require.Equal(t, first, gotChild, "Ties should go to the first child")
		require.True(t, gotSelected)
	})

	t.Run("expanding node with unexplored moves", func(t *testing.T) {
		unexploredMove := game.NewSetMove(right)
		node := &decision{
			unexplored: []game.Move{unexploredMove},
			explored:   []game.Move{game.NewSetMove(left)},
			children:   []*decision{{rewards: 1, visits: 1}},
			visits:     1,
		}
		state := placementState()

		gotChild, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, game.PlayerOne, gotChild.player, "Child should belong to the player who moved")
		require.Equal(t, node, gotChild.parent)
		require.Equal(t, []game.Move{game.NewSetMove(left)}, gotChild.unexplored, "Child should know the opponent's moves")
		require.Equal(t, 2, len(node.children), "Node should add a new child")
		require.Empty(t, node.unexplored)
		require.Equal(t, unexploredMove, node.explored[1])
		require.Equal(t, game.Occupied(game.PlayerOne), state.Field(right), "State should update by the move to the unexplored child")
		require.False(t, gotSelected, "Node should perform expansion")
	})

	t.Run("stagnating on terminal node", func(t *testing.T) {
		node := &decision{}
		state := placementState()

		gotChild, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, node, gotChild, "Should return the same node")
		require.Equal(t, placementState(), state, "Should return the same state")
		require.False(t, gotSelected, "Should not select any child or expand")
	})
}

func TestNewDecision(t *testing.T) {
	state := placementState()

	node := newDecision(nil, game.PlayerTwo, state)

	require.ElementsMatch(t, []game.Move{game.NewSetMove(left), game.NewSetMove(right)}, node.unexplored)
	require.Empty(t, node.children)
	require.Equal(t, game.PlayerTwo, node.player)
}

func TestDecisionBackup(t *testing.T) {
	t.Run("recording win on root node", func(t *testing.T) {
		node := &decision{
			parent:  nil,
			player:  game.PlayerOne,
			rewards: 0,
			visits:  0,
		}

		got := node.Backup(game.PlayerOne, Win)

		require.Nil(t, got, "Should return no parent")
		require.Equal(t, Win, node.rewards, "Should apply a win reward")
		require.Equal(t, 1.0, node.visits, "Should add a visit")
	})

	t.Run("recording win", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.PlayerOne,
			rewards: Loss,
			visits:  1,
		}

		got := node.Backup(game.PlayerOne, Win)

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, Win, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording loss", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.PlayerOne,
			rewards: Loss,
			visits:  1,
		}

		got := node.Backup(game.PlayerTwo, Win)

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, Loss, node.rewards, "Should reverse virtual loss and add a loss")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording evaluation of the opponent", func(t *testing.T) {
		node := &decision{
			parent:  &decision{},
			player:  game.PlayerOne,
			rewards: Loss,
			visits:  1,
		}

		node.Backup(game.PlayerTwo, 0.5)

		require.Equal(t, -0.5, node.rewards, "Should negate the opponent's score")
	})
}

func TestDecisionPolicy(t *testing.T) {
	node := &decision{
		explored: []game.Move{game.NewSetMove(left), game.NewSetMove(right)},
		children: []*decision{{visits: 1}, {visits: 3}},
	}

	policy := node.Policy()

	require.Equal(t, map[game.Move]float64{
		game.NewSetMove(left):  0.25,
		game.NewSetMove(right): 0.75,
	}, policy)
}

func TestDecisionRaceConditions(t *testing.T) {
	t.Run("concurrent expansion", func(t *testing.T) {
		node := newDecision(nil, game.PlayerTwo, placementState())

		var wg sync.WaitGroup
		type result struct {
			child    *decision
			state    *game.GameState
			selected bool
		}
		var got [2]result

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Each goroutine gets its own copy of state
				state := placementState()
				gotChild, gotSelected := node.SelectOrExpand(state)
				got[i] = result{gotChild, state, gotSelected}
			}()
		}
		wg.Wait()

		require.Equal(t, 2, len(node.children), "Node should have two children")
		for i := 0; i < 2; i++ {
			require.Equal(t, Loss, got[i].child.rewards, "Child should apply a temporary loss")
			require.Equal(t, 1.0, got[i].child.visits, "Child should apply a temporary loss")
			require.False(t, got[i].selected, "Node should be expanded")
			require.Equal(t, 1, got[i].state.Turn(), "State should be advanced by one move")
		}
		require.NotEqual(t, got[0].state.Board(), got[1].state.Board(), "Node should expand with different moves")
	})

	t.Run("concurrent backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent, // Non-root
			player:  game.PlayerOne,
			rewards: Loss * 2, // 2 virtual losses
			visits:  2,        // 2 virtual losses
		}

		var wg sync.WaitGroup
		parents := make([]*decision, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				parents[i] = node.Backup(game.PlayerOne, Win)
			}()
		}
		wg.Wait()

		require.Equal(t, []*decision{parent, parent}, parents, "Should return the parent node")
		require.Equal(t, Win*2, node.rewards, "Node should reverse virtual losses and add two wins")
		require.Equal(t, 2.0, node.visits, "Node should reverse virtual losses and add two visits")
	})

	t.Run("concurrent selection and backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent, // Non-root
			player:  game.PlayerTwo,
			rewards: Loss, // Virtual loss
			visits:  3,
		}
		child := &decision{
			parent:  node,
			player:  game.PlayerOne,
			rewards: 0,
			visits:  1,
		}
		node.explored = []game.Move{game.NewSetMove(right)}
		node.children = []*decision{child}
		state := placementState()

		var wg sync.WaitGroup
		wg.Add(2)

		var gotChild, gotParent *decision
		var gotSelected bool
		go func() {
			defer wg.Done()
			gotChild, gotSelected = node.SelectOrExpand(state)
		}()
		go func() {
			defer wg.Done()
			gotParent = node.Backup(game.PlayerTwo, Win)
		}()
		wg.Wait()

		require.Equal(t, child, gotChild, "Node should select the child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, game.Occupied(game.PlayerOne), state.Field(right), "State should update by the move to the child")
		require.Equal(t, parent, gotParent, "Node should return its parent")
		require.Equal(t, Loss, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, child.visits, "Child should apply a temporary loss")
		require.Equal(t, Win, node.rewards, "Node should reverse virtual loss and add a win")
		require.Equal(t, 3.0, node.visits, "Node should reverse virtual loss and add a visit")
	})
}
