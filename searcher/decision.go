package searcher

import (
	"penguins/game"
	"sync"

	"golang.org/x/exp/rand"
)

// decision is a node of the search tree. Its statistics are kept from the
// perspective of the player whose move led to it.
type decision struct {
	sync.RWMutex
	parent     *decision
	player     game.Player
	unexplored []game.Move
	explored   []game.Move
	children   []*decision
	rewards    float64
	visits     float64
}

// newDecision creates the node reached by player's move into state.
func newDecision(parent *decision, player game.Player, state *game.GameState) *decision {
	moves := legalMoves(state)
	rand.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	return &decision{
		parent:     parent,
		player:     player,
		unexplored: moves,
		explored:   make([]game.Move, 0, len(moves)),
		children:   make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level and plays the corresponding move on
// state. It returns the node itself on a terminal node, and reports whether
// an existing child was selected rather than a new one added.
func (d *decision) SelectOrExpand(state *game.GameState) (*decision, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.children) == 0 { // Terminal node
		return d, false
	}

	if len(d.unexplored) > 0 { // Expandable node
		child := d.addChild(state)
		child.applyLoss()
		return child, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	play(state, d.explored[ith])
	child.applyLoss()
	return child, true
}

func (d *decision) addChild(state *game.GameState) *decision {
	last := len(d.unexplored) - 1
	move := d.unexplored[last]
	d.unexplored = d.unexplored[:last]

	player := state.CurrentPlayer()
	play(state, move)
	child := newDecision(d, player, state)
	d.explored = append(d.explored, move)
	d.children = append(d.children, child)
	return child
}

func (d *decision) pickChild() int {
	// The root only counts completed episodes while its children also count
	// the ones in flight.
	visits := d.visits
	if visits < 1 {
		visits = 1
	}
	policy := newUCT(CSquared, visits)

	maxIndex := 0
	maxScore := 0.0
	for i, child := range d.children {
		rewards, childVisits := child.stats()
		score := policy.evaluate(rewards, childVisits)
		if i == 0 || score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) stats() (rewards float64, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// Backup records the outcome of a rollout, scored from player's perspective,
// and returns the parent node.
func (d *decision) Backup(player game.Player, score float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.player, player, score)
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

// Policy returns the share of visits of each explored move.
func (d *decision) Policy() map[game.Move]float64 {
	d.RLock()
	defer d.RUnlock()

	total := 0.0
	visits := make([]float64, len(d.children))
	for i, child := range d.children {
		_, visits[i] = child.stats()
		total += visits[i]
	}

	policy := make(map[game.Move]float64, len(d.explored))
	for i, move := range d.explored {
		if total > 0 {
			policy[move] = visits[i] / total
		} else {
			policy[move] = 0
		}
	}
	return policy
}
