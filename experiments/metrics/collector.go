package metrics

import (
	"sync/atomic"
	"time"

	"penguins/game"
)

// SearchMetric summarizes one move search.
type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	Evaluate     game.Evaluate
	FullPlayouts int // rollouts that reached the end of the game
	TreeDepth    int // deepest node an episode reached below the root
}

// MoveMetric is the search behind one move of a game. The search metric is
// empty for strategies that do not search.
type MoveMetric struct {
	Step   int
	Player game.Player
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         string // empty on a draw
	FishOne        int
	FishTwo        int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers the metrics of one search. Its counters are safe for
// concurrent use by search goroutines.
type Collector interface {
	Start(goroutines, cutoff int, evaluate game.Evaluate)
	// AddEpisode counts a finished episode whose tree walk ended depth
	// nodes below the root.
	AddEpisode(depth int)
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	cutoff     int
	evaluate   game.Evaluate
	started    time.Time

	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	treeDepth    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (c *collector) Start(goroutines, cutoff int, evaluate game.Evaluate) {
	c.goroutines = goroutines
	c.cutoff = cutoff
	c.evaluate = evaluate
	c.started = time.Now()
	c.episodes.Store(0)
	c.fullPlayouts.Store(0)
	c.treeDepth.Store(0)
}

func (c *collector) AddEpisode(depth int) {
	c.episodes.Add(1)
	for {
		deepest := c.treeDepth.Load()
		if int32(depth) <= deepest || c.treeDepth.CompareAndSwap(deepest, int32(depth)) {
			return
		}
	}
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   c.goroutines,
		Duration:     time.Since(c.started),
		Episodes:     int(c.episodes.Load()),
		Cutoff:       c.cutoff,
		Evaluate:     c.evaluate,
		FullPlayouts: int(c.fullPlayouts.Load()),
		TreeDepth:    int(c.treeDepth.Load()),
	}
}

// dummyCollector discards everything; searches without metrics use it.
type dummyCollector struct{}

func NewDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) Start(int, int, game.Evaluate) {}
func (dummyCollector) AddEpisode(int)                {}
func (dummyCollector) AddFullPlayout()               {}
func (dummyCollector) Complete() SearchMetric        { return SearchMetric{} }
