// Package experiments plays agents against each other offline and records
// the games.
package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/agent"
	"penguins/engine"
	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/protocol"
)

// Summary counts the outcomes of an experiment by agent ID.
type Summary struct {
	Games int
	Wins  map[int]int
	Draws int
	Dir   string // directory of the records, empty if none were written
}

// RunSelfPlay plays games between two agents, alternating the starting
// player, and writes the records below dir unless dir is empty.
func RunSelfPlay(games int, agent1, agent2 metrics.AgentConfig, dir string, seed uint64) (Summary, error) {
	if agent1.ID == agent2.ID {
		return Summary{}, fmt.Errorf("agents must have distinct IDs, both are %d", agent1.ID)
	}
	matchUps := [][]metrics.AgentConfig{{agent1, agent2}}
	return runExperiment("selfplay", games, []metrics.AgentConfig{agent1, agent2}, matchUps, dir, seed)
}

// RunParallelization pits MCTS agents searching with more goroutines
// against a sequential baseline with the same time budget.
func RunParallelization(games int, baseline metrics.AgentConfig, goroutines []int, dir string, seed uint64) (Summary, error) {
	baseline.Strategy = "mcts"
	baseline.Goroutines = 1
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for i, g := range goroutines {
		config := baseline
		config.ID = baseline.ID + i + 1
		config.Goroutines = g
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return runExperiment("parallelization", games, configs, matchUps, dir, seed)
}

func runExperiment(name string, games int, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, dir string, seed uint64) (Summary, error) {
	rng := rand.New(rand.NewSource(seed))
	summary := Summary{Wins: map[int]int{}}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		for i := 0; i < games; i++ {
			// Alternate which agent plays first
			one, two := matchup[0], matchup[1]
			if i%2 == 1 {
				one, two = two, one
			}
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, games)

			winner, gameMetric, moveMetrics, err := runGame(one, two, game.RandomBoard(rng), rng.Uint64())
			if err != nil {
				return summary, err
			}
			summary.Games++
			switch winner {
			case game.PlayerOne.String():
				summary.Wins[one.ID]++
			case game.PlayerTwo.String():
				summary.Wins[two.ID]++
			default:
				summary.Draws++
			}

			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         summary.Games,
				Agent1:     one.ID,
				Agent2:     two.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       summary.Games,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(matchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)
	if dir == "" {
		return summary, nil
	}

	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return summary, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, fmt.Errorf("failed to write move records: %w", err)
	}
	summary.Dir = writer.Dir()
	log.Info().Msgf("stored records in %s", summary.Dir)
	return summary, nil
}

// runGame plays one game in which config1 plays player one and starts.
func runGame(config1, config2 metrics.AgentConfig, board game.Board, seed uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	agent1, err := createAgent(config1, game.PlayerOne, seed)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	agent2, err := createAgent(config2, game.PlayerTwo, seed+1)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}

	var e engine.Engine = engine.LocalEngine([]protocol.Delegate{agent1, agent2}, board, game.PlayerOne)
	winner, gameMetric, moveMetrics := e.Run()
	return winner, gameMetric, moveMetrics, nil
}

func createAgent(config metrics.AgentConfig, player game.Player, seed uint64) (agent.Agent, error) {
	options := []agent.Option{agent.WithSeed(seed)}

	if config.Goroutines > 0 {
		options = append(options, agent.WithGoroutines(config.Goroutines))
	}
	if config.Episodes > 0 {
		options = append(options, agent.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, agent.WithMoveBudget(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, agent.WithCutoff(config.Cutoff))
	}
	if config.Evaluate != nil {
		options = append(options, agent.WithEvaluationFn(config.Evaluate))
	}

	return agent.New(config.Strategy, player, options...)
}
