package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/agent"
	"penguins/communication"
	"penguins/communication/client"
	"penguins/config"
	"penguins/experiments"
	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/gamemaster"
	"penguins/meta"
	"penguins/protocol"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg.Help {
		return 0
	}
	if cfg.Version {
		fmt.Fprintf(stdout, "%s %s\n", meta.EXECUTABLE_NAME, meta.VERSION)
		return 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	logger := log.With().Str("session", uuid.NewString()).Logger()

	switch {
	case cfg.SelfPlay > 0:
		return selfPlay(cfg, logger)
	case cfg.Serve:
		return host(ctx, cfg, logger)
	}
	return play(ctx, cfg, logger)
}

func newTransport(cfg config.Config) communication.Transport {
	if cfg.Transport == "ws" {
		return client.NewWebSocket(cfg.WebSocketPath, cfg.ReadTimeout)
	}
	return client.NewTCP(cfg.ReadTimeout)
}

func agentOptions(cfg config.Config, logger zerolog.Logger) []agent.Option {
	options := []agent.Option{
		agent.WithMoveBudget(cfg.MoveBudget),
		agent.WithGoroutines(cfg.Goroutines),
		agent.WithLogger(logger),
	}
	if cfg.Seed != 0 {
		options = append(options, agent.WithSeed(cfg.Seed))
	}
	return options
}

func play(ctx context.Context, cfg config.Config, logger zerolog.Logger) int {
	transport := newTransport(cfg)
	if err := transport.Connect(ctx, cfg.Host, cfg.Port); err != nil {
		logger.Error().Err(err).Msg("failed to connect to the game server")
		return 1
	}
	defer transport.Close()
	logger.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("strategy", cfg.Strategy).Msg("connected")

	policy, _ := protocol.ParseSkipPolicy(cfg.SkipPolicy) // validated with the configuration
	handler := protocol.NewHandler(
		transport,
		agent.Factory(cfg.Strategy, agentOptions(cfg, logger)...),
		protocol.WithReservation(cfg.Reservation),
		protocol.WithSkipPolicy(policy),
		protocol.WithLogger(logger),
	)

	err := handler.Run(ctx)
	var perr *protocol.ProtocolError
	switch {
	case err == nil:
		logger.Info().Msg("game over")
		return 0
	case errors.As(err, &perr):
		logger.Error().Str("element", perr.Element).Err(err).Msg("protocol violation")
	case errors.Is(err, protocol.ErrStreamClosed):
		logger.Error().Msg("the server closed the connection before the game ended")
	default:
		logger.Error().Err(err).Msg("game aborted")
	}
	return 1
}

func selfPlay(cfg config.Config, logger zerolog.Logger) int {
	agent1 := metrics.AgentConfig{ID: 1, Strategy: cfg.Strategy, Goroutines: cfg.Goroutines, Duration: cfg.MoveBudget}
	agent2 := metrics.AgentConfig{ID: 2, Strategy: cfg.Opponent, Goroutines: cfg.Goroutines, Duration: cfg.MoveBudget}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	summary, err := experiments.RunSelfPlay(cfg.SelfPlay, agent1, agent2, cfg.Records, seed)
	if err != nil {
		logger.Error().Err(err).Msg("self-play failed")
		return 1
	}
	logger.Info().
		Int("games", summary.Games).
		Str("strategy", cfg.Strategy).
		Int("wins", summary.Wins[agent1.ID]).
		Str("opponent", cfg.Opponent).
		Int("opponentWins", summary.Wins[agent2.ID]).
		Int("draws", summary.Draws).
		Str("records", summary.Dir).
		Msg("self-play completed")
	return 0
}

// host hosts one game on a random board between the first two clients that
// connect to host:port.
func host(ctx context.Context, cfg config.Config, logger zerolog.Logger) int {
	address := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", address)
	if err != nil {
		logger.Error().Err(err).Msg("failed to listen")
		return 1
	}
	defer ln.Close()
	logger.Info().Str("address", ln.Addr().String()).Msg("waiting for two clients")

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	start := game.PlayerOne
	if rng.Intn(2) == 1 {
		start = game.PlayerTwo
	}
	options := []gamemaster.Option{gamemaster.WithLogger(logger)}
	if cfg.SkipStates {
		options = append(options, gamemaster.WithSkipStates())
	}

	gm := gamemaster.NewGameMaster(game.RandomBoard(rng), start, options...)
	result, err := gm.ListenAndServe(ctx, ln)
	if err != nil {
		logger.Error().Err(err).Msg("failed to host the game")
		return 1
	}
	for i, score := range result.Scores {
		logger.Info().Int("player", i+1).Str("cause", string(score.Cause)).Strs("score", score.Values).Msg("final score")
	}
	return 0
}
