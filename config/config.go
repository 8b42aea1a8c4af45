// Package config assembles the client configuration from defaults, an
// optional YAML file and command line flags, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"penguins/agent"
	"penguins/meta"
	"penguins/protocol"
)

type Config struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Reservation   string        `yaml:"reservation"`
	Strategy      string        `yaml:"strategy"`
	LogLevel      string        `yaml:"logLevel"`
	Transport     string        `yaml:"transport"`
	WebSocketPath string        `yaml:"websocketPath"`
	ReadTimeout   time.Duration `yaml:"readTimeout"`
	MoveBudget    time.Duration `yaml:"moveBudget"`
	Goroutines    int           `yaml:"goroutines"`
	SkipPolicy    string        `yaml:"skipPolicy"`

	// Offline self-play
	SelfPlay int    `yaml:"selfPlay"`
	Opponent string `yaml:"opponent"`
	Records  string `yaml:"records"`
	Seed     uint64 `yaml:"seed"`

	// Host one game instead of playing
	Serve      bool `yaml:"serve"`
	SkipStates bool `yaml:"skipStates"`

	Help    bool `yaml:"-"`
	Version bool `yaml:"-"`
}

func Default() Config {
	return Config{
		Host:          meta.DEFAULT_HOST,
		Port:          meta.DEFAULT_PORT,
		Strategy:      "random",
		LogLevel:      "info",
		Transport:     "tcp",
		WebSocketPath: "/",
		MoveBudget:    time.Second,
		Goroutines:    1,
		SkipPolicy:    "last-move",
		Opponent:      "random",
	}
}

// Load overlays the YAML file at path onto cfg. Unknown keys are rejected.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Parse builds the configuration from the command line arguments (without
// the program name). Usage is written to output.
func Parse(args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet(meta.EXECUTABLE_NAME, flag.ContinueOnError)
	fs.SetOutput(output)

	var flags Config
	var configPath string
	fs.StringVar(&flags.Host, "h", "", "game server host")
	fs.StringVar(&flags.Host, "host", "", "game server host")
	fs.IntVar(&flags.Port, "p", 0, "game server port")
	fs.IntVar(&flags.Port, "port", 0, "game server port")
	fs.StringVar(&flags.Reservation, "r", "", "reservation code of a prepared game")
	fs.StringVar(&flags.Reservation, "reservation", "", "reservation code of a prepared game")
	fs.StringVar(&flags.Strategy, "s", "", fmt.Sprintf("move selection strategy %v", agent.Strategies()))
	fs.StringVar(&flags.Strategy, "strategy", "", fmt.Sprintf("move selection strategy %v", agent.Strategies()))
	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	fs.StringVar(&flags.Transport, "transport", "", "transport to the game server (tcp, ws)")
	fs.DurationVar(&flags.MoveBudget, "move-budget", 0, "time the mcts strategy searches per move")
	fs.IntVar(&flags.Goroutines, "goroutines", 0, "search goroutines of the mcts strategy")
	fs.StringVar(&flags.SkipPolicy, "skip-policy", "", "how skipped turns are detected (last-move, state-update)")
	fs.IntVar(&flags.SelfPlay, "selfplay", 0, "play N local games against the opponent strategy instead of connecting")
	fs.StringVar(&flags.Opponent, "opponent", "", "strategy of the self-play opponent")
	fs.StringVar(&flags.Records, "records", "", "directory for self-play CSV records")
	fs.Uint64Var(&flags.Seed, "seed", 0, "seed of random decisions, 0 for a random seed")
	fs.BoolVar(&flags.Serve, "serve", false, "host one game on host:port between the first two clients instead of playing")
	fs.BoolVar(&flags.SkipStates, "skip-states", false, "send a state update for every skipped player when hosting")
	fs.BoolVar(&flags.Help, "help", false, "show this help")
	fs.BoolVar(&flags.Version, "version", false, "show the version")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments %v", fs.Args())
	}

	cfg := Default()
	if configPath != "" {
		if err := Load(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "h", "host":
			cfg.Host = flags.Host
		case "p", "port":
			cfg.Port = flags.Port
		case "r", "reservation":
			cfg.Reservation = flags.Reservation
		case "s", "strategy":
			cfg.Strategy = flags.Strategy
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "transport":
			cfg.Transport = flags.Transport
		case "move-budget":
			cfg.MoveBudget = flags.MoveBudget
		case "goroutines":
			cfg.Goroutines = flags.Goroutines
		case "skip-policy":
			cfg.SkipPolicy = flags.SkipPolicy
		case "selfplay":
			cfg.SelfPlay = flags.SelfPlay
		case "opponent":
			cfg.Opponent = flags.Opponent
		case "records":
			cfg.Records = flags.Records
		case "seed":
			cfg.Seed = flags.Seed
		case "serve":
			cfg.Serve = flags.Serve
		case "skip-states":
			cfg.SkipStates = flags.SkipStates
		case "help":
			cfg.Help = flags.Help
		case "version":
			cfg.Version = flags.Version
		}
	})

	if cfg.Help {
		fs.Usage()
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	for _, strategy := range []string{c.Strategy, c.Opponent} {
		if strategy != "" && !slices.Contains(agent.Strategies(), strategy) {
			return fmt.Errorf("unknown strategy %q, expected one of %v", strategy, agent.Strategies())
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Transport != "tcp" && c.Transport != "ws" {
		return fmt.Errorf("unknown transport %q, expected tcp or ws", c.Transport)
	}
	if _, err := protocol.ParseSkipPolicy(c.SkipPolicy); err != nil {
		return err
	}
	if c.Goroutines < 1 {
		return fmt.Errorf("goroutines must be positive, got %d", c.Goroutines)
	}
	if c.MoveBudget <= 0 {
		return fmt.Errorf("move budget must be positive, got %s", c.MoveBudget)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("read timeout must not be negative, got %s", c.ReadTimeout)
	}
	if c.SelfPlay < 0 {
		return fmt.Errorf("number of self-play games must not be negative, got %d", c.SelfPlay)
	}
	if c.Serve && c.SelfPlay > 0 {
		return errors.New("hosting a game and self-play are mutually exclusive")
	}
	return nil
}

// Level returns the zerolog level of the configuration, info if none or an
// invalid one is set.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
