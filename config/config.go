package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"reversi/meta"
	"reversi/model"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"
)

var ErrInvalid = errors.New("invalid config")

// Kinds of agents a match can seat.
var Kinds = []string{"mcts", "training", "model", "random", "first"}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Search  SearchConfig  `yaml:"search"`
	Game    GameConfig    `yaml:"game"`
	Rollout RolloutConfig `yaml:"rollout"`
	Model   ModelConfig   `yaml:"model"`
	Match   MatchConfig   `yaml:"match"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SearchConfig struct {
	Exploration float64       `yaml:"exploration"`
	Simulations int           `yaml:"simulations"`
	Duration    time.Duration `yaml:"duration"`
	ListenEvery int           `yaml:"listen_every"`
}

type GameConfig struct {
	Obstacles int    `yaml:"obstacles"`
	Seed      uint64 `yaml:"seed"` // 0 draws a random seed
	MaxMoves  int    `yaml:"max_moves"`
}

type RolloutConfig struct {
	Seed uint64 `yaml:"seed"` // 0 draws a random seed
}

type ModelConfig struct {
	Path    string `yaml:"path"`
	Library string `yaml:"library"`
	Input   string `yaml:"input"`
	Policy  string `yaml:"policy"`
	Value   string `yaml:"value"`
}

type MatchConfig struct {
	Games       int     `yaml:"games"`
	Parallel    int     `yaml:"parallel"`
	First       string  `yaml:"first"`
	Second      string  `yaml:"second"`
	Temperature float64 `yaml:"temperature"`
	Output      string  `yaml:"output"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Search: SearchConfig{
			Exploration: meta.EXPLORATION,
			Simulations: meta.SIMULATIONS,
			ListenEvery: meta.LISTEN_EVERY,
		},
		Game: GameConfig{
			Obstacles: meta.OBSTACLES,
			MaxMoves:  meta.MAX_MOVES,
		},
		Model: ModelConfig{Input: "state", Policy: "policy", Value: "value"},
		Match: MatchConfig{
			Games:       meta.GAMES,
			Parallel:    1,
			First:       "mcts",
			Second:      "random",
			Temperature: meta.TEMPERATURE,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

func Decode(r io.Reader) (Config, error) {
	c := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return encoder.Close()
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level %q: %w", c.Log.Level, ErrInvalid)
	}
	if c.Search.Exploration < 0 || math.IsNaN(c.Search.Exploration) {
		return fmt.Errorf("exploration %v: %w", c.Search.Exploration, ErrInvalid)
	}
	if c.Search.Simulations < 0 || c.Search.Duration < 0 {
		return fmt.Errorf("negative search budget: %w", ErrInvalid)
	}
	if c.Search.ListenEvery <= 0 {
		return fmt.Errorf("listen_every %d: %w", c.Search.ListenEvery, ErrInvalid)
	}
	if c.Game.Obstacles < 0 || c.Game.Obstacles > 60 {
		return fmt.Errorf("%d obstacles: %w", c.Game.Obstacles, ErrInvalid)
	}
	if c.Game.MaxMoves <= 0 {
		return fmt.Errorf("max_moves %d: %w", c.Game.MaxMoves, ErrInvalid)
	}
	if c.Match.Games <= 0 || c.Match.Parallel <= 0 {
		return fmt.Errorf("match needs positive games and parallel: %w", ErrInvalid)
	}
	if c.Match.Temperature <= 0 {
		return fmt.Errorf("temperature %v: %w", c.Match.Temperature, ErrInvalid)
	}
	for _, kind := range []string{c.Match.First, c.Match.Second} {
		if !validKind(kind) {
			return fmt.Errorf("agent kind %q: %w", kind, ErrInvalid)
		}
		if kind == "model" && c.Model.Path == "" {
			return fmt.Errorf("model agent without model path: %w", ErrInvalid)
		}
	}
	return nil
}

func validKind(kind string) bool {
	return slices.Contains(Kinds, kind)
}

// LogLevel returns the parsed log level. Validate has already checked it.
func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (m ModelConfig) Evaluator() model.Config {
	return model.Config{
		Path:    m.Path,
		Library: m.Library,
		Input:   m.Input,
		Policy:  m.Policy,
		Value:   m.Value,
	}
}

// Seed returns seed, or a fresh random non-zero seed when it is 0.
func Seed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return frand.Uint64n(math.MaxUint64) + 1
}
