package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"reversi/agent"
	"reversi/config"
	"reversi/display"
	"reversi/engine"
	"reversi/experiments"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/model"
	"reversi/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "YAML config file, built-in defaults when empty")
	mode := flag.String("mode", "match", "One of match, analyse, play or config")
	simulations := flag.Int("simulations", 0, "Simulations per move")
	duration := flag.Duration("duration", 0, "Search time per move, or total analysis time")
	games := flag.Int("games", 0, "Games per match")
	parallel := flag.Int("parallel", 0, "Games played at once")
	first := flag.String("first", "", "Agent kind listed first in a match")
	second := flag.String("second", "", "Agent kind listed second in a match")
	seed := flag.Uint64("seed", 0, "Layout seed, random when 0")
	obstacles := flag.Int("obstacles", 0, "Obstacles per game")
	output := flag.String("output", "", "Directory for match CSV records")
	modelPath := flag.String("model", "", "ONNX model used by model agents and analysis")
	level := flag.String("level", "", "Log level")
	board := flag.String("board", "", "Position to analyse, 64 symbols of x o # . with x to move")
	turn := flag.Int("turn", 0, "Seat of the side to move in -board, 0 draws x as the first mover X and 1 as O")
	humanSeat := flag.Int("seat", 0, "Seat of the human player in play mode, 0 moves first")
	flag.Parse()

	c := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		c = loaded
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "simulations":
			c.Search.Simulations = *simulations
		case "duration":
			c.Search.Duration = *duration
		case "games":
			c.Match.Games = *games
		case "parallel":
			c.Match.Parallel = *parallel
		case "first":
			c.Match.First = *first
		case "second":
			c.Match.Second = *second
		case "seed":
			c.Game.Seed = *seed
		case "obstacles":
			c.Game.Obstacles = *obstacles
		case "output":
			c.Match.Output = *output
		case "model":
			c.Model.Path = *modelPath
		case "level":
			c.Log.Level = *level
		}
	})
	if err := c.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(c.LogLevel())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *mode {
	case "match":
		err = runMatch(ctx, c)
	case "analyse":
		err = runAnalysis(ctx, c, *board, *turn)
	case "play":
		err = runPlay(ctx, c, *humanSeat)
	case "config":
		err = c.Encode(os.Stdout)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func runMatch(ctx context.Context, c config.Config) error {
	builder := &experiments.Builder{Model: c.Model.Evaluator(), Temperature: c.Match.Temperature}
	defer builder.Close()

	agentConfig := func(id int, kind string) metrics.AgentConfig {
		return metrics.AgentConfig{
			ID:          id,
			Kind:        kind,
			Simulations: c.Search.Simulations,
			Duration:    c.Search.Duration,
			Exploration: c.Search.Exploration,
		}
	}
	configs := [2]metrics.AgentConfig{agentConfig(1, c.Match.First), agentConfig(2, c.Match.Second)}

	summary, err := experiments.RunMatch(ctx, "match", configs, builder.Agent, experiments.MatchConfig{
		Games:     c.Match.Games,
		Parallel:  c.Match.Parallel,
		Obstacles: c.Game.Obstacles,
		Seed:      config.Seed(c.Game.Seed),
		MaxMoves:  c.Game.MaxMoves,
		Output:    c.Match.Output,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s %.1f - %.1f %s (%d draws in %d games)\n",
		c.Match.First, summary.Points[0], summary.Points[1], c.Match.Second, summary.Draws, summary.Games)
	return nil
}

func runAnalysis(ctx context.Context, c config.Config, board string, turn int) error {
	if turn != 0 && turn != 1 {
		return fmt.Errorf("turn %d: want 0 or 1", turn)
	}
	position, err := startPosition(c, board)
	if err != nil {
		return err
	}
	evaluator, closeEvaluator, err := newEvaluator(c)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	if c.Search.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Search.Duration)
		defer cancel()
	}

	// Holds the latest snapshot only; the searcher never waits for the drawer.
	snapshots := make(chan searcher.Snapshot, 1)
	publish := func(s searcher.Snapshot) {
		select {
		case <-snapshots:
		default:
		}
		snapshots <- s
	}

	mcts := searcher.NewMCTS(
		searcher.WithEvaluator(evaluator),
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithListener(c.Search.ListenEvery, publish),
	)
	if err := mcts.Reset(position); err != nil {
		return err
	}

	renderer := display.NewRenderer(os.Stdout)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(snapshots)
		return mcts.Analyse(ctx)
	})
	g.Go(func() error {
		for s := range snapshots {
			renderer.Redraw(renderer.Analysis(s, turn == 0, 10))
		}
		return nil
	})
	return g.Wait()
}

func runPlay(ctx context.Context, c config.Config, humanSeat int) error {
	if humanSeat != 0 && humanSeat != 1 {
		return fmt.Errorf("seat %d: want 0 or 1", humanSeat)
	}
	position, err := startPosition(c, "")
	if err != nil {
		return err
	}
	evaluator, closeEvaluator, err := newEvaluator(c)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	mcts := searcher.NewMCTS(
		searcher.WithSimulations(c.Search.Simulations),
		searcher.WithDuration(c.Search.Duration),
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithEvaluator(evaluator),
	)
	agents := make([]agent.Agent, 2)
	agents[humanSeat] = agent.NewHumanAgent(os.Stdin, os.Stdout)
	agents[humanSeat^1] = agent.NewEvaluationAgent(mcts)

	renderer := display.NewRenderer(os.Stdout)
	fmt.Print(renderer.Board(position, true, -1))
	hook := func(seat, action int, next game.Position) {
		fmt.Printf("\nplayer %d played %s\n", seat, game.Notation(action))
		fmt.Print(renderer.Board(next, seat == 1, -1))
	}

	result, err := engine.LocalEngine(agents, position, engine.WithMaxMoves(c.Game.MaxMoves), engine.WithMoveHook(hook)).Run(ctx)
	if err != nil {
		return err
	}

	switch result.Winner {
	case -1:
		fmt.Println("draw")
	case humanSeat:
		fmt.Printf("you win by %d\n", abs(result.Score))
	default:
		fmt.Printf("you lose by %d\n", abs(result.Score))
	}
	return nil
}

func startPosition(c config.Config, board string) (game.Position, error) {
	if board == "" {
		return game.InitialLayout(c.Game.Obstacles, rand.New(rand.NewSource(config.Seed(c.Game.Seed))))
	}
	own, opponent, obstacles, err := game.Parse(strings.ReplaceAll(board, "/", ""))
	if err != nil {
		return game.Position{}, err
	}
	return game.NewPosition(uint64(own), uint64(opponent), uint64(obstacles))
}

func newEvaluator(c config.Config) (searcher.Evaluator, func(), error) {
	if c.Model.Path == "" {
		return searcher.NewRolloutEvaluator(config.Seed(c.Rollout.Seed)), func() {}, nil
	}
	evaluator, err := model.NewEvaluator(c.Model.Evaluator())
	if err != nil {
		return nil, nil, err
	}
	return evaluator, evaluator.Close, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
