package experiments

import (
	"context"
	"fmt"

	"reversi/agent"
	"reversi/engine"
	"reversi/experiments/metrics"
	"reversi/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type MatchConfig struct {
	Games     int
	Parallel  int
	Obstacles int
	Seed      uint64
	MaxMoves  int
	Output    string // Directory for CSV records, empty to skip
}

// Summary tallies a match from the point of view of the two configs in order.
// A draw is worth half a point to each side.
type Summary struct {
	Games   int
	Points  [2]float64
	Wins    [2]int
	Draws   int
	Records []metrics.GameRecord
}

// RunMatch plays match.Games games between the two configs, alternating which one
// moves first. Game i starts from a layout drawn with seed match.Seed+i.
func RunMatch(ctx context.Context, name string, configs [2]metrics.AgentConfig, factory Factory, match MatchConfig) (Summary, error) {
	if configs[0].ID == configs[1].ID {
		return Summary{}, fmt.Errorf("both agents have id %d", configs[0].ID)
	}
	log.Info().Msgf("starting %s match between agent1=%+v and agent2=%+v...", name, configs[0], configs[1])

	records := make([]metrics.GameRecord, match.Games)
	moveRecords := make([][]metrics.MoveRecord, match.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, match.Parallel))
	for i := 0; i < match.Games; i++ {
		g.Go(func() error {
			record, moves, err := runGame(ctx, i, configs, factory, match)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			records[i] = record
			moveRecords[i] = moves
			log.Info().Msgf("completed game %d of %d with winner: %d", i+1, match.Games, record.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := tally(configs, records)
	log.Info().Msgf("completed %s match: %.1f - %.1f", name, summary.Points[0], summary.Points[1])

	if match.Output != "" {
		var flat []metrics.MoveRecord
		for _, moves := range moveRecords {
			flat = append(flat, moves...)
		}
		if err := writeRecords(match.Output, name, configs, records, flat); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// runGame plays game i. Even games seat configs[0] first.
func runGame(ctx context.Context, i int, configs [2]metrics.AgentConfig, factory Factory, match MatchConfig) (metrics.GameRecord, []metrics.MoveRecord, error) {
	seed := match.Seed + uint64(i)
	start, err := game.InitialLayout(match.Obstacles, rand.New(rand.NewSource(seed)))
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	first := i % 2
	seats := make([]agent.Agent, 2)
	for seat := range seats {
		c := configs[seat^first]
		seats[seat], err = factory(c, seed*2+uint64(seat)+1)
		if err != nil {
			return metrics.GameRecord{}, nil, fmt.Errorf("failed to create agent %d: %w", c.ID, err)
		}
	}

	result, err := engine.LocalEngine(seats, start, engine.WithMaxMoves(match.MaxMoves)).Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	winner := -1
	if result.Winner >= 0 {
		winner = configs[result.Winner^first].ID
	}
	record := metrics.GameRecord{
		ID:     i + 1,
		Agent1: configs[0].ID,
		Agent2: configs[1].ID,
		GameMetric: metrics.GameMetric{
			StartingAgent: configs[first].ID,
			Winner:        winner,
			Score:         result.Score,
			StartTime:     result.StartTime,
			EndTime:       result.EndTime,
			Duration:      result.EndTime.Sub(result.StartTime),
			TotalMoves:    len(result.Actions),
			Passes:        result.Passes,
		},
	}

	moves := make([]metrics.MoveRecord, 0, len(result.MoveMetrics))
	for _, mm := range result.MoveMetrics {
		moves = append(moves, metrics.MoveRecord{Game: record.ID, MoveMetric: mm})
	}
	return record, moves, nil
}

func tally(configs [2]metrics.AgentConfig, records []metrics.GameRecord) Summary {
	summary := Summary{Games: len(records), Records: records}
	for _, record := range records {
		switch record.Winner {
		case configs[0].ID:
			summary.Wins[0]++
			summary.Points[0]++
		case configs[1].ID:
			summary.Wins[1]++
			summary.Points[1]++
		default:
			summary.Draws++
			summary.Points[0] += 0.5
			summary.Points[1] += 0.5
		}
	}
	return summary
}

func writeRecords(root, name string, configs [2]metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs[:]); err != nil {
		return err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}
