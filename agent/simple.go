package agent

import (
	"context"

	"reversi/experiments/metrics"
	"reversi/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent plays a uniformly random legal move.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(_ context.Context, position game.Position, _ []int) (int, metrics.SearchMetric, error) {
	moves := position.Moves()
	if moves == 0 {
		return 0, metrics.SearchMetric{}, ErrNoMoves
	}
	return moves.Nth(a.rng.Intn(moves.Count())), metrics.SearchMetric{}, nil
}

type firstAgent struct{}

// NewFirstAgent plays the legal move with the lowest cell index.
func NewFirstAgent() Agent {
	return firstAgent{}
}

func (firstAgent) FindMove(_ context.Context, position game.Position, _ []int) (int, metrics.SearchMetric, error) {
	moves := position.Moves()
	if moves == 0 {
		return 0, metrics.SearchMetric{}, ErrNoMoves
	}
	return moves.Nth(0), metrics.SearchMetric{}, nil
}
