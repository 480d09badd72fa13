package agent

import (
	"context"
	"math"

	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It samples moves
// in proportion to visits^(1/temperature) instead of always playing the most visited.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{mcts: mcts, temperature: temperature, rng: rand.New(rand.NewSource(seed))}
}

func (a *trainingAgent) FindMove(ctx context.Context, position game.Position, updates []int) (int, metrics.SearchMetric, error) {
	a.mcts.CommitPath(updates)
	best, metric, err := a.mcts.ChooseMove(ctx, position)
	if err != nil {
		return 0, metric, err
	}

	children := a.mcts.Children()
	visits := make([]float64, len(children))
	for i, child := range children {
		visits[i] = float64(child.Visits)
	}
	probs := adjustTemperature(visits, a.temperature)
	if probs == nil {
		return best, metric, nil
	}
	return children[sample(probs, a.rng)].Action, metric, nil
}

// adjustTemperature returns visit^(1/temperature) normalised to sum to 1, or nil when
// nothing was visited.
func adjustTemperature(visits []float64, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(visits))
	for i, visit := range visits {
		adjusted[i] = math.Pow(visit, exponent)
		sum += adjusted[i]
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return nil
	}
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(probs []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	last := 0
	for i, prob := range probs {
		if prob == 0 {
			continue
		}
		last = i
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return last // Fallback in case of rounding errors
}
