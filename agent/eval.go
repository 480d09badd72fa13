package agent

import (
	"context"

	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, position game.Position, updates []int) (int, metrics.SearchMetric, error) {
	a.mcts.CommitPath(updates)
	return a.mcts.ChooseMove(ctx, position)
}
