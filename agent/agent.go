package agent

import (
	"context"
	"errors"

	"reversi/experiments/metrics"
	"reversi/game"
)

var ErrNoMoves = errors.New("no legal moves")

type Agent interface {
	// FindMove returns a cell to play and performance metrics (if collected). updates
	// lists every action applied since this agent last moved, its own move and passes
	// included, so a search tree can follow the game.
	FindMove(ctx context.Context, position game.Position, updates []int) (int, metrics.SearchMetric, error)
}
