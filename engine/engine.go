package engine

import (
	"context"
	"errors"
	"time"

	"reversi/experiments/metrics"
	"reversi/game"
)

// MaxMoves bounds a game. Every pass is followed by a move, so a real game stays
// well below it.
const MaxMoves = 200

var ErrMaxMoves = errors.New("move limit reached")

type Engine interface {
	// Run plays a game till neither side can move or the move limit is reached
	Run(ctx context.Context) (Result, error)
}

// Result describes a finished game. Seat 0 moves first.
type Result struct {
	Final       game.Position // From the side to move
	Score       int           // Disk difference from seat 0's side
	Winner      int           // Seat, -1 on a draw
	Actions     []int         // Every applied action, passes included
	Passes      int
	StartTime   time.Time
	EndTime     time.Time
	MoveMetrics []metrics.MoveMetric
}

// Outcome is 1, 0.5 or 0 for seat 0.
func (r Result) Outcome() float64 {
	return game.OutcomeOf(r.Score)
}
