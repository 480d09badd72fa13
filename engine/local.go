package engine

import (
	"context"
	"fmt"
	"time"

	"reversi/agent"
	"reversi/experiments/metrics"
	"reversi/game"

	"github.com/rs/zerolog/log"
)

// MoveHook observes every applied action together with the resulting position.
type MoveHook func(seat, action int, position game.Position)

type Option func(e *Local)

func WithMaxMoves(n int) Option {
	return func(e *Local) {
		if n > 0 {
			e.maxMoves = n
		}
	}
}

func WithMoveHook(hook MoveHook) Option {
	return func(e *Local) {
		e.hook = hook
	}
}

type Local struct {
	agents   []agent.Agent
	start    game.Position
	maxMoves int
	hook     MoveHook
}

func LocalEngine(agents []agent.Agent, start game.Position, options ...Option) *Local {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}
	if err := start.Validate(); err != nil {
		panic(fmt.Sprintf("invalid start position: %v", err))
	}

	e := &Local{
		agents:   agents,
		start:    start,
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop. Passes are applied without asking the agent.
// Cancelling ctx stops the game before the next move is applied.
func (e *Local) Run(ctx context.Context) (Result, error) {
	result := Result{StartTime: time.Now()}
	updates := make([][]int, len(e.agents))
	position := e.start
	seat := 0

	log.Info().Msgf("player %d is starting", seat)

	for step := 0; !position.Terminal(); step++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("game stopped at move %d: %w", step, err)
		}
		if step >= e.maxMoves {
			return result, fmt.Errorf("after %d moves: %w", step, ErrMaxMoves)
		}

		var action int
		if position.MustPass() {
			action = game.PassAction
			result.Passes++
		} else {
			move, metric, err := e.agents[seat].FindMove(ctx, position, updates[seat])
			if err != nil {
				return result, fmt.Errorf("player %d failed to move: %w", seat, err)
			}
			// A search cut short by cancellation still returns a move; drop it.
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("game stopped at move %d: %w", step, err)
			}
			if !position.IsLegal(move) {
				return result, fmt.Errorf("player %d chose %s: %w", seat, game.Notation(move), game.ErrIllegalMove)
			}
			updates[seat] = nil
			action = move
			result.MoveMetrics = append(result.MoveMetrics, metrics.MoveMetric{
				Step:         step,
				Player:       seat,
				Action:       move,
				SearchMetric: metric,
			})
		}

		position = position.Apply(action)
		for i := range updates {
			updates[i] = append(updates[i], action)
		}
		result.Actions = append(result.Actions, action)
		log.Debug().Int("step", step).Int("player", seat).Str("action", game.Notation(action)).Msg("applied")
		if e.hook != nil {
			e.hook(seat, action, position)
		}

		seat ^= 1
	}

	result.EndTime = time.Now()
	result.Final = position
	result.Score = position.Score()
	if seat == 1 {
		result.Score = -result.Score
	}
	switch {
	case result.Score > 0:
		result.Winner = 0
	case result.Score < 0:
		result.Winner = 1
	default:
		result.Winner = -1
	}

	log.Info().Msgf("game over after %d moves with score %d", len(result.Actions), result.Score)
	return result, nil
}
