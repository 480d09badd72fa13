package engine

import (
	"context"
	"errors"
	"testing"

	"reversi/agent"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type agentFunc func(position game.Position, updates []int) (int, error)

func (f agentFunc) FindMove(_ context.Context, position game.Position, updates []int) (int, metrics.SearchMetric, error) {
	action, err := f(position, updates)
	return action, metrics.SearchMetric{}, err
}

func opening(t *testing.T, obstacles int, seed uint64) game.Position {
	t.Helper()
	position, err := game.InitialLayout(obstacles, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return position
}

// replay checks the actions against the rules and returns seat 0's disk difference.
func replay(t *testing.T, start game.Position, actions []int) int {
	t.Helper()
	position := start
	for _, action := range actions {
		if action == game.PassAction {
			require.True(t, position.MustPass())
		} else {
			require.True(t, position.IsLegal(action))
		}
		position = position.Apply(action)
	}
	require.True(t, position.Terminal())
	if len(actions)%2 == 1 {
		return -position.Score()
	}
	return position.Score()
}

func TestLocalEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("random games follow the rules", func(t *testing.T) {
		for seed := uint64(1); seed <= 20; seed++ {
			start := opening(t, 5, seed)
			e := LocalEngine([]agent.Agent{agent.NewRandomAgent(seed), agent.NewRandomAgent(seed + 100)}, start)

			result, err := e.Run(ctx)

			require.NoError(t, err)
			require.Equal(t, replay(t, start, result.Actions), result.Score)
			require.Equal(t, len(result.Actions)-result.Passes, len(result.MoveMetrics))
			require.True(t, result.Final.Terminal())
			switch {
			case result.Score > 0:
				require.Equal(t, 0, result.Winner)
				require.Equal(t, 1.0, result.Outcome())
			case result.Score < 0:
				require.Equal(t, 1, result.Winner)
				require.Equal(t, 0.0, result.Outcome())
			default:
				require.Equal(t, -1, result.Winner)
				require.Equal(t, 0.5, result.Outcome())
			}
		}
	})

	t.Run("forced pass is applied without asking", func(t *testing.T) {
		stuck := agentFunc(func(game.Position, []int) (int, error) {
			return 0, errors.New("should not be asked")
		})
		e := LocalEngine([]agent.Agent{stuck, agent.NewFirstAgent()}, game.Position{Own: 2, Opponent: 1, Obstacles: 8})

		result, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, []int{game.PassAction, 2}, result.Actions)
		require.Equal(t, 1, result.Passes)
		require.Equal(t, -3, result.Score)
		require.Equal(t, 1, result.Winner)
	})

	t.Run("agents receive every action since their last move", func(t *testing.T) {
		var seen [2][][]int
		record := func(seat int) agent.Agent {
			first := agent.NewFirstAgent()
			return agentFunc(func(position game.Position, updates []int) (int, error) {
				seen[seat] = append(seen[seat], append([]int(nil), updates...))
				action, _, err := first.FindMove(ctx, position, updates)
				return action, err
			})
		}
		e := LocalEngine([]agent.Agent{record(0), record(1)}, opening(t, 0, 1), WithMaxMoves(4))

		result, err := e.Run(ctx)

		require.ErrorIs(t, err, ErrMaxMoves)
		a := result.Actions
		require.Len(t, a, 4)
		require.Equal(t, [][]int{nil, {a[0], a[1]}}, seen[0])
		require.Equal(t, [][]int{{a[0]}, {a[1], a[2]}}, seen[1])
	})

	t.Run("move hook sees each position", func(t *testing.T) {
		start := opening(t, 3, 2)
		var actions []int
		position := start
		hook := func(seat, action int, next game.Position) {
			require.Equal(t, len(actions)%2, seat)
			position = position.Apply(action)
			require.Equal(t, position, next)
			actions = append(actions, action)
		}
		e := LocalEngine([]agent.Agent{agent.NewFirstAgent(), agent.NewRandomAgent(2)}, start, WithMoveHook(hook))

		result, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, result.Actions, actions)
	})

	t.Run("illegal move", func(t *testing.T) {
		cheat := agentFunc(func(game.Position, []int) (int, error) { return 0, nil })
		e := LocalEngine([]agent.Agent{cheat, agent.NewFirstAgent()}, opening(t, 0, 1))

		_, err := e.Run(ctx)

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("agent error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		failing := agentFunc(func(game.Position, []int) (int, error) { return 0, boom })
		e := LocalEngine([]agent.Agent{agent.NewFirstAgent(), failing}, opening(t, 0, 1))

		_, err := e.Run(ctx)

		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		mcts := func(seed uint64) agent.Agent {
			return agent.NewEvaluationAgent(searcher.NewMCTS(
				searcher.WithSimulations(1_000_000),
				searcher.WithEvaluator(searcher.NewRolloutEvaluator(seed)),
			))
		}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		e := LocalEngine([]agent.Agent{mcts(1), mcts(2)}, opening(t, 5, 4))

		result, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, result.Actions)
	})

	t.Run("cancellation during a search drops its move", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		defer cancel()
		calls := 0
		first := agent.NewFirstAgent()
		cancelling := agentFunc(func(position game.Position, updates []int) (int, error) {
			calls++
			if calls == 2 {
				cancel()
			}
			action, _, err := first.FindMove(ctx, position, updates)
			return action, err
		})
		e := LocalEngine([]agent.Agent{cancelling, cancelling}, opening(t, 0, 1))

		result, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, result.Actions, 1)
		require.Equal(t, 2, calls)
	})

	t.Run("panics on a wrong number of agents", func(t *testing.T) {
		require.Panics(t, func() {
			LocalEngine([]agent.Agent{agent.NewFirstAgent()}, opening(t, 0, 1))
		})
	})
}
