package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPUCT(t *testing.T) {
	t.Run("panics with a negative exploration constant", func(t *testing.T) {
		require.Panics(t, func() {
			newPUCT(-1, 10)
		}, "Should panic when c is negative")
	})
}

func TestPUCTEvaluate(t *testing.T) {
	t.Run("computing PUCT value", func(t *testing.T) {
		policy := newPUCT(0.5, 100)
		got := policy.evaluate(0.4, 0.2, 9)

		expected := 0.4 + 0.5*0.2*100/10.0
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q + c*P*N_total/(1+n)")
	})

	t.Run("no bonus before any child is visited", func(t *testing.T) {
		policy := newPUCT(0.5, 0)

		require.Equal(t, 0.7, policy.evaluate(0.7, 1, 0), "Score should reduce to q")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newPUCT(1, 100)

		less := policy.evaluate(0.5, 1, 10)
		more := policy.evaluate(0.5, 1, 1)

		require.Greater(t, more, less,
			"Fewer child visits should increase exploration term")
	})

	t.Run("exploration term increases with prior", func(t *testing.T) {
		policy := newPUCT(1, 100)

		require.Greater(t, policy.evaluate(0.5, 0.9, 3), policy.evaluate(0.5, 0.1, 3),
			"Higher prior should increase exploration term")
	})
}
