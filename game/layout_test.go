package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestInitialLayout(t *testing.T) {
	t.Run("standard centre", func(t *testing.T) {
		p, err := InitialLayout(5, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		require.Equal(t, Mask(1)<<27|Mask(1)<<36, p.Own)
		require.Equal(t, Mask(1)<<28|Mask(1)<<35, p.Opponent)
		require.Equal(t, 5, p.Obstacles.Count())
		require.Zero(t, p.Obstacles&(p.Own|p.Opponent))
		require.NoError(t, p.Validate())
	})

	t.Run("same seed gives the same layout", func(t *testing.T) {
		a, err := InitialLayout(10, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		b, err := InitialLayout(10, rand.New(rand.NewSource(42)))
		require.NoError(t, err)

		require.Equal(t, a, b)
	})

	t.Run("every free cell can be blocked", func(t *testing.T) {
		p, err := InitialLayout(60, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		require.Equal(t, ^(p.Own | p.Opponent), p.Obstacles)
		require.True(t, p.Terminal())
	})

	t.Run("obstacles are spread over the board", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		var seen Mask
		for n := 0; n < 200; n++ {
			p, err := InitialLayout(5, rng)
			require.NoError(t, err)
			seen |= p.Obstacles
		}

		require.Equal(t, 60, seen.Count())
	})

	t.Run("rejects impossible counts", func(t *testing.T) {
		_, err := InitialLayout(61, rand.New(rand.NewSource(1)))
		require.ErrorIs(t, err, ErrTooManyObstacles)

		_, err = InitialLayout(-1, rand.New(rand.NewSource(1)))
		require.ErrorIs(t, err, ErrTooManyObstacles)
	})
}
