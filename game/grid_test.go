package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, m := range []Mask{0, 1, 1 << 63, 0x8100000000000081, 0x0000001818000000, ^Mask(0)} {
			require.Equal(t, m, Pack(Unpack(m)))
		}
	})

	t.Run("bit index is row times eight plus column", func(t *testing.T) {
		var g Grid
		g[2][5] = 1

		require.Equal(t, Mask(1)<<21, Pack(g))
		require.Equal(t, uint8(1), Unpack(Mask(1)<<21)[2][5])
	})

	t.Run("any non-zero entry counts as occupied", func(t *testing.T) {
		var g Grid
		g[0][0] = 7

		require.Equal(t, Mask(1), Pack(g))
		require.Equal(t, uint8(1), Unpack(Pack(g))[0][0])
	})
}

func TestNotation(t *testing.T) {
	require.Equal(t, "a1", Notation(0))
	require.Equal(t, "h1", Notation(7))
	require.Equal(t, "a2", Notation(8))
	require.Equal(t, "h8", Notation(63))
	require.Equal(t, "pass", Notation(PassAction))

	for i := 0; i < Cells; i++ {
		got, err := ParseNotation(Notation(i))
		require.NoError(t, err)
		require.Equal(t, i, got)
	}

	got, err := ParseNotation(" D3 ")
	require.NoError(t, err)
	require.Equal(t, Index(2, 3), got)

	for _, bad := range []string{"", "a", "a0", "i1", "a9", "pass", "11"} {
		_, err := ParseNotation(bad)
		require.Error(t, err, bad)
	}
}
