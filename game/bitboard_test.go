package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// compass steps matching the order of the directions table
var steps = [8][2]int{
	{0, -1},  // west
	{-1, -1}, // north-west
	{-1, 0},  // north
	{-1, 1},  // north-east
	{0, 1},   // east
	{1, 1},   // south-east
	{1, 0},   // south
	{1, -1},  // south-west
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// referenceMoves walks every line cell by cell.
func referenceMoves(own, opponent, obstacles Mask) Mask {
	var moves Mask
	for i := 0; i < Cells; i++ {
		if (own | opponent | obstacles).Has(i) {
			continue
		}
		if len(referenceFlips(own, opponent, i)) > 0 {
			moves |= Mask(1) << i
		}
	}
	return moves
}

func referenceFlips(own, opponent Mask, index int) []int {
	var flips []int
	row, col := RowCol(index)
	for _, s := range steps {
		var run []int
		r, c := row+s[0], col+s[1]
		for onBoard(r, c) && opponent.Has(Index(r, c)) {
			run = append(run, Index(r, c))
			r, c = r+s[0], c+s[1]
		}
		if len(run) > 0 && onBoard(r, c) && own.Has(Index(r, c)) {
			flips = append(flips, run...)
		}
	}
	return flips
}

// randomBoard gives every cell one of four states with equal odds.
func randomBoard(rng *rand.Rand) (own, opponent, obstacles Mask) {
	for i := 0; i < Cells; i++ {
		bit := Mask(1) << i
		switch rng.Intn(4) {
		case 0:
			own |= bit
		case 1:
			opponent |= bit
		case 2:
			if rng.Intn(4) == 0 {
				obstacles |= bit
			}
		}
	}
	return own, opponent, obstacles
}

func TestDirectionTable(t *testing.T) {
	t.Run("every cell shifts one step or falls off the board", func(t *testing.T) {
		for i := 0; i < Cells; i++ {
			row, col := RowCol(i)
			for d, dir := range directions {
				got := dir.shift(Mask(1) << i)

				r, c := row+steps[d][0], col+steps[d][1]
				var want Mask
				if onBoard(r, c) {
					want = Mask(1) << Index(r, c)
				}
				require.Equal(t, want, got, "cell %s direction %d", Notation(i), d)
			}
		}
	})

	t.Run("full board keeps exactly the cells with a neighbour", func(t *testing.T) {
		full := ^Mask(0)
		for d, dir := range directions {
			want := 0
			for i := 0; i < Cells; i++ {
				row, col := RowCol(i)
				if onBoard(row-steps[d][0], col-steps[d][1]) {
					want++
				}
			}
			require.Equal(t, want, dir.shift(full).Count(), "direction %d", d)
		}
	})
}

func TestLegalMoves(t *testing.T) {
	t.Run("single capture along a row", func(t *testing.T) {
		require.Equal(t, Mask(4), LegalMoves(1, 2, 8))
	})

	t.Run("obstacle blocks the landing cell", func(t *testing.T) {
		require.Equal(t, Mask(0), LegalMoves(1, 2, 4))
	})

	t.Run("standard opening", func(t *testing.T) {
		p, err := InitialLayout(0, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		got := LegalMoves(p.Own, p.Opponent, p.Obstacles)

		require.Equal(t, []int{Index(2, 4), Index(3, 5), Index(4, 2), Index(5, 3)}, got.Cells())
	})

	t.Run("longest run of six disks", func(t *testing.T) {
		own := Mask(1) << Index(0, 0)
		var opponent Mask
		for col := 1; col <= 6; col++ {
			opponent |= Mask(1) << Index(0, col)
		}

		require.Equal(t, Mask(1)<<Index(0, 7), LegalMoves(own, opponent, 0))
	})

	t.Run("does not wrap around the east edge", func(t *testing.T) {
		own := Mask(1) << Index(0, 6)
		opponent := Mask(1) << Index(0, 7)

		require.Zero(t, LegalMoves(own, opponent, 0))
	})

	t.Run("panics on overlapping masks", func(t *testing.T) {
		require.Panics(t, func() {
			LegalMoves(3, 2, 0)
		})
	})

	t.Run("never targets an occupied or blocked cell and matches the reference", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for n := 0; n < 2000; n++ {
			own, opponent, obstacles := randomBoard(rng)

			got := LegalMoves(own, opponent, obstacles)

			require.Zero(t, got&(own|opponent|obstacles))
			require.Equal(t, referenceMoves(own, opponent, obstacles), got,
				"\n%s", Format(own, opponent, obstacles))
		}
	})
}

func TestResolveMove(t *testing.T) {
	t.Run("captures the bracketed disk", func(t *testing.T) {
		own, opponent := ResolveMove(1, 2, 2)

		require.Equal(t, Mask(7), own)
		require.Equal(t, Mask(0), opponent)
	})

	t.Run("captures in several directions at once", func(t *testing.T) {
		// x o . o x on row 0 plus a column below the empty cell
		board := "" +
			"xo.ox...\n" +
			"..o.....\n" +
			"..x.....\n" +
			"........\n" +
			"........\n" +
			"........\n" +
			"........\n" +
			"........\n"
		own, opponent, _, err := Parse(board)
		require.NoError(t, err)

		newOwn, newOpponent := ResolveMove(own, opponent, Index(0, 2))

		require.Zero(t, newOpponent)
		require.Equal(t, 7, newOwn.Count())
	})

	t.Run("conserves disks and flips only opponent disks", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for n := 0; n < 2000; n++ {
			own, opponent, obstacles := randomBoard(rng)
			for _, move := range LegalMoves(own, opponent, obstacles).Cells() {
				newOwn, newOpponent := ResolveMove(own, opponent, move)

				flipped := newOwn &^ own &^ (Mask(1) << move)
				require.NotZero(t, flipped)
				require.Equal(t, flipped, opponent&^newOpponent)
				require.Zero(t, newOwn&newOpponent)
				require.Zero(t, (newOwn|newOpponent)&obstacles)
				require.Equal(t, own.Count()+opponent.Count()+1, newOwn.Count()+newOpponent.Count())
				require.ElementsMatch(t, referenceFlips(own, opponent, move), flipped.Cells())
			}
		}
	})

	t.Run("panics on invariant violations", func(t *testing.T) {
		require.Panics(t, func() { ResolveMove(1, 2, -1) }, "out of range")
		require.Panics(t, func() { ResolveMove(1, 2, 64) }, "out of range")
		require.Panics(t, func() { ResolveMove(1, 2, 1) }, "occupied target")
		require.Panics(t, func() { ResolveMove(3, 2, 2) }, "overlapping masks")
		require.Panics(t, func() { ResolveMove(1, 2, 40) }, "no capture")
	})
}

func TestIsTerminated(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		require.True(t, IsTerminated(0, 0, 0))
	})

	t.Run("neither side can move", func(t *testing.T) {
		own := Mask(1)
		opponent := Mask(1) << 63

		require.Zero(t, LegalMoves(own, opponent, 0))
		require.Zero(t, LegalMoves(opponent, own, 0))
		require.True(t, IsTerminated(own, opponent, 0))
	})

	t.Run("only one side can move", func(t *testing.T) {
		require.NotZero(t, LegalMoves(1, 2, 8))
		require.Zero(t, LegalMoves(2, 1, 8))
		require.False(t, IsTerminated(1, 2, 8))
		require.False(t, IsTerminated(2, 1, 8))
	})

	t.Run("matches both move masks on random boards", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for n := 0; n < 500; n++ {
			own, opponent, obstacles := randomBoard(rng)
			want := LegalMoves(own, opponent, obstacles) == 0 && LegalMoves(opponent, own, obstacles) == 0
			require.Equal(t, want, IsTerminated(own, opponent, obstacles))
		}
	})
}

func TestScore(t *testing.T) {
	require.Equal(t, 1, Score(7, 12))
	require.Equal(t, 0, Score(1, 2))
	require.Equal(t, -3, Score(0, 7))

	require.Equal(t, 1.0, OutcomeOf(4))
	require.Equal(t, 0.5, OutcomeOf(0))
	require.Equal(t, 0.0, OutcomeOf(-1))
}

func TestMaskHelpers(t *testing.T) {
	m := Mask(1)<<3 | Mask(1)<<17 | Mask(1)<<63

	require.Equal(t, 3, m.Count())
	require.Equal(t, []int{3, 17, 63}, m.Cells())
	require.Equal(t, 17, m.Nth(1))
	require.Equal(t, 63, m.Nth(2))
	require.Equal(t, -1, m.Nth(3))
	require.True(t, m.Has(63))
	require.False(t, m.Has(4))
	require.Empty(t, Mask(0).Cells())
}
