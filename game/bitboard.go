package game

import (
	"fmt"
	"math/bits"
)

// Mask is a set of board cells. Bit i = row*8 + col is set when the cell is occupied
// by the owner of the mask.
type Mask uint64

const (
	Size  = 8
	Cells = Size * Size
)

// direction shifts a mask one step along a compass direction. Exactly one of left and
// right is non-zero, so shift needs no branch; mask clears the bits that wrapped
// around a board edge.
type direction struct {
	left  uint
	right uint
	mask  Mask
}

func (d direction) shift(m Mask) Mask {
	return (m << d.left >> d.right) & d.mask
}

// Rows grow southwards and columns grow eastwards.
var directions = [8]direction{
	{right: 1, mask: 0x7F7F7F7F7F7F7F7F}, // west
	{right: 9, mask: 0x007F7F7F7F7F7F7F}, // north-west
	{right: 8, mask: 0xFFFFFFFFFFFFFFFF}, // north
	{right: 7, mask: 0x00FEFEFEFEFEFEFE}, // north-east
	{left: 1, mask: 0xFEFEFEFEFEFEFEFE},  // east
	{left: 9, mask: 0xFEFEFEFEFEFEFE00},  // south-east
	{left: 8, mask: 0xFFFFFFFFFFFFFFFF},  // south
	{left: 7, mask: 0x7F7F7F7F7F7F7F00},  // south-west
}

// LegalMoves returns the empty, non-obstacle cells where own can place a disk that
// brackets at least one run of opponent disks.
func LegalMoves(own, opponent, obstacles Mask) Mask {
	if own&opponent != 0 {
		panic("game: own and opponent masks overlap")
	}

	empty := ^(own | opponent | obstacles)
	var moves Mask

	for _, d := range directions {
		// Opponent disks adjacent to own disks, then extended along the line. A line
		// holds at most 6 capturable disks.
		x := d.shift(own) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent

		moves |= d.shift(x) & empty
	}

	return moves
}

// ResolveMove places a disk for own at index and flips every bracketed opponent run.
// It panics when the move is out of range, lands on an occupied cell, or captures
// nothing: legality is the caller's job.
func ResolveMove(own, opponent Mask, index int) (Mask, Mask) {
	if index < 0 || index >= Cells {
		panic(fmt.Sprintf("game: move %d is outside the board", index))
	}
	if own&opponent != 0 {
		panic("game: own and opponent masks overlap")
	}

	placed := Mask(1) << index
	if (own|opponent)&placed != 0 {
		panic(fmt.Sprintf("game: cell %d is not empty", index))
	}

	own |= placed
	var captured Mask

	for _, d := range directions {
		x := d.shift(placed) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent
		x |= d.shift(x) & opponent

		// nonZero is 1 when the run is closed by an own disk, 0 otherwise.
		bounding := d.shift(x) & own
		nonZero := (bounding | -bounding) >> 63
		captured |= x & -nonZero
	}

	if captured == 0 {
		panic(fmt.Sprintf("game: move %d captures no disks", index))
	}

	own ^= captured
	opponent ^= captured

	return own, opponent
}

// IsTerminated reports whether neither side has a legal move.
func IsTerminated(own, opponent, obstacles Mask) bool {
	return LegalMoves(own, opponent, obstacles) == 0 && LegalMoves(opponent, own, obstacles) == 0
}

// Score is the disk difference from own's point of view.
func Score(own, opponent Mask) int {
	return own.Count() - opponent.Count()
}

// OutcomeOf maps a final disk difference to a game value: 1 win, 0.5 draw, 0 loss.
func OutcomeOf(score int) float64 {
	switch {
	case score > 0:
		return 1
	case score == 0:
		return 0.5
	default:
		return 0
	}
}

func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

func (m Mask) Has(index int) bool {
	return m&(Mask(1)<<index) != 0
}

// Cells lists the set cells in ascending order.
func (m Mask) Cells() []int {
	cells := make([]int, 0, m.Count())
	for m != 0 {
		cells = append(cells, bits.TrailingZeros64(uint64(m)))
		m &= m - 1
	}
	return cells
}

// Nth returns the k-th set cell (0-based, ascending), or -1 when there are fewer.
func (m Mask) Nth(k int) int {
	for ; m != 0; m &= m - 1 {
		if k == 0 {
			return bits.TrailingZeros64(uint64(m))
		}
		k--
	}
	return -1
}
