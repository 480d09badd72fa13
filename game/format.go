package game

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	SymbolOwn      = 'x'
	SymbolOpponent = 'o'
	SymbolObstacle = '#'
	SymbolEmpty    = '.'
)

// Format draws the three masks as 8 lines of 8 symbols, row 1 first.
func Format(own, opponent, obstacles Mask) string {
	var sb strings.Builder
	sb.Grow(Cells + Size)
	for i := 0; i < Cells; i++ {
		switch {
		case own.Has(i):
			sb.WriteByte(SymbolOwn)
		case opponent.Has(i):
			sb.WriteByte(SymbolOpponent)
		case obstacles.Has(i):
			sb.WriteByte(SymbolObstacle)
		default:
			sb.WriteByte(SymbolEmpty)
		}
		if i%Size == Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Parse reads the Format layout back. Whitespace is ignored, so rows may be laid out
// freely as long as 64 symbols remain.
func Parse(s string) (own, opponent, obstacles Mask, err error) {
	i := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if i >= Cells {
			return 0, 0, 0, fmt.Errorf("board has more than %d cells", Cells)
		}
		bit := Mask(1) << i
		switch r {
		case SymbolOwn:
			own |= bit
		case SymbolOpponent:
			opponent |= bit
		case SymbolObstacle:
			obstacles |= bit
		case SymbolEmpty:
		default:
			return 0, 0, 0, fmt.Errorf("unexpected symbol %q at cell %d", r, i)
		}
		i++
	}
	if i != Cells {
		return 0, 0, 0, fmt.Errorf("board has %d cells, want %d", i, Cells)
	}
	return own, opponent, obstacles, nil
}
