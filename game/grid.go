package game

import (
	"fmt"
	"strings"
)

// Grid is an 8x8 occupancy array indexed [row][col]; non-zero means occupied.
type Grid [Size][Size]uint8

func Index(row, col int) int {
	return row*Size + col
}

func RowCol(index int) (row, col int) {
	return index / Size, index % Size
}

// Pack converts an occupancy grid into a mask.
func Pack(g Grid) Mask {
	var m Mask
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] != 0 {
				m |= Mask(1) << Index(row, col)
			}
		}
	}
	return m
}

// Unpack converts a mask into an occupancy grid of 0s and 1s.
func Unpack(m Mask) Grid {
	var g Grid
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			g[row][col] = uint8(m >> Index(row, col) & 1)
		}
	}
	return g
}

// Notation names a cell the usual way: column letter then row number, "a1" is cell 0.
func Notation(index int) string {
	if index < 0 || index >= Cells {
		return "pass"
	}
	row, col := RowCol(index)
	return fmt.Sprintf("%c%d", 'a'+col, row+1)
}

// ParseNotation accepts "d3"-style names.
func ParseNotation(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid cell %q", s)
	}
	col := int(s[0] - 'a')
	row := int(s[1] - '1')
	if col < 0 || col >= Size || row < 0 || row >= Size {
		return 0, fmt.Errorf("invalid cell %q", s)
	}
	return Index(row, col), nil
}
