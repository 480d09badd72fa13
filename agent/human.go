package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reversi/experiments/metrics"
	"reversi/game"
)

type humanAgent struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewHumanAgent reads moves such as "d3" or "19" line by line from in, prompting on
// out. Illegal input is reported and asked for again.
func NewHumanAgent(in io.Reader, out io.Writer) Agent {
	return &humanAgent{in: bufio.NewScanner(in), out: out}
}

func (a *humanAgent) FindMove(ctx context.Context, position game.Position, _ []int) (int, metrics.SearchMetric, error) {
	moves := position.Moves()
	if moves == 0 {
		return 0, metrics.SearchMetric{}, ErrNoMoves
	}

	names := make([]string, 0, moves.Count())
	for _, cell := range moves.Cells() {
		names = append(names, game.Notation(cell))
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, metrics.SearchMetric{}, err
		}
		fmt.Fprintf(a.out, "your move (%s): ", strings.Join(names, " "))

		if !a.in.Scan() {
			if err := a.in.Err(); err != nil {
				return 0, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return 0, metrics.SearchMetric{}, io.ErrUnexpectedEOF
		}

		cell, err := parseCell(a.in.Text())
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		if !position.IsLegal(cell) {
			fmt.Fprintf(a.out, "%s is not a legal move\n", game.Notation(cell))
			continue
		}
		return cell, metrics.SearchMetric{}, nil
	}
}

func parseCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if index, err := strconv.Atoi(s); err == nil {
		if index < 0 || index >= game.Cells {
			return 0, fmt.Errorf("cell %d is outside the board", index)
		}
		return index, nil
	}
	return game.ParseNotation(s)
}
