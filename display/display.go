package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"reversi/game"
	"reversi/searcher"

	"github.com/muesli/termenv"
)

const (
	colorFirst    = "#87CEFA" // light sky blue
	colorSecond   = "#FFA07A" // light salmon
	colorObstacle = "#4D4D4D"
	colorMove     = "#FFFFE0"
	colorBest     = "#FFFF00"
)

// Renderer draws boards and search statistics for a terminal. Boards are always drawn
// from the first mover's side: X moves first, O second.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, options ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, options...)}
}

func (r *Renderer) paint(s, color string) string {
	return r.out.String(s).Foreground(r.out.Color(color)).String()
}

// Board draws position with legal moves marked. firstToMove tells whose disks Own holds.
func (r *Renderer) Board(position game.Position, firstToMove bool, best int) string {
	first, second := position.Own, position.Opponent
	if !firstToMove {
		first, second = second, first
	}
	moves := position.Moves()

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < game.Size; row++ {
		fmt.Fprintf(&sb, "%d", row+1)
		for col := 0; col < game.Size; col++ {
			i := game.Index(row, col)
			sb.WriteByte(' ')
			switch {
			case first.Has(i):
				sb.WriteString(r.paint("X", colorFirst))
			case second.Has(i):
				sb.WriteString(r.paint("O", colorSecond))
			case position.Obstacles.Has(i):
				sb.WriteString(r.paint("#", colorObstacle))
			case i == best:
				sb.WriteString(r.paint("@", colorBest))
			case moves.Has(i):
				sb.WriteString(r.paint("*", colorMove))
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	score := first.Count() - second.Count()
	side := "X"
	if !firstToMove {
		side = "O"
	}
	fmt.Fprintf(&sb, "X %d - %d O, %s to move (%+d)\n", first.Count(), second.Count(), side, score)
	return sb.String()
}

// Analysis draws the board with the most visited move highlighted, followed by the
// top root moves and the principal variation.
func (r *Renderer) Analysis(snapshot searcher.Snapshot, firstToMove bool, top int) string {
	best := -1
	if len(snapshot.PV) > 0 {
		best = snapshot.PV[0]
	}

	var sb strings.Builder
	sb.WriteString(r.Board(snapshot.Position, firstToMove, best))
	fmt.Fprintf(&sb, "simulations %d, visits %d, nodes %d, value %.1f%%\n",
		snapshot.Simulations, snapshot.Visits, snapshot.Size, snapshot.Value*100)

	children := append([]searcher.Stats(nil), snapshot.Children...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Visits > children[j].Visits
	})
	if top > 0 && len(children) > top {
		children = children[:top]
	}
	for _, child := range children {
		line := fmt.Sprintf("%-4s %8s %6.1f%% %5.2f", game.Notation(child.Action), visits(child.Visits), child.Q*100, child.Prior)
		if child.Action == best {
			line = r.out.String(line).Bold().String()
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	pv := make([]string, 0, len(snapshot.PV))
	for _, action := range snapshot.PV {
		pv = append(pv, game.Notation(action))
	}
	fmt.Fprintf(&sb, "pv %s\n", strings.Join(pv, " "))
	return sb.String()
}

// Redraw clears the terminal and writes frame.
func (r *Renderer) Redraw(frame string) {
	r.out.ClearScreen()
	fmt.Fprint(r.out, frame)
}

func visits(n int) string {
	if n >= 10000 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return fmt.Sprint(n)
}
