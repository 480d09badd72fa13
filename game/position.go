package game

import (
	"errors"
	"fmt"
)

const (
	// PassAction is the tree action for a forced pass. Cell actions are 0..63.
	PassAction = Cells
	NumActions = Cells + 1
)

var (
	ErrOverlap          = errors.New("masks overlap")
	ErrIllegalMove      = errors.New("illegal move")
	ErrTooManyObstacles = errors.New("too many obstacles")
)

// Priors holds one probability per action, pass last.
type Priors [NumActions]float64

// UniformPriors gives every action a prior of 1, which turns the selection bonus into
// a plain visit-count balance.
func UniformPriors() Priors {
	var p Priors
	for i := range p {
		p[i] = 1
	}
	return p
}

// Position is the board seen from the side to move. It is a value: Play and Pass
// return new positions with the roles swapped.
type Position struct {
	Own       Mask
	Opponent  Mask
	Obstacles Mask
}

// NewPosition validates an externally supplied (own, opponent, obstacles) triple.
func NewPosition(own, opponent, obstacles uint64) (Position, error) {
	p := Position{Own: Mask(own), Opponent: Mask(opponent), Obstacles: Mask(obstacles)}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

func (p Position) Validate() error {
	if p.Own&p.Opponent != 0 {
		return fmt.Errorf("own and opponent: %w", ErrOverlap)
	}
	if (p.Own|p.Opponent)&p.Obstacles != 0 {
		return fmt.Errorf("disks and obstacles: %w", ErrOverlap)
	}
	return nil
}

func (p Position) Moves() Mask {
	return LegalMoves(p.Own, p.Opponent, p.Obstacles)
}

func (p Position) OpponentMoves() Mask {
	return LegalMoves(p.Opponent, p.Own, p.Obstacles)
}

func (p Position) IsLegal(index int) bool {
	return index >= 0 && index < Cells && p.Moves().Has(index)
}

// MustPass reports whether the side to move has no move while the opponent has one.
func (p Position) MustPass() bool {
	return p.Moves() == 0 && p.OpponentMoves() != 0
}

func (p Position) Terminal() bool {
	return IsTerminated(p.Own, p.Opponent, p.Obstacles)
}

// Play applies a legal cell move. An illegal index is a programming error.
func (p Position) Play(index int) Position {
	if !p.IsLegal(index) {
		panic(fmt.Sprintf("game: move %s is not legal", Notation(index)))
	}
	own, opponent := ResolveMove(p.Own, p.Opponent, index)
	return Position{Own: opponent, Opponent: own, Obstacles: p.Obstacles}
}

// Pass hands the turn over without touching the board. Passing with a legal move
// available is a programming error.
func (p Position) Pass() Position {
	if p.Moves() != 0 {
		panic("game: pass with legal moves available")
	}
	return Position{Own: p.Opponent, Opponent: p.Own, Obstacles: p.Obstacles}
}

// Apply plays a tree action: a cell index or PassAction.
func (p Position) Apply(action int) Position {
	if action == PassAction {
		return p.Pass()
	}
	return p.Play(action)
}

func (p Position) Score() int {
	return Score(p.Own, p.Opponent)
}

// Outcome maps the disk difference to 1, 0.5 or 0 for the side to move.
func (p Position) Outcome() float64 {
	return OutcomeOf(p.Score())
}

func (p Position) Empty() Mask {
	return ^(p.Own | p.Opponent | p.Obstacles)
}

func (p Position) String() string {
	return Format(p.Own, p.Opponent, p.Obstacles)
}
