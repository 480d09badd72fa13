package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Centre cells of the standard opening. The first mover owns d4 and e5.
var (
	firstDisks  = Mask(1)<<Index(3, 3) | Mask(1)<<Index(4, 4)
	secondDisks = Mask(1)<<Index(3, 4) | Mask(1)<<Index(4, 3)
)

// InitialLayout returns the standard four-disk opening from the first mover's side,
// with the given number of obstacles dropped uniformly on the remaining 60 cells.
func InitialLayout(obstacles int, rng *rand.Rand) (Position, error) {
	free := (^(firstDisks | secondDisks)).Cells()
	if obstacles < 0 || obstacles > len(free) {
		return Position{}, fmt.Errorf("%d obstacles on %d free cells: %w", obstacles, len(free), ErrTooManyObstacles)
	}

	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	var placed Mask
	for i := 0; i < obstacles; i++ {
		j := i + rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
		placed |= Mask(1) << free[i]
	}

	return Position{Own: firstDisks, Opponent: secondDisks, Obstacles: placed}, nil
}
