package searcher

import (
	"reversi/game"

	"golang.org/x/exp/rand"
)

// RolloutEvaluator plays uniformly random moves to the end of the game. It is not safe
// for concurrent use; give each search its own.
type RolloutEvaluator struct {
	rng *rand.Rand
}

func NewRolloutEvaluator(seed uint64) *RolloutEvaluator {
	return &RolloutEvaluator{rng: rand.New(rand.NewSource(seed))}
}

// Evaluate returns uniform priors and a single rollout result.
func (r *RolloutEvaluator) Evaluate(position game.Position) (game.Priors, float64, error) {
	return game.UniformPriors(), r.Rollout(position), nil
}

// Rollout returns 1, 0.5 or 0 from the side to move in position.
func (r *RolloutEvaluator) Rollout(position game.Position) float64 {
	own, opponent, obstacles := position.Own, position.Opponent, position.Obstacles
	swapped := false

	for {
		moves := game.LegalMoves(own, opponent, obstacles)
		if moves == 0 {
			if game.LegalMoves(opponent, own, obstacles) == 0 {
				break
			}
		} else {
			cell := moves.Nth(r.rng.Intn(moves.Count()))
			own, opponent = game.ResolveMove(own, opponent, cell)
		}
		own, opponent = opponent, own
		swapped = !swapped
	}

	outcome := game.OutcomeOf(game.Score(own, opponent))
	if swapped {
		return 1 - outcome
	}
	return outcome
}
