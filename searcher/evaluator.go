package searcher

import "reversi/game"

// Evaluator scores a position for its side to move: priors over the 65 actions
// (ignored entries may hold anything) and a value in [0, 1], where 1 is a certain win.
type Evaluator interface {
	Evaluate(position game.Position) (game.Priors, float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(position game.Position) (game.Priors, float64, error)

func (f EvaluatorFunc) Evaluate(position game.Position) (game.Priors, float64, error) {
	return f(position)
}
