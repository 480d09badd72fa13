package experiments

import (
	"errors"
	"fmt"
	"sync"

	"reversi/agent"
	"reversi/experiments/metrics"
	"reversi/model"
	"reversi/searcher"
)

var ErrUnknownAgent = errors.New("unknown agent kind")

// Factory builds a fresh agent for one game.
type Factory func(config metrics.AgentConfig, seed uint64) (agent.Agent, error)

// Builder creates agents by kind. Model agents share one evaluator, which is opened on
// first use.
type Builder struct {
	Model       model.Config
	Temperature float64

	once      sync.Once
	evaluator *model.Evaluator
	err       error
}

func (b *Builder) Agent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case "mcts":
		return agent.NewEvaluationAgent(createMCTS(config, searcher.NewRolloutEvaluator(seed))), nil
	case "training":
		temperature := b.Temperature
		if temperature <= 0 {
			temperature = 1
		}
		return agent.NewTrainingAgent(createMCTS(config, searcher.NewRolloutEvaluator(seed)), temperature, seed), nil
	case "model":
		evaluator, err := b.modelEvaluator()
		if err != nil {
			return nil, err
		}
		return agent.NewEvaluationAgent(createMCTS(config, evaluator)), nil
	case "random":
		return agent.NewRandomAgent(seed), nil
	case "first":
		return agent.NewFirstAgent(), nil
	default:
		return nil, fmt.Errorf("%q: %w", config.Kind, ErrUnknownAgent)
	}
}

func (b *Builder) modelEvaluator() (*model.Evaluator, error) {
	b.once.Do(func() {
		b.evaluator, b.err = model.NewEvaluator(b.Model)
		if b.err != nil {
			b.err = fmt.Errorf("failed to open model: %w", b.err)
		}
	})
	return b.evaluator, b.err
}

// Close releases the shared model evaluator, if one was opened.
func (b *Builder) Close() {
	if b.evaluator != nil {
		b.evaluator.Close()
	}
}

func createMCTS(config metrics.AgentConfig, evaluator searcher.Evaluator) *searcher.MCTS {
	options := []searcher.Option{searcher.WithEvaluator(evaluator)}

	if config.Simulations > 0 {
		options = append(options, searcher.WithSimulations(config.Simulations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
