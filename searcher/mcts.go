package searcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"reversi/experiments/metrics"
	"reversi/game"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

var (
	ErrTerminal     = errors.New("position is terminal")
	ErrNoBudget     = errors.New("must specify search simulations or duration")
	ErrInvalidValue = errors.New("evaluation outside [0, 1]")
)

type Option func(mcts *MCTS)

// Listener receives a snapshot of the root statistics on the searching goroutine.
type Listener func(Snapshot)

type MCTS struct {
	simulations int
	duration    time.Duration
	exploration float64
	evaluator   Evaluator
	metrics     metrics.Collector
	listener    Listener
	listenEvery int
	tree        *tree
}

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithEvaluator(evaluator Evaluator) Option {
	return func(m *MCTS) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithListener calls fn every n simulations, and once more when an analysis stops.
func WithListener(n int, fn Listener) Option {
	return func(m *MCTS) {
		if n > 0 && fn != nil {
			m.listenEvery = n
			m.listener = fn
		}
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		exploration: DefaultExploration,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.evaluator == nil {
		m.evaluator = NewRolloutEvaluator(frand.Uint64n(math.MaxUint64))
	}
	return m
}

// Reset discards the tree and starts a new one at position. The root is expanded
// straight away, without counting a visit.
func (m *MCTS) Reset(position game.Position) error {
	if err := position.Validate(); err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	t := newTree(position)
	if err := m.prepareRoot(t); err != nil {
		return err
	}

	m.tree = t
	m.metrics.SetTreeReset(true)
	return nil
}

// prepareRoot expands a root that has not been expanded yet, or marks it terminal.
// A root reached by Commit may still be a frontier node.
func (m *MCTS) prepareRoot(t *tree) error {
	root := t.root()
	if root.expanded || root.terminal {
		return nil
	}
	if root.position.Terminal() {
		root.terminal = true
		return nil
	}

	priors, _, err := m.evaluate(root.position)
	if err != nil {
		return err
	}
	expand(t, rootID, priors)
	return nil
}

// ChooseMove searches position within the configured budget and returns the root
// action with the most visits. The tree is reused when its root already holds position.
func (m *MCTS) ChooseMove(ctx context.Context, position game.Position) (int, metrics.SearchMetric, error) {
	if m.simulations <= 0 && m.duration <= 0 {
		return 0, metrics.SearchMetric{}, ErrNoBudget
	}

	if m.tree != nil && m.tree.root().position == position {
		if err := m.prepareRoot(m.tree); err != nil {
			return 0, metrics.SearchMetric{}, err
		}
		m.metrics.SetTreeReset(false)
	} else if err := m.Reset(position); err != nil {
		return 0, metrics.SearchMetric{}, err
	}
	if m.tree.root().terminal {
		return 0, metrics.SearchMetric{}, ErrTerminal
	}

	m.metrics.Start()
	start := time.Now()
	if err := m.Search(ctx); err != nil {
		return 0, metrics.SearchMetric{}, err
	}
	metric := m.metrics.Complete(m.tree.size())

	action := m.BestAction()
	log.Debug().
		Str("action", game.Notation(action)).
		Int("visits", m.tree.root().visits).
		Int("tree", m.tree.size()).
		Dur("elapsed", time.Since(start)).
		Msg("search complete")

	return action, metric, nil
}

// Search runs simulations until the simulation count or the duration runs out,
// whichever comes first. A cancelled context stops it early without error.
func (m *MCTS) Search(ctx context.Context) error {
	if m.tree == nil {
		panic("search before reset")
	}

	start := time.Now()
	for count := 0; ; count++ {
		if m.simulations > 0 && count >= m.simulations {
			return nil
		}
		if m.duration > 0 && time.Since(start) >= m.duration {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := m.simulate(); err != nil {
			return err
		}
		m.notify(count + 1)
	}
}

// Analyse searches the current root until ctx is cancelled. The simulation in flight
// always completes, so the tree is consistent when it returns.
func (m *MCTS) Analyse(ctx context.Context) error {
	if m.tree == nil {
		panic("analyse before reset")
	}
	if err := m.prepareRoot(m.tree); err != nil {
		return err
	}
	if m.tree.root().terminal {
		return ErrTerminal
	}

	count := 0
	for ctx.Err() == nil {
		if err := m.simulate(); err != nil {
			return err
		}
		count++
		m.notify(count)
	}

	if m.listener != nil {
		m.listener(m.Snapshot(count))
	}
	return nil
}

func (m *MCTS) notify(count int) {
	if m.listener != nil && count%m.listenEvery == 0 {
		m.listener(m.Snapshot(count))
	}
}

// simulate runs one select, expand, evaluate and backup pass. A failed evaluation
// returns before anything in the tree changes.
func (m *MCTS) simulate() error {
	t := m.tree

	id := rootID
	for t.nodes[id].expanded {
		id = m.selectChild(id)
	}

	n := &t.nodes[id]
	if !n.terminal && n.position.Terminal() {
		n.terminal = true
	}

	var value float64
	if n.terminal {
		value = n.position.Outcome()
		m.metrics.AddTerminalVisit()
	} else {
		priors, v, err := m.evaluate(n.position)
		if err != nil {
			return err
		}
		value = v
		expand(t, id, priors)
	}

	backup(t, id, value)
	m.metrics.AddSimulation()
	return nil
}

func (m *MCTS) evaluate(position game.Position) (game.Priors, float64, error) {
	priors, value, err := m.evaluator.Evaluate(position)
	if err != nil {
		return priors, 0, fmt.Errorf("evaluate position: %w", err)
	}
	if math.IsNaN(value) || value < 0 || value > 1 {
		return priors, 0, fmt.Errorf("evaluate position: got %v: %w", value, ErrInvalidValue)
	}
	return priors, value, nil
}

// selectChild returns the child with the highest PUCT score. Ties go to the lowest action.
func (m *MCTS) selectChild(id NodeID) NodeID {
	t := m.tree
	children := t.nodes[id].children
	if len(children) == 0 {
		panic("expanded node has no children")
	}

	total := 0
	for _, e := range children {
		total += t.nodes[e.id].visits
	}
	policy := newPUCT(m.exploration, total)

	best := noNode
	bestScore := math.Inf(-1)
	for _, e := range children {
		child := &t.nodes[e.id]
		score := policy.evaluate(child.q(), child.prior, child.visits)
		if score > bestScore {
			bestScore = score
			best = e.id
		}
	}
	return best
}

// expand creates one child per legal move, or a single pass child when only the
// opponent can move.
func expand(t *tree, id NodeID, priors game.Priors) {
	position := t.nodes[id].position
	turn := t.nodes[id].turn ^ 1

	var children []edge
	moves := position.Moves()
	if moves == 0 {
		child := game.Position{Own: position.Opponent, Opponent: position.Own, Obstacles: position.Obstacles}
		children = []edge{{action: game.PassAction, id: t.add(child, id, game.PassAction, turn, priors[game.PassAction])}}
	} else {
		children = make([]edge, 0, moves.Count())
		for _, cell := range moves.Cells() {
			own, opponent := game.ResolveMove(position.Own, position.Opponent, cell)
			child := game.Position{Own: opponent, Opponent: own, Obstacles: position.Obstacles}
			children = append(children, edge{action: cell, id: t.add(child, id, cell, turn, priors[cell])})
		}
	}

	// Appending may have moved the arena, so index again.
	t.nodes[id].children = children
	t.nodes[id].expanded = true
}

// backup walks from the evaluated node up to the root. value is from the evaluated
// node's side to move, and each node stores it for the side that moved into it.
func backup(t *tree, id NodeID, value float64) {
	turn := t.nodes[id].turn
	for id != noNode {
		n := &t.nodes[id]
		n.visits++
		if n.turn == turn {
			n.value += 1 - value
		} else {
			n.value += value
		}
		id = n.parent
	}
}

// BestAction returns the root child with the most visits, ties to the lowest action.
func (m *MCTS) BestAction() int {
	if m.tree == nil {
		panic("no search tree")
	}
	return m.tree.nodes[mostVisited(m.tree, rootID)].action
}

func mostVisited(t *tree, id NodeID) NodeID {
	children := t.nodes[id].children
	if len(children) == 0 {
		panic("node has no children")
	}

	best := children[0].id
	for _, e := range children[1:] {
		if t.nodes[e.id].visits > t.nodes[best].visits {
			best = e.id
		}
	}
	return best
}

// Commit moves the root to the child reached by action, keeping its subtree. When the
// child was never created the tree is dropped and false is returned.
func (m *MCTS) Commit(action int) bool {
	if m.tree == nil {
		return false
	}
	child := m.tree.child(rootID, action)
	if child == noNode {
		m.tree = nil
		return false
	}
	m.tree.reroot(child)
	return true
}

// CommitPath commits every action played since the last search, own moves and
// opponent replies alike.
func (m *MCTS) CommitPath(actions []int) bool {
	if m.tree == nil {
		return false
	}
	for _, action := range actions {
		if !m.Commit(action) {
			log.Warn().Msgf("action %s was never expanded, dropping the search tree", game.Notation(action))
			return false
		}
	}
	return true
}
