package searcher

import "reversi/game"

// Stats describes one node. Q is the mean value for the player who chose Action.
type Stats struct {
	Action int
	Visits int
	Q      float64
	Prior  float64
}

// Snapshot is a copy of the root statistics that is safe to hand to another goroutine.
type Snapshot struct {
	Simulations int // Simulations run by the search that took the snapshot
	Position    game.Position
	Visits      int
	Value       float64 // Root value for its side to move
	Children    []Stats
	PV          []int
	Size        int
}

func (m *MCTS) Snapshot(simulations int) Snapshot {
	return Snapshot{
		Simulations: simulations,
		Position:    m.Position(),
		Visits:      m.tree.root().visits,
		Value:       m.Value(),
		Children:    m.Children(),
		PV:          m.PV(),
		Size:        m.Size(),
	}
}

func (m *MCTS) Position() game.Position {
	return m.tree.root().position
}

func (m *MCTS) Root() Stats {
	return statsOf(m.tree.root())
}

// Value is the root's mean value for its side to move, 0.5 before any visit.
func (m *MCTS) Value() float64 {
	root := m.tree.root()
	if root.terminal {
		return root.position.Outcome()
	}
	if root.visits == 0 {
		return 0.5
	}
	return 1 - root.q()
}

// Children lists the root's children in ascending action order.
func (m *MCTS) Children() []Stats {
	edges := m.tree.root().children
	stats := make([]Stats, 0, len(edges))
	for _, e := range edges {
		stats = append(stats, statsOf(&m.tree.nodes[e.id]))
	}
	return stats
}

// Policy maps each root action to its visit count.
func (m *MCTS) Policy() map[int]float64 {
	policy := make(map[int]float64, len(m.tree.root().children))
	for _, s := range m.Children() {
		policy[s.Action] = float64(s.Visits)
	}
	return policy
}

// PV follows the most visited child from the root while it has been visited.
func (m *MCTS) PV() []int {
	var pv []int
	id := rootID
	for len(m.tree.nodes[id].children) > 0 {
		id = mostVisited(m.tree, id)
		if m.tree.nodes[id].visits == 0 {
			break
		}
		pv = append(pv, m.tree.nodes[id].action)
	}
	return pv
}

func (m *MCTS) Size() int {
	if m.tree == nil {
		return 0
	}
	return m.tree.size()
}

func statsOf(n *node) Stats {
	return Stats{
		Action: n.action,
		Visits: n.visits,
		Q:      n.q(),
		Prior:  n.prior,
	}
}
