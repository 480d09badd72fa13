package searcher

import "reversi/game"

// tree is an arena of nodes. The root always lives at rootID; children are reachable
// only through their parent's edges, so anything not copied by reroot is garbage.
type tree struct {
	nodes []node
}

func newTree(position game.Position) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.add(position, noNode, -1, 0, 1)
	return t
}

func (t *tree) add(position game.Position, parent NodeID, action int, turn uint8, prior float64) NodeID {
	t.nodes = append(t.nodes, node{
		position: position,
		parent:   parent,
		action:   action,
		turn:     turn,
		prior:    prior,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *tree) root() *node {
	return &t.nodes[rootID]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// child returns the child reached by action, or noNode when it was never created.
func (t *tree) child(id NodeID, action int) NodeID {
	for _, e := range t.nodes[id].children {
		if e.action == action {
			return e.id
		}
		if e.action > action {
			break
		}
	}
	return noNode
}

// reroot makes id the new root and compacts the arena down to its subtree. Statistics
// are copied untouched.
func (t *tree) reroot(id NodeID) {
	if id == rootID {
		return
	}

	old := t.nodes
	nodes := make([]node, 0, len(old))
	nodes = append(nodes, old[id])
	nodes[rootID].parent = noNode
	nodes[rootID].action = -1

	// Breadth first: every copied node rewrites its edges to the new IDs. The edge
	// slices are shared with the old arena, which is dropped afterwards.
	for i := 0; i < len(nodes); i++ {
		children := nodes[i].children
		for k, e := range children {
			child := old[e.id]
			child.parent = NodeID(i)
			nodes = append(nodes, child)
			children[k].id = NodeID(len(nodes) - 1)
		}
	}

	t.nodes = nodes
}
