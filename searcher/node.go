package searcher

import "reversi/game"

// NodeID addresses a node inside the tree arena. IDs are only stable until the next
// re-root, which compacts the arena.
type NodeID int32

const (
	noNode NodeID = -1
	rootID NodeID = 0
)

type edge struct {
	action int
	id     NodeID
}

type node struct {
	position game.Position
	parent   NodeID
	action   int   // Action that led here from the parent
	turn     uint8 // Parity of the side to move, flips every ply
	visits   int
	value    float64 // Sum of backed up values for the side that moved into this node
	prior    float64
	expanded bool
	terminal bool
	children []edge // Ascending by action
}

// q is the mean value for the player who chose the action leading to this node.
func (n *node) q() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.value / float64(n.visits)
}
