package diffgrowth

import "gonum.org/v1/gonum/spatial/r2"

// A Node is a single growth point of a Path.
//
// Forces only ever write Target. Step then eases Pos toward Target,
// so there is no velocity carried from one tick to the next
// beyond the lag of repeated interpolations.
type Node struct {
	Pos    r2.Vec // current position
	Target r2.Vec // proposed position for the current tick
	Fixed  bool   // anchors never move

	// Per-node overrides. Zero means "use the owning path's settings".
	MinDistance     float64
	RepulsionRadius float64
}

// NewNode returns a movable node at p.
func NewNode(p r2.Vec) *Node {
	return &Node{Pos: p, Target: p}
}

// NewFixedNode returns an anchor node at p.
func NewFixedNode(p r2.Vec) *Node {
	return &Node{Pos: p, Target: p, Fixed: true}
}

// Step moves the node a fraction maxVelocity of the way to its target
// and consumes the target.
func (n *Node) Step(maxVelocity float64) {
	if n.Fixed {
		return
	}
	n.Pos = Lerp(n.Pos, n.Target, maxVelocity)
	n.Target = n.Pos
}

// moveTo teleports the node, target included.
func (n *Node) moveTo(p r2.Vec) {
	n.Pos = p
	n.Target = p
}
