package diffgrowth

import (
	"math"
	"slices"

	"cogentcore.org/core/base/randx"
)

// CurvatureThreshold is the angle in degrees, derived from the ratio of the
// lengths of the two edges around a node, below which InjectCurvature
// chamfers the node.
const CurvatureThreshold = 30.0

// SplitEdges inserts a midpoint into every edge at least MaxDistance long,
// as long as the path has fewer than MaxNodes nodes.
// It returns the number of inserted nodes.
func (p *Path) SplitEdges() int {
	if p.SplitMode == SplitDeferred {
		return p.splitEdgesDeferred()
	}
	added := 0
	for i := 0; i < len(p.Nodes); i++ {
		if len(p.Nodes) >= p.Settings.MaxNodes {
			break
		}
		n := p.Nodes[i]
		prev, _ := p.ConnectedNodes(i)
		if prev == nil || Dist(n.Pos, prev.Pos) < p.Settings.MaxDistance {
			continue
		}
		m := p.midpointNode(n, prev)
		if i == 0 {
			// the edge before the first node closes the path
			p.Nodes = append(p.Nodes, m)
		} else {
			p.Nodes = slices.Insert(p.Nodes, i, m)
		}
		added++
	}
	return added
}

// splitEdgesDeferred splits every edge that is too long before the call, once.
func (p *Path) splitEdgesDeferred() int {
	n := len(p.Nodes)
	budget := p.Settings.MaxNodes - n
	long := make([]bool, n)
	for i, v := range p.Nodes {
		prev, _ := p.ConnectedNodes(i)
		long[i] = prev != nil && Dist(v.Pos, prev.Pos) >= p.Settings.MaxDistance
	}
	if budget <= 0 {
		return 0
	}

	var closing *Node
	if n > 0 && long[0] {
		closing = p.midpointNode(p.Nodes[0], p.Nodes[n-1])
		budget--
	}
	out := make([]*Node, 0, n+budget+1)
	for i, v := range p.Nodes {
		if i > 0 && long[i] && budget > 0 {
			out = append(out, p.midpointNode(v, p.Nodes[i-1]))
			budget--
		}
		out = append(out, v)
	}
	if closing != nil {
		out = append(out, closing)
	}
	added := len(out) - n
	p.Nodes = out
	return added
}

// PruneNodes removes the previous node of every node that sits closer than
// MinDistance to it. Fixed nodes are never removed.
// After a removal the same node is examined again against its new previous
// neighbor, and no pair closer than MinDistance survives the pass unless
// its previous node is fixed.
// It returns the number of removed nodes.
func (p *Path) PruneNodes() int {
	removed := 0
	for i := 0; i < len(p.Nodes); i++ {
		n := p.Nodes[i]
		prev, _ := p.ConnectedNodes(i)
		if prev == nil || Dist(n.Pos, prev.Pos) >= math.Min(p.minDistance(n), p.minDistance(prev)) {
			continue
		}
		j := i - 1
		if i == 0 {
			j = len(p.Nodes) - 1
		}
		if p.Nodes[j].Fixed {
			continue
		}
		p.Nodes = slices.Delete(p.Nodes, j, j+1)
		removed++
		if j < i {
			i--
		}
		i--
	}
	return removed
}

// InjectNode grows the path according to its InjectionMode.
// It returns the number of nodes added.
func (p *Path) InjectNode(rnd randx.Rand) int {
	switch p.InjectionMode {
	case InjectCurvature:
		return p.injectByCurvature()
	default:
		if p.injectRandomNode(rnd) {
			return 1
		}
		return 0
	}
}

// injectRandomNode inserts a midpoint between a random node and its previous
// neighbor, if there is room for it.
func (p *Path) injectRandomNode(rnd randx.Rand) bool {
	if len(p.Nodes) < 2 || len(p.Nodes) >= p.Settings.MaxNodes {
		return false
	}
	i := 1 + rnd.Intn(len(p.Nodes)-1)
	prev, next := p.ConnectedNodes(i)
	if prev == nil || next == nil {
		return false
	}
	n := p.Nodes[i]
	if Dist(n.Pos, prev.Pos) <= math.Min(p.minDistance(n), p.minDistance(prev)) {
		return false
	}
	p.Nodes = slices.Insert(p.Nodes, i, p.midpointNode(n, prev))
	return true
}

// injectByCurvature replaces every sharp movable node by the midpoints of its
// two edges. Nodes created by the pass are not examined again.
func (p *Path) injectByCurvature() int {
	added := 0
	end := len(p.Nodes)
	for i := 0; i < end && len(p.Nodes) < p.Settings.MaxNodes; i++ {
		n := p.Nodes[i]
		prev, next := p.ConnectedNodes(i)
		if n.Fixed || prev == nil || next == nil {
			continue
		}
		a, b := Dist(n.Pos, prev.Pos), Dist(n.Pos, next.Pos)
		θ := math.Atan(a/b) * 180 / math.Pi
		if !(θ < CurvatureThreshold) {
			continue
		}
		pm, nm := p.midpointNode(n, prev), p.midpointNode(n, next)
		if i == 0 {
			// prev is the last node of a closed path
			p.Nodes[0] = nm
			p.Nodes = append(p.Nodes, pm)
		} else {
			p.Nodes[i] = pm
			p.Nodes = slices.Insert(p.Nodes, i+1, nm)
			i++
			end++
		}
		added++
	}
	return added
}
