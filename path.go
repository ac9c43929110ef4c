package diffgrowth

import (
	"fmt"
	"math"
	"time"

	"cogentcore.org/core/base/randx"
	"gonum.org/v1/gonum/spatial/r2"
)

// InjectionMode selects the strategy used to grow a path between splits.
type InjectionMode int

const (
	// InjectRandom inserts a midpoint next to a randomly chosen node.
	InjectRandom InjectionMode = iota

	// InjectCurvature chamfers sharp corners into two shallower ones.
	InjectCurvature
)

// String returns the name of the mode as used in config files.
func (m InjectionMode) String() string {
	switch m {
	case InjectRandom:
		return "random"
	case InjectCurvature:
		return "curvature"
	}
	return fmt.Sprintf("InjectionMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m InjectionMode) MarshalText() ([]byte, error) {
	if m != InjectRandom && m != InjectCurvature {
		return nil, fmt.Errorf("diffgrowth: invalid injection mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *InjectionMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "random":
		*m = InjectRandom
	case "curvature":
		*m = InjectCurvature
	default:
		return fmt.Errorf("diffgrowth: unknown injection mode %q", b)
	}
	return nil
}

// SplitMode selects how long edges are split.
type SplitMode int

const (
	// SplitInPlace inserts midpoints while walking the nodes.
	// An insertion shifts the following indices and is visible to the rest
	// of the walk, so the edge next to the current node may be halved again
	// in the same pass. This is what makes growth asymmetric.
	SplitInPlace SplitMode = iota

	// SplitDeferred finds all long edges first and then splits each of them once.
	SplitDeferred
)

// String returns the name of the mode as used in config files.
func (m SplitMode) String() string {
	switch m {
	case SplitInPlace:
		return "inplace"
	case SplitDeferred:
		return "deferred"
	}
	return fmt.Sprintf("SplitMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m SplitMode) MarshalText() ([]byte, error) {
	if m != SplitInPlace && m != SplitDeferred {
		return nil, fmt.Errorf("diffgrowth: invalid split mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SplitMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "inplace":
		*m = SplitInPlace
	case "deferred":
		*m = SplitDeferred
	default:
		return fmt.Errorf("diffgrowth: unknown split mode %q", b)
	}
	return nil
}

// Display contains the rendering flags of a path.
// The simulation itself never looks at them.
type Display struct {
	DrawNodes      bool `yaml:"draw_nodes"`      // draw a dot on every node
	Trace          bool `yaml:"trace"`           // accumulate frames instead of clearing the background
	Debug          bool `yaml:"debug"`           // color each edge by its index
	Fill           bool `yaml:"fill"`            // fill closed paths
	InvertedColors bool `yaml:"inverted_colors"` // light on dark
	ShowBounds     bool `yaml:"show_bounds"`     // draw the bounds polygon
	DrawHistory    bool `yaml:"draw_history"`    // draw the captured history snapshots
}

// A Path is an ordered, optionally closed, sequence of nodes.
// The order of Nodes is the connectivity of the polyline.
type Path struct {
	Nodes  []*Node
	Closed bool

	InjectionMode InjectionMode
	SplitMode     SplitMode

	Settings          Settings
	Display           Display
	UseBrownianMotion bool

	// Bounds, if non-nil, replaces the rectangular walls.
	Bounds Bounds

	// History holds the most recent snapshots of node positions, oldest first.
	History [][]r2.Vec

	lastInjection time.Duration
}

// NewPath returns a path whose nodes sit exactly at the given points, in order.
func NewPath(points []r2.Vec, closed bool, s Settings) (*Path, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := &Path{
		Nodes:             make([]*Node, len(points)),
		Closed:            closed,
		Settings:          s,
		UseBrownianMotion: s.UseBrownianMotion,
	}
	for i, v := range points {
		p.Nodes[i] = NewNode(v)
	}
	return p, nil
}

// SetSettings validates s and makes it the settings of the path.
func (p *Path) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.Settings = s
	return nil
}

// AddNode appends n at the end of the path.
func (p *Path) AddNode(n *Node) {
	p.Nodes = append(p.Nodes, n)
}

// Len returns the number of nodes.
func (p *Path) Len() int {
	return len(p.Nodes)
}

// Points returns a copy of the node positions.
func (p *Path) Points() []r2.Vec {
	pts := make([]r2.Vec, len(p.Nodes))
	for i, n := range p.Nodes {
		pts[i] = n.Pos
	}
	return pts
}

// Translate moves every node by d.
func (p *Path) Translate(d r2.Vec) {
	for _, n := range p.Nodes {
		n.moveTo(r2.Add(n.Pos, d))
	}
}

// Scale multiplies every node position by f.
func (p *Path) Scale(f float64) {
	for _, n := range p.Nodes {
		n.moveTo(r2.Scale(f, n.Pos))
	}
}

// ConnectedNodes returns the topological neighbors of the node at index i.
// Missing neighbors are nil: the ends of an open path have a single neighbor,
// and paths with fewer than two nodes have none.
func (p *Path) ConnectedNodes(i int) (prev, next *Node) {
	n := len(p.Nodes)
	if n < 2 || i < 0 || i >= n {
		return nil, nil
	}
	switch {
	case i >= 1:
		prev = p.Nodes[i-1]
	case p.Closed:
		prev = p.Nodes[n-1]
	}
	switch {
	case i <= n-2:
		next = p.Nodes[i+1]
	case p.Closed:
		next = p.Nodes[0]
	}
	return prev, next
}

// Iterate runs a single tick on the path: forces and motion for every node,
// then splitting, pruning and, when due, injection.
// Neighbor queries go to x, which must not change during the call.
// now is the simulated time used to rate-limit injection.
// A nil rnd falls back to the global random source.
func (p *Path) Iterate(x *Index, now time.Duration, rnd randx.Rand) {
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	for i, n := range p.Nodes {
		if n.Fixed {
			continue
		}
		if p.UseBrownianMotion {
			p.applyBrownianMotion(n, rnd)
		}
		p.applyAttraction(i)
		p.applyRepulsion(n, x)
		p.applyAlignment(i)
		p.avoidWalls(n)
		p.step(n)
	}

	p.SplitEdges()
	p.PruneNodes()

	s := &p.Settings
	if s.UseNodeInjection && now-p.lastInjection >= s.NodeInjectionInterval && len(p.Nodes) < s.MaxNodes {
		p.InjectNode(rnd)
		p.lastInjection = now
	}
}

// applyBrownianMotion jiggles the current position, not the target.
func (p *Path) applyBrownianMotion(n *Node, rnd randx.Rand) {
	r := p.Settings.BrownianMotionRange
	n.Pos.X += r * (rnd.Float64() - 0.5)
	n.Pos.Y += r * (rnd.Float64() - 0.5)
}

// applyAttraction pulls the target toward the next, then the previous neighbor.
// The second pull starts from the result of the first one.
func (p *Path) applyAttraction(i int) {
	n := p.Nodes[i]
	prev, next := p.ConnectedNodes(i)
	for _, q := range [...]*Node{next, prev} {
		if q == nil {
			continue
		}
		if Dist(n.Pos, q.Pos) > math.Min(p.minDistance(n), p.minDistance(q)) {
			n.Target = Lerp(n.Target, q.Pos, p.Settings.AttractionForce)
		}
	}
}

// applyRepulsion pushes the target away from every node found within the
// repulsion radius, on any path. Each hit overwrites the previous one, so the
// farthest hit wins.
func (p *Path) applyRepulsion(n *Node, x *Index) {
	f := p.Settings.RepulsionForce
	if f == 0 || x == nil {
		return
	}
	r := p.repulsionRadius(n)
	for _, h := range x.QueryRadius(n.Pos, r*r) {
		if h.Node == n {
			continue
		}
		n.Target = Lerp(n.Pos, h.Pos, -f)
	}
}

// applyAlignment pulls the target toward the midpoint of both neighbors.
func (p *Path) applyAlignment(i int) {
	prev, next := p.ConnectedNodes(i)
	if prev == nil || next == nil {
		return
	}
	n := p.Nodes[i]
	n.Target = Lerp(n.Target, Midpoint(prev.Pos, next.Pos), p.Settings.AlignmentForce)
}

// avoidWalls clamps the position into the world rectangle.
func (p *Path) avoidWalls(n *Node) {
	s := &p.Settings
	if !s.UseWalls || p.Bounds != nil {
		return
	}
	n.Pos.X = clamp(n.Pos.X, 0, s.Width)
	n.Pos.Y = clamp(n.Pos.Y, 0, s.Height)
}

// step moves n toward its target, unless that would leave the bounds.
func (p *Path) step(n *Node) {
	old := n.Pos
	n.Step(p.Settings.MaxVelocity)
	if p.Bounds != nil && !p.Bounds.Contains(n.Pos) {
		n.moveTo(old)
	}
}

// minDistance resolves the minimum distance of n.
func (p *Path) minDistance(n *Node) float64 {
	if n.MinDistance > 0 {
		return n.MinDistance
	}
	return p.Settings.MinDistance
}

// repulsionRadius resolves the repulsion radius of n.
func (p *Path) repulsionRadius(n *Node) float64 {
	if n.RepulsionRadius > 0 {
		return n.RepulsionRadius
	}
	return p.Settings.RepulsionRadius
}

// midpointNode returns a new movable node halfway between a and b.
func (p *Path) midpointNode(a, b *Node) *Node {
	return NewNode(Midpoint(a.Pos, b.Pos))
}

// AddToHistory records a snapshot of the node positions,
// dropping the oldest ones beyond Settings.MaxHistorySize.
func (p *Path) AddToHistory() {
	max := p.Settings.MaxHistorySize
	if max <= 0 {
		return
	}
	p.History = append(p.History, p.Points())
	if extra := len(p.History) - max; extra > 0 {
		p.History = append(p.History[:0], p.History[extra:]...)
	}
}
