package diffgrowth

import (
	"testing"

	"cogentcore.org/core/base/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func xs(p *Path) []float64 {
	out := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		out[i] = n.Pos.X
	}
	return out
}

func TestSplitInPlaceCascades(t *testing.T) {
	s := quiet()
	s.MaxDistance = 30
	p := newTestPath(t, line(2, 100), false, s)
	assert.Equal(t, 2, p.SplitEdges())
	// the halves next to the current node are split again in the same pass
	assert.Equal(t, []float64{0, 50, 75, 100}, xs(p))
}

func TestSplitDeferredOncePerEdge(t *testing.T) {
	s := quiet()
	s.MaxDistance = 30
	p := newTestPath(t, line(2, 100), false, s)
	p.SplitMode = SplitDeferred
	assert.Equal(t, 1, p.SplitEdges())
	assert.Equal(t, []float64{0, 50, 100}, xs(p))
}

func TestSplitClosedSquare(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}}
	want := []r2.Vec{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 20},
		{X: 40, Y: 40}, {X: 20, Y: 40}, {X: 0, Y: 40}, {X: 0, Y: 20},
	}
	for _, mode := range []SplitMode{SplitInPlace, SplitDeferred} {
		t.Run(mode.String(), func(t *testing.T) {
			s := quiet()
			s.MaxDistance = 30
			p := newTestPath(t, square, true, s)
			p.SplitMode = mode
			assert.Equal(t, 4, p.SplitEdges())
			assert.Equal(t, want, p.Points())
		})
	}
}

func TestSplitRespectsMaxNodes(t *testing.T) {
	for _, mode := range []SplitMode{SplitInPlace, SplitDeferred} {
		t.Run(mode.String(), func(t *testing.T) {
			s := quiet()
			s.MaxDistance = 30
			s.MaxNodes = 4
			p := newTestPath(t, []r2.Vec{{X: 0}, {X: 100}, {X: 200}}, false, s)
			p.SplitMode = mode
			assert.Equal(t, 1, p.SplitEdges())
			assert.Equal(t, []float64{0, 50, 100, 200}, xs(p))
			assert.Equal(t, 0, p.SplitEdges())
		})
	}
}

func TestSplitNewNodesAreMovable(t *testing.T) {
	s := quiet()
	s.MaxDistance = 30
	p := newTestPath(t, line(2, 40), false, s)
	p.Nodes[0].Fixed = true
	p.Nodes[1].Fixed = true
	p.SplitEdges()
	require.Len(t, p.Nodes, 3)
	assert.False(t, p.Nodes[1].Fixed)
	assert.Equal(t, p.Nodes[1].Pos, p.Nodes[1].Target)
}

func TestPruneOpen(t *testing.T) {
	s := quiet()
	s.MaxDistance = 300
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 5}, {X: 100}, {X: 105}, {X: 200}}, false, s)
	assert.Equal(t, 2, p.PruneNodes())
	assert.Equal(t, []float64{5, 105, 200}, xs(p))
}

func TestPruneKeepsFixedNodes(t *testing.T) {
	s := quiet()
	s.MaxDistance = 300
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 5}, {X: 100}, {X: 105}, {X: 200}}, false, s)
	p.Nodes[0].Fixed = true
	assert.Equal(t, 1, p.PruneNodes())
	assert.Equal(t, []float64{0, 5, 105, 200}, xs(p))
}

func TestPruneClosedWrap(t *testing.T) {
	s := quiet()
	s.MaxDistance = 300
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 100}, {X: 100, Y: 100}, {X: 1}}, true, s)
	assert.Equal(t, 1, p.PruneNodes())
	assert.Equal(t, []r2.Vec{{X: 0}, {X: 100}, {X: 100, Y: 100}}, p.Points())
}

func TestPruneBoundOnIsolatedPairs(t *testing.T) {
	s := quiet()
	s.MinDistance = 10
	s.MaxDistance = 300
	var pts []r2.Vec
	for i := 0; i < 20; i++ {
		pts = append(pts, r2.Vec{X: float64(i) * 100}, r2.Vec{X: float64(i)*100 + 3})
	}
	p := newTestPath(t, pts, false, s)
	assert.Equal(t, 20, p.PruneNodes())
	for i := 1; i < len(p.Nodes); i++ {
		assert.GreaterOrEqual(t, Dist(p.Nodes[i].Pos, p.Nodes[i-1].Pos), s.MinDistance)
	}
}

func TestPruneClusters(t *testing.T) {
	s := quiet()
	s.MinDistance = 10
	s.MaxDistance = 300
	p := newTestPath(t, line(4, 3), false, s)
	p.Nodes = append(p.Nodes, NewNode(r2.Vec{X: 100}))
	assert.Equal(t, 3, p.PruneNodes())
	assert.Equal(t, []float64{9, 100}, xs(p))

	// a fixed node stops the removals behind it
	p = newTestPath(t, []r2.Vec{{X: 0}, {X: 3}, {X: 6}, {X: 9}, {X: 100}}, false, s)
	p.Nodes[1].Fixed = true
	assert.Equal(t, 2, p.PruneNodes())
	assert.Equal(t, []float64{3, 9, 100}, xs(p))

	// closed rings are walked around the seam
	p = newTestPath(t, []r2.Vec{{X: 0}, {X: 200}, {X: 200, Y: 200}, {X: 8}, {X: 4}}, true, s)
	assert.Equal(t, 2, p.PruneNodes())
	assert.Equal(t, []r2.Vec{{X: 0}, {X: 200}, {X: 200, Y: 200}}, p.Points())

	for i := 1; i < len(p.Nodes); i++ {
		assert.GreaterOrEqual(t, Dist(p.Nodes[i].Pos, p.Nodes[i-1].Pos), s.MinDistance)
	}
}

func TestInjectRandomNode(t *testing.T) {
	s := quiet()
	s.MinDistance = 5
	s.MaxDistance = 100
	square := []r2.Vec{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}}
	rnd := randx.NewSysRand(3)
	for k := 0; k < 20; k++ {
		p := newTestPath(t, square, true, s)
		before := p.Points()
		require.Equal(t, 1, p.InjectNode(rnd))
		require.Len(t, p.Nodes, 5)

		// exactly one new node, halfway between two former neighbors,
		// never in front of the first one
		for i := 1; i < len(p.Nodes); i++ {
			if p.Nodes[i].Pos != before[i] {
				assert.Equal(t, Midpoint(before[i-1], before[i]), p.Nodes[i].Pos)
				assert.Equal(t, before[i:], p.Points()[i+1:])
				break
			}
		}
		assert.Equal(t, before[0], p.Nodes[0].Pos)
	}
}

func TestInjectRandomNodeNeedsRoom(t *testing.T) {
	s := quiet()
	s.MinDistance = 60
	s.MaxDistance = 100
	square := []r2.Vec{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}}
	p := newTestPath(t, square, true, s)
	assert.Equal(t, 0, p.InjectNode(randx.NewSysRand(1)))

	s.MinDistance = 5
	s.MaxNodes = 4
	p = newTestPath(t, square, true, s)
	assert.Equal(t, 0, p.InjectNode(randx.NewSysRand(1)))

	p = newTestPath(t, square[:1], true, quiet())
	assert.Equal(t, 0, p.InjectNode(randx.NewSysRand(1)))
}

func TestInjectByCurvature(t *testing.T) {
	s := quiet()
	s.MaxDistance = 200
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 10}, {X: 110}}, false, s)
	p.InjectionMode = InjectCurvature
	assert.Equal(t, 1, p.InjectNode(nil))
	assert.Equal(t, []float64{0, 5, 60, 110}, xs(p))
}

func TestInjectByCurvatureSkipsShallowAndFixed(t *testing.T) {
	s := quiet()
	s.MaxDistance = 200
	// equal edges: 45 degrees
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 50}, {X: 100}}, false, s)
	p.InjectionMode = InjectCurvature
	assert.Equal(t, 0, p.InjectNode(nil))

	p = newTestPath(t, []r2.Vec{{X: 0}, {X: 10}, {X: 110}}, false, s)
	p.InjectionMode = InjectCurvature
	p.Nodes[1].Fixed = true
	assert.Equal(t, 0, p.InjectNode(nil))
	assert.Len(t, p.Nodes, 3)
}

func TestInjectByCurvatureClosedFirstNode(t *testing.T) {
	s := quiet()
	s.MaxDistance = 500
	// node 0 sits 10 away from the last node and 100 away from the next one
	p := newTestPath(t, []r2.Vec{{X: 0}, {X: 100}, {X: 100, Y: 100}, {X: -10}}, true, s)
	p.InjectionMode = InjectCurvature
	p.Nodes[1].Fixed = true
	p.Nodes[2].Fixed = true
	p.Nodes[3].Fixed = true
	assert.Equal(t, 1, p.InjectNode(nil))
	assert.Equal(t, []r2.Vec{{X: 50}, {X: 100}, {X: 100, Y: 100}, {X: -10}, {X: -5}}, p.Points())
}
