package diffgrowth

import (
	"testing"

	"cogentcore.org/core/base/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestIndexEmpty(t *testing.T) {
	x := NewIndex()
	assert.Empty(t, x.QueryRadius(r2.Vec{}, 100))
	x.Load(nil)
	assert.Equal(t, 0, x.Len())
	assert.Empty(t, x.QueryRadius(r2.Vec{}, 100))
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rnd := randx.NewSysRand(11)
	nodes := make([]*Node, 500)
	for i := range nodes {
		nodes[i] = NewNode(r2.Vec{X: 800 * rnd.Float64(), Y: 800 * rnd.Float64()})
	}
	x := NewIndex()
	x.Load(nodes)
	require.Equal(t, len(nodes), x.Len())

	for k := 0; k < 50; k++ {
		c := r2.Vec{X: 800 * rnd.Float64(), Y: 800 * rnd.Float64()}
		rr := 400 + 10000*rnd.Float64()

		want := map[*Node]bool{}
		for _, n := range nodes {
			if Dist2(n.Pos, c) <= rr {
				want[n] = true
			}
		}
		hits := x.QueryRadius(c, rr)
		got := map[*Node]bool{}
		for i, h := range hits {
			got[h.Node] = true
			assert.Equal(t, h.Node.Pos, h.Pos)
			assert.Equal(t, Dist2(h.Pos, c), h.Dist2)
			if i > 0 {
				assert.LessOrEqual(t, hits[i-1].Dist2, h.Dist2)
			}
		}
		assert.Len(t, hits, len(want))
		assert.Equal(t, want, got)
	}
}

func TestIndexTiesFollowLoadOrder(t *testing.T) {
	a := NewNode(r2.Vec{X: 1})
	b := NewNode(r2.Vec{X: -1})
	c := NewNode(r2.Vec{Y: 1})
	d := NewNode(r2.Vec{Y: -1})
	x := NewIndex()
	x.Load([]*Node{c, a, d, b})
	hits := x.QueryRadius(r2.Vec{}, 1)
	require.Len(t, hits, 4)
	for i, want := range []*Node{c, a, d, b} {
		assert.Same(t, want, hits[i].Node)
	}
}

func TestIndexLoadPathsReplaces(t *testing.T) {
	p := newTestPath(t, line(3, 10), false, DefaultSettings)
	q := newTestPath(t, line(2, 10), false, DefaultSettings)
	x := NewIndex()
	x.LoadPaths([]*Path{p, q})
	assert.Equal(t, 5, x.Len())
	assert.Len(t, x.QueryRadius(r2.Vec{}, 0), 2)

	x.LoadPaths([]*Path{p})
	assert.Equal(t, 3, x.Len())
	assert.Len(t, x.QueryRadius(r2.Vec{}, 0), 1)

	x.Clear()
	assert.Equal(t, 0, x.Len())
	assert.Empty(t, x.QueryRadius(r2.Vec{}, 1e9))
}

func TestIndexNegativeRadius(t *testing.T) {
	x := NewIndex()
	x.Load([]*Node{NewNode(r2.Vec{})})
	assert.Empty(t, x.QueryRadius(r2.Vec{}, -1))
}
