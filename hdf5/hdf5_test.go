package hdf5

import (
	"path/filepath"
	"testing"

	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func testWorld(t *testing.T) *diffgrowth.World {
	t.Helper()
	s := diffgrowth.DefaultSettings
	s.UseBrownianMotion = false
	s.UseNodeInjection = false
	s.MinDistance = 1
	s.AttractionForce = 0
	s.RepulsionForce = 0
	s.AlignmentForce = 0
	w, err := diffgrowth.NewWorld(s, nil)
	require.NoError(t, err)
	tri, err := w.NewPath([]r2.Vec{{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 105, Y: 108}}, true)
	require.NoError(t, err)
	tri.Nodes[1].Fixed = true
	_, err = w.NewPath([]r2.Vec{{X: 300, Y: 300}, {X: 310, Y: 300}}, false)
	require.NoError(t, err)
	return w
}

func TestRecords(t *testing.T) {
	w := testWorld(t)
	buf := make([]NodeRecord, 7)
	records(w, buf)
	assert.Equal(t, []NodeRecord{
		{Path: 0, Flags: FlagClosed, Pos: r2.Vec{X: 100, Y: 100}},
		{Path: 0, Flags: FlagClosed | FlagFixed, Pos: r2.Vec{X: 110, Y: 100}},
		{Path: 0, Flags: FlagClosed, Pos: r2.Vec{X: 105, Y: 108}},
		{Path: 1, Pos: r2.Vec{X: 300, Y: 300}},
		{Path: 1, Pos: r2.Vec{X: 310, Y: 300}},
		{Path: -1},
		{Path: -1},
	}, buf)

	// frames keep the first nodes only
	short := make([]NodeRecord, 4)
	records(w, short)
	assert.Equal(t, int32(1), short[3].Path)
}

func TestFrame(t *testing.T) {
	w := testWorld(t)
	buf := make([]NodeRecord, 6)
	records(w, buf)
	shapes := frame(buf, nil)
	assert.Equal(t, []seed.Shape{
		{Points: w.Paths[0].Points(), Closed: true},
		{Points: w.Paths[1].Points()},
	}, shapes)

	// a reused destination is overwritten
	shapes = frame(buf[:3], shapes[:0])
	require.Len(t, shapes, 1)
	assert.Len(t, shapes[0].Points, 3)

	assert.Empty(t, frame([]NodeRecord{{Path: -1}}, nil))
}

func TestCounts(t *testing.T) {
	w := testWorld(t)
	d := Counts()
	assert.Equal(t, "counts", d.Name)
	assert.Equal(t, int32(5), *d.Data(w).(*int32))
}

func TestRunAndLoad(t *testing.T) {
	w := testWorld(t)
	out := filepath.Join(t.TempDir(), "out", "growth.h5")
	err := Run(w, &Config{
		Output:   out,
		Steps:    3,
		Datasets: []*Dataset{Nodes(8), Counts(), Clock()},
		Attrs:    w.Settings,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, w.Ticks())

	l, err := NewLoader(out)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, 3, l.Len())

	var shapes []seed.Shape
	for i := 0; i < l.Len(); i++ {
		require.NoError(t, l.Load(&shapes))
		require.Len(t, shapes, 2)
		assert.True(t, shapes[0].Closed)
		assert.False(t, shapes[1].Closed)
		// the anchor never moves
		assert.Equal(t, r2.Vec{X: 110, Y: 100}, shapes[0].Points[1])
	}

	// loading cycles back to the first frame
	assert.Equal(t, 0, l.Pos())
	require.NoError(t, l.Load(&shapes))
	assert.Equal(t, 1, l.Pos())
	assert.Equal(t, r2.Vec{X: 100, Y: 100}, shapes[0].Points[0])

	assert.Error(t, l.Seek(3))
	require.NoError(t, l.Seek(2))
	assert.Equal(t, 2, l.Pos())
}
