package diffgrowth

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// An Index answers "which nodes lie within a radius of a point" queries.
// It is rebuilt from scratch once per tick and never mutated in between,
// so every query of a tick sees the positions nodes had when it was loaded.
type Index struct {
	tree    *kdtree.Tree
	entries entries
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Load replaces the contents of the index with the given nodes.
func (x *Index) Load(nodes []*Node) {
	x.Clear()
	x.Add(nodes...)
	x.build()
}

// LoadPaths replaces the contents of the index with the nodes of all paths.
func (x *Index) LoadPaths(paths []*Path) {
	x.Clear()
	for _, p := range paths {
		x.Add(p.Nodes...)
	}
	x.build()
}

// Add appends nodes to the pending entries. The tree is only
// rebuilt by Load and LoadPaths.
func (x *Index) Add(nodes ...*Node) {
	for _, n := range nodes {
		x.entries = append(x.entries, entry{pos: n.Pos, node: n, seq: len(x.entries)})
	}
}

// Clear empties the index.
func (x *Index) Clear() {
	x.tree = nil
	x.entries = x.entries[:0]
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int {
	return len(x.entries)
}

func (x *Index) build() {
	if len(x.entries) == 0 {
		x.tree = nil
		return
	}
	// kdtree.New reorders its input, keep our own slice in load order
	pts := make(entries, len(x.entries))
	copy(pts, x.entries)
	x.tree = kdtree.New(pts, false)
}

// A Hit is a node found by a query, with the position it had when loaded.
type Hit struct {
	Node  *Node
	Pos   r2.Vec
	Dist2 float64 // squared distance to the query center
}

// QueryRadius returns all indexed nodes whose squared distance to center
// is at most radius2, closest first. Ties are broken by load order so that
// the result only depends on the loaded positions.
func (x *Index) QueryRadius(center r2.Vec, radius2 float64) []Hit {
	if x.tree == nil || radius2 < 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius2)
	x.tree.NearestSet(keep, entry{pos: center, seq: -1})

	found := make([]kdtree.ComparableDist, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue // sentinel
		}
		found = append(found, c)
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Dist != found[j].Dist {
			return found[i].Dist < found[j].Dist
		}
		return found[i].Comparable.(entry).seq < found[j].Comparable.(entry).seq
	})

	out := make([]Hit, len(found))
	for i, c := range found {
		e := c.Comparable.(entry)
		out[i] = Hit{Node: e.node, Pos: e.pos, Dist2: c.Dist}
	}
	return out
}

// An entry is a snapshot of a node position stored in the tree.
type entry struct {
	pos  r2.Vec
	node *Node
	seq  int // load order
}

// Compare returns the signed distance of e from the plane passing through c
// and perpendicular to dimension d.
func (e entry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(entry)
	if d == 0 {
		return e.pos.X - q.pos.X
	}
	return e.pos.Y - q.pos.Y
}

// Dims returns the number of dimensions.
func (e entry) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between e and c.
func (e entry) Distance(c kdtree.Comparable) float64 {
	return Dist2(e.pos, c.(entry).pos)
}

// entries implements kdtree.Interface.
type entries []entry

func (p entries) Index(i int) kdtree.Comparable { return p[i] }
func (p entries) Len() int                      { return len(p) }
func (p entries) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// Pivot partitions p around its median along d. Median of medians keeps
// the tree shape, and hence the search order, independent of any random source.
func (p entries) Pivot(d kdtree.Dim) int {
	pl := plane{entries: p, dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

// plane sorts entries along a single dimension.
type plane struct {
	entries
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.entries[i].Compare(p.entries[j], p.dim) < 0
}
func (p plane) Swap(i, j int) { p.entries[i], p.entries[j] = p.entries[j], p.entries[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{entries: p.entries[start:end], dim: p.dim}
}
