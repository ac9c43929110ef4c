package diffgrowth

import "gonum.org/v1/gonum/spatial/r2"

// Bounds constrains the motion of the nodes of a Path.
// A node step that would end outside of the bounds is rejected.
type Bounds interface {
	Contains(p r2.Vec) bool
}

// A Polygon is a closed polygonal Bounds. The last vertex is implicitly
// connected to the first one.
type Polygon []r2.Vec

// Contains reports whether p lies inside the polygon using the even-odd rule.
func (poly Polygon) Contains(p r2.Vec) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Rect is an axis-aligned rectangular Bounds.
type Rect r2.Box

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
