// Package seed generates the initial geometry of differential growth simulations.
//
// All generators return plain shapes. They are turned into paths with
// diffgrowth.NewPath or World.NewPath.
package seed

import (
	"math"

	"cogentcore.org/core/base/randx"
	"gonum.org/v1/gonum/spatial/r2"
)

// A Shape is an ordered list of points, optionally closed.
type Shape struct {
	Points []r2.Vec
	Closed bool
}

// Translate moves every point of the shape by d.
func (s Shape) Translate(d r2.Vec) {
	for i, p := range s.Points {
		s.Points[i] = r2.Add(p, d)
	}
}

// Polygon returns a closed regular polygon with n vertices on a circle of
// the given radius, the first one at angle rotation (in degrees).
// Vertex offsets from the center are floored to whole units.
func Polygon(n int, radius, rotation float64, center r2.Vec) Shape {
	pts := make([]r2.Vec, n)
	φ := rotation * math.Pi / 180
	for i := range pts {
		sin, cos := math.Sincos(2*math.Pi*float64(i)/float64(n) + φ)
		pts[i] = r2.Vec{
			X: center.X + math.Floor(radius*cos),
			Y: center.Y + math.Floor(radius*sin),
		}
	}
	return Shape{Points: pts, Closed: true}
}

// Line returns an open path made of its two end points.
func Line(a, b r2.Vec) Shape {
	return Shape{Points: []r2.Vec{a, b}}
}

// Lines returns a rows×cols grid of short lines centered on center.
// Each line starts at its grid cell and ends delta further.
func Lines(rows, cols int, rowSpacing, colSpacing float64, delta, center r2.Vec) []Shape {
	w := colSpacing * float64(cols)
	h := rowSpacing * float64(rows)
	shapes := make([]Shape, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a := r2.Vec{
				X: float64(j)*colSpacing + center.X - w/2,
				Y: float64(i)*rowSpacing + center.Y - h/2 + rowSpacing/2,
			}
			shapes = append(shapes, Line(a, r2.Add(a, delta)))
		}
	}
	return shapes
}

// Arc returns n radial lines evenly spread from angle start (inclusive)
// to angle end (exclusive), in degrees. Each line starts at innerRadius
// from center and is length long.
func Arc(center r2.Vec, start, end, innerRadius float64, n int, length float64) []Shape {
	if n <= 0 {
		return nil
	}
	δ := (end - start) / float64(n)
	outerRadius := innerRadius + length
	shapes := make([]Shape, n)
	for i := range shapes {
		sin, cos := math.Sincos((start + float64(i)*δ) * math.Pi / 180)
		shapes[i] = Line(
			r2.Vec{X: center.X + innerRadius*cos, Y: center.Y + innerRadius*sin},
			r2.Vec{X: center.X + outerRadius*cos, Y: center.Y + outerRadius*sin},
		)
	}
	return shapes
}

// Parameters of the small circles placed by Phyllotaxis.
const (
	CircleNodes  = 10
	CircleRadius = 5
)

// goldenAngle is the angle between two consecutive phyllotaxis elements, in radians.
var goldenAngle = ((math.Sqrt(5)+1)/2 - 1) * 2 * math.Pi

// Phyllotaxis returns small closed circles arranged in a sunflower spiral.
// Element i of count sits at a distance 1.5·radius·i/count from center;
// elements closer than hole to the center are left out.
func Phyllotaxis(center r2.Vec, count int, radius, hole float64) []Shape {
	var shapes []Shape
	for i := 1; i < count; i++ {
		r := 1.5 * radius * float64(i) / float64(count)
		if r <= hole {
			continue
		}
		sin, cos := math.Sincos(float64(i) * goldenAngle)
		x, y := r*cos, r*sin
		c := Polygon(CircleNodes, CircleRadius, 0, r2.Vec{})
		c.Translate(r2.Vec{X: center.X + x, Y: center.Y + y})
		shapes = append(shapes, c)
	}
	return shapes
}

// Polygons scatters up to n closed regular polygons within spread of center,
// trying attempts times and keeping only polygons that do not overlap the
// ones already kept. sides ≤ 0 picks triangles, squares and 30-gons at random.
// Rotation is random when rotate is set. Radii are drawn in [minRadius, maxRadius).
func Polygons(rnd randx.Rand, n, attempts, sides int, minRadius, maxRadius, spread float64, rotate bool, center r2.Vec) []Shape {
	type disc struct {
		c r2.Vec
		r float64
	}
	var (
		shapes []Shape
		kept   []disc
	)
	for k := 0; k < attempts && len(shapes) < n; k++ {
		m := sides
		if m <= 0 {
			m = 3 + rnd.Intn(3)
			if m == 5 {
				m = 30
			}
		}
		var rotation float64
		if rotate {
			rotation = 360 * rnd.Float64()
		}
		r := minRadius + (maxRadius-minRadius)*rnd.Float64()
		c := r2.Vec{
			X: center.X + spread*(2*rnd.Float64()-1),
			Y: center.Y + spread*(2*rnd.Float64()-1),
		}

		// circumscribed circles are a conservative overlap test
		free := true
		for _, d := range kept {
			if math.Hypot(c.X-d.c.X, c.Y-d.c.Y) < r+d.r+2 {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		kept = append(kept, disc{c, r})
		shapes = append(shapes, Polygon(m, r, rotation, c))
	}
	return shapes
}
