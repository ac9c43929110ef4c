package term

import (
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// braille holds the bit of each dot of a braille cell, indexed by [y][x].
var braille = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// A canvas rasterizes lines on a grid of braille cells.
// Each cell holds 2×4 dots and a single color, the last one drawn in it.
type canvas struct {
	cols, rows int
	dots       []uint8
	colors     []tcell.Color

	// mapping from world to dot coordinates
	scale  float64
	origin r2.Vec
}

func newCanvas(cols, rows int) *canvas {
	return &canvas{
		cols:   cols,
		rows:   rows,
		dots:   make([]uint8, cols*rows),
		colors: make([]tcell.Color, cols*rows),
		scale:  1,
	}
}

// fit maps the rectangle [min, max] of the world onto the canvas,
// keeping its aspect ratio.
func (c *canvas) fit(min, max r2.Vec) {
	w, h := float64(2*c.cols), float64(4*c.rows)
	c.scale = math.Min(w/(max.X-min.X), h/(max.Y-min.Y))
	// center the rectangle
	c.origin = r2.Vec{
		X: min.X - (w/c.scale-(max.X-min.X))/2,
		Y: min.Y - (h/c.scale-(max.Y-min.Y))/2,
	}
}

// clear erases every dot.
func (c *canvas) clear() {
	clear(c.dots)
	clear(c.colors)
}

// dot returns the dot coordinates of p.
func (c *canvas) dot(p r2.Vec) (x, y float64) {
	return (p.X - c.origin.X) * c.scale, (p.Y - c.origin.Y) * c.scale
}

// set turns on the dot at x, y. Dots outside of the canvas are ignored.
func (c *canvas) set(x, y int, col tcell.Color) {
	if x < 0 || y < 0 || x >= 2*c.cols || y >= 4*c.rows {
		return
	}
	i := y/4*c.cols + x/2
	c.dots[i] |= braille[y%4][x%2]
	c.colors[i] = col
}

// point draws a single point.
func (c *canvas) point(p r2.Vec, col tcell.Color) {
	x, y := c.dot(p)
	c.set(int(math.Floor(x)), int(math.Floor(y)), col)
}

// line draws the segment ab.
func (c *canvas) line(a, b r2.Vec, col tcell.Color) {
	x0, y0 := c.dot(a)
	x1, y1 := c.dot(b)
	n := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		c.set(int(math.Floor(x0+t*(x1-x0))), int(math.Floor(y0+t*(y1-y0))), col)
	}
}

// polyline draws the edges of pts, closing it if asked.
// color returns the color of edge i.
func (c *canvas) polyline(pts []r2.Vec, closed bool, color func(i int) tcell.Color) {
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1], pts[i], color(i-1))
	}
	if closed && len(pts) > 2 {
		c.line(pts[len(pts)-1], pts[0], color(len(pts)-1))
	}
}

// fill fills the polygon pts using the even-odd rule, one dot row at a time.
func (c *canvas) fill(pts []r2.Vec, col tcell.Color) {
	if len(pts) < 3 {
		return
	}
	dots := make([][2]float64, len(pts))
	for i, p := range pts {
		dots[i][0], dots[i][1] = c.dot(p)
	}
	var xs []float64
	for y := 0; y < 4*c.rows; y++ {
		yc := float64(y) + 0.5 // sample at the center of the dot
		xs = xs[:0]
		for i, j := 0, len(dots)-1; i < len(dots); j, i = i, i+1 {
			a, b := dots[i], dots[j]
			if (a[1] > yc) != (b[1] > yc) {
				xs = append(xs, a[0]+(yc-a[1])*(b[0]-a[0])/(b[1]-a[1]))
			}
		}
		slices.Sort(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			for x := int(math.Ceil(xs[k] - 0.5)); float64(x)+0.5 <= xs[k+1]; x++ {
				c.set(x, y, col)
			}
		}
	}
}

// flush copies the canvas to the top left corner of the screen.
func (c *canvas) flush(s tcell.Screen, fg, bg tcell.Color) {
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			i := y*c.cols + x
			r := ' '
			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			if c.dots[i] != 0 {
				r = rune(0x2800 + int(c.dots[i]))
				if c.colors[i] != tcell.ColorDefault {
					style = style.Foreground(c.colors[i])
				}
			}
			s.SetContent(x, y, r, nil, style)
		}
	}
}
