// Package term runs interactive simulations in a terminal.
//
// Paths are drawn with braille characters, each cell showing 2×4 dots.
package term

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"gonum.org/v1/gonum/spatial/r2"
)

// Config holds the parameters of the terminal driver.
type Config struct {
	Control *control.Controller // key bindings and simulation loop

	// FrameRate is the number of frames per second, 30 if zero.
	FrameRate int

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run runs an interactive simulation in the terminal.
// Besides the controller keys, + and - zoom and Home resets the viewport.
func Run(conf *Config) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	return run(s, conf)
}

// run drives the simulation on an initialized screen.
func run(s tcell.Screen, conf *Config) error {
	c := conf.Control
	fps := conf.FrameRate
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go s.ChannelEvents(events, quit)

	v := newView(conf, s.Size)
	for !c.Quit() {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				s.Sync()
			}
			v.handle(c, ev)
		case <-ticker.C:
			c.Tick()
			v.draw(s, c.World)
		}
	}
	return nil
}

// A view is the area of the world shown in the terminal.
type view struct {
	home   [2]r2.Vec
	min    r2.Vec
	max    r2.Vec
	size   func() (int, int)
	canvas *canvas
}

func newView(conf *Config, size func() (int, int)) *view {
	v := &view{
		home: [2]r2.Vec{{X: conf.Xmin, Y: conf.Ymin}, {X: conf.Xmax, Y: conf.Ymax}},
		size: size,
	}
	v.min, v.max = v.home[0], v.home[1]
	return v
}

// zoom scales the view by f around its center.
func (v *view) zoom(f float64) {
	c := r2.Scale(0.5, r2.Add(v.min, v.max))
	v.min = r2.Add(c, r2.Scale(f, r2.Sub(v.min, c)))
	v.max = r2.Add(c, r2.Scale(f, r2.Sub(v.max, c)))
}

// handle processes a terminal event.
func (v *view) handle(c *control.Controller, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			c.Key(control.KeyEscape)
		case tcell.KeyRight:
			c.Key(control.KeyRight)
		case tcell.KeyHome:
			v.min, v.max = v.home[0], v.home[1]
		case tcell.KeyRune:
			switch ev.Rune() {
			case '+':
				v.zoom(0.8)
			case '-':
				v.zoom(1.25)
			default:
				c.Key(ev.Rune())
			}
		}
	case *tcell.EventResize:
		v.canvas = nil
	}
}

// draw renders the world and a status line.
func (v *view) draw(s tcell.Screen, w *diffgrowth.World) {
	cols, rows := v.size()
	rows-- // status line
	if rows < 1 || cols < 1 {
		return
	}
	if v.canvas == nil || v.canvas.cols != cols || v.canvas.rows != rows {
		v.canvas = newCanvas(cols, rows)
	}
	cv := v.canvas
	cv.fit(v.min, v.max)
	if !w.Display.Trace {
		cv.clear()
	}

	fg, bg := palette(w.Display.InvertedColors)
	for _, p := range w.Paths {
		drawPath(cv, p, fg)
	}
	cv.flush(s, fg, bg)

	state := "running"
	if w.Paused {
		state = "paused"
	}
	status := fmt.Sprintf(" %s  t=%.1fs  paths=%d  nodes=%d ", state, w.Clock().Seconds(), len(w.Paths), w.NodeCount())
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		s.SetContent(x, rows, r, nil, style)
	}
	s.Show()
}

// palette returns the foreground and background colors.
func palette(inverted bool) (fg, bg tcell.Color) {
	if inverted {
		return tcell.ColorWhite, tcell.ColorBlack
	}
	return tcell.ColorBlack, tcell.ColorWhite
}

// drawPath draws a path with its own display flags.
func drawPath(cv *canvas, p *diffgrowth.Path, fg tcell.Color) {
	d := p.Display
	if d.ShowBounds {
		switch b := p.Bounds.(type) {
		case diffgrowth.Polygon:
			cv.polyline(b, true, uniform(tcell.ColorRed))
		case diffgrowth.Rect:
			cv.polyline([]r2.Vec{b.Min, {X: b.Max.X, Y: b.Min.Y}, b.Max, {X: b.Min.X, Y: b.Max.Y}}, true, uniform(tcell.ColorRed))
		}
	}
	if d.DrawHistory {
		for _, h := range p.History {
			cv.polyline(h, p.Closed, uniform(tcell.ColorGray))
		}
	}

	pts := p.Points()
	if d.Fill && p.Closed {
		cv.fill(pts, fg)
	}
	color := uniform(fg)
	if d.Debug {
		color = func(i int) tcell.Color { return rank(i, len(pts)) }
	}
	cv.polyline(pts, p.Closed, color)
	if d.DrawNodes {
		for _, q := range pts {
			cv.point(q, tcell.ColorRed)
		}
	}
}

func uniform(c tcell.Color) func(int) tcell.Color {
	return func(int) tcell.Color { return c }
}

// rank returns a hue that goes around the color wheel along the path.
func rank(i, n int) tcell.Color {
	h := float64(i) / float64(n) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return tcell.NewRGBColor(int32(255*r), int32(255*g), int32(255*b))
}
