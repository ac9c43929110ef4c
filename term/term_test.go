package term

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// contents returns the first rune of every cell, row after row.
func contents(s tcell.SimulationScreen) [][]rune {
	s.Show()
	cells, w, h := s.GetContents()
	rows := make([][]rune, h)
	for y := range rows {
		rows[y] = make([]rune, w)
		for x := range rows[y] {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				rows[y][x] = r[0]
			}
		}
	}
	return rows
}

func TestCanvasLine(t *testing.T) {
	cv := newCanvas(2, 1)
	cv.fit(r2.Vec{}, r2.Vec{X: 4, Y: 4})
	cv.line(r2.Vec{}, r2.Vec{X: 3}, tcell.ColorBlack)
	assert.Equal(t, []uint8{0x09, 0x09}, cv.dots)

	s := newScreen(t, 2, 1)
	cv.flush(s, tcell.ColorBlack, tcell.ColorWhite)
	assert.Equal(t, [][]rune{{'⠉', '⠉'}}, contents(s))

	cv.clear()
	assert.Equal(t, []uint8{0, 0}, cv.dots)
}

func TestCanvasFill(t *testing.T) {
	cv := newCanvas(2, 1)
	cv.fit(r2.Vec{}, r2.Vec{X: 4, Y: 4})
	cv.fill([]r2.Vec{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}}, tcell.ColorBlack)
	assert.Equal(t, []uint8{0xff, 0xff}, cv.dots)

	// lower left half
	cv.clear()
	cv.fill([]r2.Vec{{}, {X: 4, Y: 4}, {Y: 4}}, tcell.ColorBlack)
	assert.Equal(t, []uint8{0xf7, 0xc4}, cv.dots)
}

func TestCanvasClipsAndPoints(t *testing.T) {
	cv := newCanvas(1, 1)
	cv.fit(r2.Vec{}, r2.Vec{X: 2, Y: 4})
	cv.set(-1, 0, tcell.ColorRed)
	cv.set(2, 0, tcell.ColorRed)
	cv.set(0, 4, tcell.ColorRed)
	assert.Equal(t, uint8(0), cv.dots[0])

	cv.point(r2.Vec{X: 1.5, Y: 3.9}, tcell.ColorRed)
	assert.Equal(t, uint8(0x80), cv.dots[0])
	assert.Equal(t, tcell.ColorRed, cv.colors[0])
}

func TestCanvasFitKeepsAspect(t *testing.T) {
	cv := newCanvas(10, 5) // 20×20 dots
	cv.fit(r2.Vec{}, r2.Vec{X: 100, Y: 50})
	x, y := cv.dot(r2.Vec{})
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 5, y, 1e-9)
	x, y = cv.dot(r2.Vec{X: 100, Y: 50})
	assert.InDelta(t, 20, x, 1e-9)
	assert.InDelta(t, 15, y, 1e-9)
}

func newController(t *testing.T) *control.Controller {
	t.Helper()
	w, err := diffgrowth.NewWorld(diffgrowth.DefaultSettings, nil)
	require.NoError(t, err)
	_, err = w.NewPath([]r2.Vec{{X: 100, Y: 400}, {X: 700, Y: 400}}, false)
	require.NoError(t, err)
	return &control.Controller{World: w}
}

func TestDraw(t *testing.T) {
	c := newController(t)
	c.World.Pause()
	s := newScreen(t, 60, 6)
	v := newView(&Config{Xmax: 800, Ymax: 800}, s.Size)
	v.draw(s, c.World)

	rows := contents(s)
	require.Len(t, rows, 6)
	status := string(rows[5])
	assert.Contains(t, status, "paused")
	assert.Contains(t, status, "nodes=2")

	var braille int
	for _, row := range rows[:5] {
		for _, r := range row {
			if r > 0x2800 && r <= 0x28ff {
				braille++
			}
		}
	}
	assert.Greater(t, braille, 5)
}

func TestZoom(t *testing.T) {
	v := newView(&Config{Xmin: 0, Ymin: 0, Xmax: 100, Ymax: 100}, nil)
	c := newController(t)
	v.handle(c, tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	assert.InDelta(t, 10, v.min.X, 1e-9)
	assert.InDelta(t, 90, v.max.Y, 1e-9)
	v.handle(c, tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	assert.Equal(t, r2.Vec{}, v.min)
	assert.Equal(t, r2.Vec{X: 100, Y: 100}, v.max)
}

func TestRunKeys(t *testing.T) {
	c := newController(t)
	s := newScreen(t, 40, 12)
	s.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	require.NoError(t, run(s, &Config{Control: c, Xmax: 800, Ymax: 800}))
	assert.True(t, c.Quit())
	assert.True(t, c.World.Display.DrawNodes)
	assert.True(t, strings.Contains(control.Help, "toggle drawing of nodes"))
}
