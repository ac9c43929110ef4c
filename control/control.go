// Package control maps the keys of the interactive viewers to actions on a World.
package control

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/jasonwebb/diffgrowth"
)

// Help describes the key bindings.
const Help = `Keys:
  space     pause or resume
  →         single step while paused
  r         restart the current scene
  1-9       switch to another scene and restart
  t         toggle trace mode
  n         toggle drawing of nodes
  d         toggle debug colors
  f         toggle fill of closed paths
  i         invert colors
  b         toggle drawing of bounds
  h         toggle drawing of history
  j         toggle Brownian motion
  s         export
  Esc, q    quit
`

// Special keys that have no rune.
const (
	KeyRight  rune = -1 - iota // right arrow
	KeyEscape                  // escape
)

// A Controller turns key presses into actions and drives the simulation loop
// of a viewer.
type Controller struct {
	World *diffgrowth.World

	// Step runs a single tick, World.Iterate if nil.
	Step func()

	// Restart rebuilds the paths of scene i, r and digit keys are ignored if nil.
	Restart func(scene int) error

	// Export saves the current state, s is ignored if nil.
	Export func() error

	Scene int // current scene, changed by digit keys

	step bool
	quit bool
}

// Key performs the action bound to k.
// It reports whether the key was bound to anything.
func (c *Controller) Key(k rune) bool {
	w := c.World
	switch k {
	case KeyEscape, 'q':
		c.quit = true
	case ' ':
		w.TogglePause()
		slog.Info("pause", "paused", w.Paused, "nodes", w.NodeCount())
	case KeyRight:
		if w.Paused {
			c.step = true
		}
	case 'r':
		c.restart(c.Scene)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		c.restart(int(k - '1'))
	case 't':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.Trace = !d.Trace })
	case 'n':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.DrawNodes = !d.DrawNodes })
	case 'd':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.Debug = !d.Debug })
	case 'f':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.Fill = !d.Fill })
	case 'i':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.InvertedColors = !d.InvertedColors })
	case 'b':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.ShowBounds = !d.ShowBounds })
	case 'h':
		w.UpdateDisplay(func(d *diffgrowth.Display) { d.DrawHistory = !d.DrawHistory })
	case 'j':
		w.SetBrownianMotion(!w.UseBrownianMotion)
	case 's':
		if c.Export != nil {
			errors.Log(c.Export())
		}
	default:
		return false
	}
	return true
}

func (c *Controller) restart(scene int) {
	if c.Restart == nil {
		return
	}
	if errors.Log(c.Restart(scene)) == nil {
		c.Scene = scene
	}
}

// Tick advances the simulation by one frame.
// A paused world only moves when a single step was requested.
func (c *Controller) Tick() {
	step := c.Step
	if step == nil {
		step = c.World.Iterate
	}
	if c.step {
		c.step = false
		c.World.Unpause()
		step()
		c.World.Pause()
		return
	}
	step()
}

// Quit reports whether the user asked to quit.
func (c *Controller) Quit() bool {
	return c.quit
}
