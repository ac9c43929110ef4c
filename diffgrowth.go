// Package diffgrowth runs 2D differential growth simulations.
//
// A World contains paths: open or closed polylines of nodes.
// At every tick, each node is attracted by its neighbors along the path,
// repelled by nearby nodes of any path and pulled toward the midpoint of
// its neighbors to reduce curvature. Edges that grow too long are split,
// nodes that get too close are pruned and new nodes are injected every
// so often, so paths keep folding into coral-like patterns.
//
// The simulation is single-threaded and, given a seeded random source,
// deterministic.
package diffgrowth

import (
	"slices"
	"time"

	"cogentcore.org/core/base/randx"
	"gonum.org/v1/gonum/spatial/r2"
)

// A World contains all the paths and parameters of a simulation.
type World struct {
	Paths    []*Path
	Paused   bool
	Settings Settings

	// Display and UseBrownianMotion are pushed to every added path.
	Display           Display
	UseBrownianMotion bool

	// Rand is the only source of randomness of the simulation.
	Rand randx.Rand

	index       *Index
	clock       time.Duration // simulated time
	lastHistory time.Duration
	ticks       int
}

// NewWorld returns a world with the given settings and random source.
// A nil rnd uses the global random source.
func NewWorld(s Settings, rnd randx.Rand) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	return &World{
		Settings:          s,
		UseBrownianMotion: s.UseBrownianMotion,
		Rand:              rnd,
		index:             NewIndex(),
	}, nil
}

// Iterate runs a single tick of the simulation.
// Dead paths are removed and the spatial index is rebuilt even when paused.
func (w *World) Iterate() {
	w.prunePaths()
	if w.index == nil {
		w.index = NewIndex()
	}
	w.index.LoadPaths(w.Paths)
	if w.Paused {
		return
	}
	w.clock += w.Settings.TimeStep
	for _, p := range w.Paths {
		p.Iterate(w.index, w.clock, w.Rand)
	}
	w.ticks++

	s := &w.Settings
	if s.RecordHistory && w.clock-w.lastHistory >= s.HistoryInterval {
		w.AddToHistory()
		w.lastHistory = w.clock
	}
}

// prunePaths removes any path with fewer than two nodes.
func (w *World) prunePaths() {
	w.Paths = slices.DeleteFunc(w.Paths, func(p *Path) bool {
		return len(p.Nodes) <= 1
	})
}

// NewPath creates a path with the settings of the world and adds it.
func (w *World) NewPath(points []r2.Vec, closed bool) (*Path, error) {
	p, err := NewPath(points, closed, w.Settings)
	if err != nil {
		return nil, err
	}
	w.AddPath(p)
	return p, nil
}

// AddPath adds a path to the world, making its display flags
// and Brownian motion match the current global state.
func (w *World) AddPath(p *Path) {
	p.Display = w.Display
	p.UseBrownianMotion = w.UseBrownianMotion
	w.Paths = append(w.Paths, p)
}

// AddPaths adds multiple paths to the world.
func (w *World) AddPaths(paths ...*Path) {
	for _, p := range paths {
		w.AddPath(p)
	}
}

// ClearPaths removes all paths.
func (w *World) ClearPaths() {
	w.Paths = nil
	if w.index != nil {
		w.index.Clear()
	}
}

// Pause stops the simulation.
func (w *World) Pause() { w.Paused = true }

// Unpause resumes the simulation.
func (w *World) Unpause() { w.Paused = false }

// TogglePause pauses a running simulation and resumes a paused one.
func (w *World) TogglePause() { w.Paused = !w.Paused }

// SetSettings validates s and pushes it to the world and all its paths.
func (w *World) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	w.Settings = s
	for _, p := range w.Paths {
		p.Settings = s
	}
	return nil
}

// UpdateDisplay applies f to the display flags of the world and all its paths.
func (w *World) UpdateDisplay(f func(d *Display)) {
	f(&w.Display)
	for _, p := range w.Paths {
		f(&p.Display)
	}
}

// SetBrownianMotion turns Brownian motion on or off for the world and all its paths.
func (w *World) SetBrownianMotion(on bool) {
	w.UseBrownianMotion = on
	for _, p := range w.Paths {
		p.UseBrownianMotion = on
	}
}

// AddToHistory records a snapshot of every path.
func (w *World) AddToHistory() {
	for _, p := range w.Paths {
		p.AddToHistory()
	}
}

// Index returns the spatial index as built by the last call to Iterate.
func (w *World) Index() *Index { return w.index }

// Clock returns the simulated time elapsed while not paused.
func (w *World) Clock() time.Duration { return w.clock }

// Ticks returns the number of ticks run while not paused.
func (w *World) Ticks() int { return w.ticks }

// NodeCount returns the total number of nodes over all paths.
func (w *World) NodeCount() int {
	n := 0
	for _, p := range w.Paths {
		n += len(p.Nodes)
	}
	return n
}
