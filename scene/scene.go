// Package scene saves and restores the state of a simulation as YAML.
//
// A scene holds the settings and display flags of a World and, for every
// path, its modes, bounds and nodes. Nodes keep their anchor flag and
// their per-node overrides. Simulated time and history are not saved.
package scene

import (
	"fmt"
	"io"

	"cogentcore.org/core/base/randx"
	"github.com/jasonwebb/diffgrowth"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

// A Scene is the YAML document of a saved World.
type Scene struct {
	Settings       diffgrowth.Settings `yaml:"settings"`
	Display        diffgrowth.Display  `yaml:"display"`
	BrownianMotion bool                `yaml:"brownian_motion"`
	Paused         bool                `yaml:"paused,omitempty"`
	Paths          []Path              `yaml:"paths"`
}

// A Path is a saved diffgrowth.Path.
type Path struct {
	Closed    bool                     `yaml:"closed,omitempty"`
	Injection diffgrowth.InjectionMode `yaml:"injection"`
	Split     diffgrowth.SplitMode     `yaml:"split"`
	Bounds    *Bounds                  `yaml:"bounds,omitempty"`
	Nodes     []Node                   `yaml:"nodes"`
}

// Bounds holds either a polygon or a rectangle.
type Bounds struct {
	Polygon [][2]float64 `yaml:"polygon,omitempty,flow"`
	Rect    []float64    `yaml:"rect,omitempty,flow"` // min x, min y, max x, max y
}

// A Node is a saved diffgrowth.Node.
type Node struct {
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	Fixed           bool    `yaml:"fixed,omitempty"`
	MinDistance     float64 `yaml:"min_distance,omitempty"`
	RepulsionRadius float64 `yaml:"repulsion_radius,omitempty"`
}

// MarshalYAML writes nodes on a single line.
func (n Node) MarshalYAML() (any, error) {
	type plain Node
	var y yaml.Node
	if err := y.Encode(plain(n)); err != nil {
		return nil, err
	}
	y.Style = yaml.FlowStyle
	return &y, nil
}

// New returns the scene of w.
func New(w *diffgrowth.World) (*Scene, error) {
	s := &Scene{
		Settings:       w.Settings,
		Display:        w.Display,
		BrownianMotion: w.UseBrownianMotion,
		Paused:         w.Paused,
		Paths:          make([]Path, len(w.Paths)),
	}
	for i, p := range w.Paths {
		sp := Path{
			Closed:    p.Closed,
			Injection: p.InjectionMode,
			Split:     p.SplitMode,
			Nodes:     make([]Node, len(p.Nodes)),
		}
		for j, n := range p.Nodes {
			sp.Nodes[j] = Node{
				X:               n.Pos.X,
				Y:               n.Pos.Y,
				Fixed:           n.Fixed,
				MinDistance:     n.MinDistance,
				RepulsionRadius: n.RepulsionRadius,
			}
		}
		switch b := p.Bounds.(type) {
		case nil:
		case diffgrowth.Polygon:
			sp.Bounds = &Bounds{Polygon: make([][2]float64, len(b))}
			for j, v := range b {
				sp.Bounds.Polygon[j] = [2]float64{v.X, v.Y}
			}
		case diffgrowth.Rect:
			sp.Bounds = &Bounds{Rect: []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y}}
		default:
			return nil, fmt.Errorf("scene: path %d: unsupported bounds %T", i, b)
		}
		s.Paths[i] = sp
	}
	return s, nil
}

// World builds a new world from the scene.
// A nil rnd uses the global random source.
func (s *Scene) World(rnd randx.Rand) (*diffgrowth.World, error) {
	w, err := diffgrowth.NewWorld(s.Settings, rnd)
	if err != nil {
		return nil, err
	}
	w.Display = s.Display
	w.UseBrownianMotion = s.BrownianMotion
	w.Paused = s.Paused

	for i, sp := range s.Paths {
		p, err := diffgrowth.NewPath(nil, sp.Closed, s.Settings)
		if err != nil {
			return nil, err
		}
		p.InjectionMode = sp.Injection
		p.SplitMode = sp.Split
		for _, sn := range sp.Nodes {
			if sn.MinDistance < 0 || sn.RepulsionRadius < 0 {
				return nil, fmt.Errorf("scene: path %d: negative node override", i)
			}
			n := diffgrowth.NewNode(r2.Vec{X: sn.X, Y: sn.Y})
			n.Fixed = sn.Fixed
			n.MinDistance = sn.MinDistance
			n.RepulsionRadius = sn.RepulsionRadius
			p.AddNode(n)
		}
		if p.Bounds, err = sp.Bounds.bounds(); err != nil {
			return nil, fmt.Errorf("scene: path %d: %w", i, err)
		}
		w.AddPath(p)
	}
	return w, nil
}

func (b *Bounds) bounds() (diffgrowth.Bounds, error) {
	switch {
	case b == nil:
		return nil, nil
	case len(b.Polygon) > 0 && len(b.Rect) > 0:
		return nil, fmt.Errorf("bounds have both a polygon and a rect")
	case len(b.Polygon) > 0:
		if len(b.Polygon) < 3 {
			return nil, fmt.Errorf("bounds polygon needs at least 3 vertices, got %d", len(b.Polygon))
		}
		poly := make(diffgrowth.Polygon, len(b.Polygon))
		for i, v := range b.Polygon {
			poly[i] = r2.Vec{X: v[0], Y: v[1]}
		}
		return poly, nil
	case len(b.Rect) == 4:
		return diffgrowth.Rect{
			Min: r2.Vec{X: b.Rect[0], Y: b.Rect[1]},
			Max: r2.Vec{X: b.Rect[2], Y: b.Rect[3]},
		}, nil
	}
	return nil, fmt.Errorf("bounds need a polygon or a rect of 4 values")
}

// Save writes the scene of w to out.
func Save(out io.Writer, w *diffgrowth.World) error {
	s, err := New(w)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return enc.Close()
}

// Load reads a scene from r and builds its world.
// Unknown keys are errors. Settings missing from the file keep their default value.
func Load(r io.Reader, rnd randx.Rand) (*diffgrowth.World, error) {
	s := &Scene{Settings: diffgrowth.DefaultSettings}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return s.World(rnd)
}
