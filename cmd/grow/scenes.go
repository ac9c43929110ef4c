package main

import (
	"fmt"
	"os"

	"cogentcore.org/core/base/randx"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/scene"
	"github.com/jasonwebb/diffgrowth/seed"
	"github.com/jasonwebb/diffgrowth/svg"
	"gonum.org/v1/gonum/spatial/r2"
)

// scenes are the built-in scenes, in the order of the digit keys.
// The yaml scene loads a whole world and is handled by newWorld.
var scenes = []struct {
	name  string
	build func(conf *Config, center r2.Vec, rnd randx.Rand) ([]seed.Shape, error)
}{
	{"polygon", polygon},
	{"line", line},
	{"lines", lines},
	{"arcs", arcs},
	{"ring", ring},
	{"nucleation", nucleation},
	{"phyllotaxis", phyllotaxis},
	{"polygons", polygons},
	{"svg", svgFile},
	{"yaml", nil},
}

// sceneIndex returns the index of the named scene or -1.
func sceneIndex(name string) int {
	for i, s := range scenes {
		if s.name == name {
			return i
		}
	}
	return -1
}

// newWorld builds scene i with the parameters of conf.
func newWorld(conf *Config, i int, rnd randx.Rand) (*diffgrowth.World, error) {
	if scenes[i].build == nil {
		return loadScene(conf.SceneInput, rnd)
	}

	w, err := diffgrowth.NewWorld(conf.Settings, rnd)
	if err != nil {
		return nil, err
	}
	w.UpdateDisplay(func(d *diffgrowth.Display) { *d = conf.Display })

	center := r2.Vec{X: conf.Settings.Width / 2, Y: conf.Settings.Height / 2}
	shapes, err := scenes[i].build(conf, center, rnd)
	if err != nil {
		return nil, err
	}

	var bounds diffgrowth.Bounds
	if conf.Bounds >= 3 {
		bounds = diffgrowth.Polygon(seed.Polygon(conf.Bounds, conf.BoundsRadius, conf.Rotation, center).Points)
	}
	for _, s := range shapes {
		p, err := w.NewPath(s.Points, s.Closed)
		if err != nil {
			return nil, err
		}
		p.InjectionMode = conf.Injection
		p.SplitMode = conf.Split
		p.Bounds = bounds
	}
	return w, nil
}

func loadScene(name string, rnd randx.Rand) (w *diffgrowth.World, err error) {
	if name == "" {
		return nil, fmt.Errorf("yaml scene requires SceneInput")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, f)
	return scene.Load(f, rnd)
}

func polygon(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	if conf.Sides < 3 {
		return nil, fmt.Errorf("polygon scene requires at least 3 sides, got %d", conf.Sides)
	}
	return []seed.Shape{seed.Polygon(conf.Sides, conf.Radius, conf.Rotation, center)}, nil
}

// line is a single horizontal line across the middle half of the world.
func line(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	d := r2.Vec{X: conf.Settings.Width / 4}
	return []seed.Shape{seed.Line(r2.Sub(center, d), r2.Add(center, d))}, nil
}

func lines(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	delta := r2.Vec{X: conf.DeltaX, Y: conf.DeltaY}
	return seed.Lines(conf.Rows, conf.Cols, conf.RowSpacing, conf.ColSpacing, delta, center), nil
}

// arcs are two arcs of radial lines in opposite corners.
func arcs(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	a := seed.Arc(r2.Add(center, r2.Vec{X: -350, Y: 375}), 270, 360, 375, 66, 100)
	b := seed.Arc(r2.Add(center, r2.Vec{X: 350, Y: -375}), 90, 180, 375, 60, 100)
	return append(a, b...), nil
}

// ring is a full ring of radial lines.
func ring(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	return seed.Arc(center, 0, 360, 75, 60, 50), nil
}

// nucleationSites are arcs of radial lines around several centers.
var nucleationSites = []struct {
	x, y, start, end, r float64
	n                   int
	length              float64
}{
	{-200, -210, 0, 360, 25, 55, 100},
	{60, -100, 0, 360, 25, 30, 35},
	{-80, -20, 0, 360, 50, 45, 25},
	{150, 150, 0, 360, 100, 60, 70},
	{-40, -150, 0, 360, 15, 18, 10},
	{-400, 400, 270, 360, 400, 60, 30},
	{-400, 400, 270, 360, 350, 15, 20},
	{-400, 400, 270, 360, 300, 7, 40},
	{-400, 400, 270, 360, 200, 30, 75},
	{125, -400, 0, 180, 175, 45, 30},
	{275, -110, 0, 360, 75, 45, 15},
}

func nucleation(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	var shapes []seed.Shape
	for _, s := range nucleationSites {
		c := r2.Add(center, r2.Vec{X: s.x, Y: s.y})
		shapes = append(shapes, seed.Arc(c, s.start, s.end, s.r, s.n, s.length)...)
	}
	return shapes, nil
}

func phyllotaxis(conf *Config, center r2.Vec, _ randx.Rand) ([]seed.Shape, error) {
	return seed.Phyllotaxis(center, conf.Count, conf.Spiral, conf.Hole), nil
}

func polygons(conf *Config, center r2.Vec, rnd randx.Rand) ([]seed.Shape, error) {
	return seed.Polygons(rnd, conf.Polygons, conf.Attempts, 0, conf.MinRadius, conf.MaxRadius, conf.Spread, conf.Rotate, center), nil
}

// svgFile loads the paths of an SVG file as they are.
func svgFile(conf *Config, _ r2.Vec, _ randx.Rand) (shapes []seed.Shape, err error) {
	if conf.SVGInput == "" {
		return nil, fmt.Errorf("svg scene requires SVGInput")
	}
	f, err := os.Open(conf.SVGInput)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, f)
	return svg.Parse(f, conf.SVGEpsilon)
}
