package main

import (
	"github.com/BurntSushi/toml"
	"github.com/jasonwebb/diffgrowth"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 (.h5), SVG (.svg)
	// or scene (.yaml) output file, or the empty string for an
	// interactive simulation.
	Output string

	Viewer string // possible values: opengl, terminal
	Steps  int    // number of time steps (non-interactive only)
	Seed   int64  // seed of the random source, time-based if zero
	Watch  bool   // reload the settings when the config file changes

	// Scene is the initial geometry, possible values:
	// polygon, line, lines, arcs, ring, nucleation, phyllotaxis, polygons, svg, yaml
	Scene string

	// Polygon parameters, Rotation also applies to the bounds
	Sides    int     // number of vertices
	Radius   float64 // unit: px
	Rotation float64 // unit: degree

	// Lines parameters
	Rows       int     // unit: 1
	Cols       int     // unit: 1
	RowSpacing float64 // unit: px
	ColSpacing float64 // unit: px
	DeltaX     float64 // unit: px
	DeltaY     float64 // unit: px

	// Phyllotaxis parameters
	Count  int     // number of circles
	Spiral float64 // unit: px
	Hole   float64 // unit: px

	// Polygons parameters, sides are picked at random
	Polygons  int     // maximum number of polygons
	Attempts  int     // number of placement attempts
	MinRadius float64 // unit: px
	MaxRadius float64 // unit: px
	Spread    float64 // unit: px
	Rotate    bool    // random rotation

	// Input files
	SVGInput   string  // paths of the svg scene
	SVGEpsilon float64 // subpaths ending this close to their start are closed, unit: px
	SceneInput string  // YAML file of the yaml scene

	// Bounds is the number of vertices of a regular polygon bounding every
	// path, with radius BoundsRadius. Walls are used if Bounds < 3.
	Bounds       int
	BoundsRadius float64 // unit: px

	// RecordNodes is the number of nodes recorded per frame in an HDF5 output.
	// If zero, it is sized from the initial scene.
	RecordNodes int

	Injection diffgrowth.InjectionMode // possible values: random, curvature
	Split     diffgrowth.SplitMode     // possible values: inplace, deferred

	// SVG export parameters
	ExportPrefix  string // prefix of files exported with the s key
	ExportHistory bool   // also export history snapshots
	ExportStyle   string // style attribute of exported paths

	Display  diffgrowth.Display
	Settings diffgrowth.Settings
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:       "",
	Viewer:       "opengl",
	Steps:        1000,
	Scene:        "polygon",
	Sides:        24,
	Radius:       100,
	Rows:         10,
	Cols:         16,
	RowSpacing:   38,
	ColSpacing:   20,
	DeltaX:       -30,
	DeltaY:       30,
	Count:        800,
	Spiral:       300,
	Hole:         100,
	Polygons:     20,
	Attempts:     1000,
	MinRadius:    10,
	MaxRadius:    60,
	Spread:       300,
	SVGEpsilon:   1,
	BoundsRadius: 350,
	Injection:    diffgrowth.InjectRandom,
	Split:        diffgrowth.SplitInPlace,
	ExportPrefix: "diffgrowth-",
	Settings:     diffgrowth.DefaultSettings,
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	_, err := toml.DecodeFile(path, &conf)
	return &conf, err
}
