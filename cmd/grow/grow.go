// Command grow runs differential growth simulations.
//
// # Usage
//
// The grow command takes one optional argument:
//
//	grow [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
//
// # Config file
//
// The config file is written in TOML, see https://toml.io for the language.
// Keys are the field names of Config and the growth parameters live in a
// [Settings] table, for instance:
//
//	Scene = "phyllotaxis"
//	Viewer = "terminal"
//
//	[Settings]
//	MaxDistance = 25
//	NodeInjectionInterval = "250ms"
//
// With Watch set, the config file is reloaded whenever it changes and the
// new settings are applied to the running simulation.
//
// # Outputs
//
// An Output ending in .h5 records node positions at every step in an HDF5
// file, one ending in .svg exports the paths after the last step and one
// ending in .yaml saves the final scene so it can be loaded again.
//
// # Interactive mode
//
// The simulation can be paused and resumed with space.
// While in pause, pressing right arrow will perform a single step.
// Keys 1 to 9 switch between the built-in scenes, s exports the current
// paths to an SVG file and Esc quits.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/randx"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"github.com/jasonwebb/diffgrowth/opengl"
	"github.com/jasonwebb/diffgrowth/scene"
	"github.com/jasonwebb/diffgrowth/svg"
	"github.com/jasonwebb/diffgrowth/term"
)

const usage = `Usage: grow [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	path := ""
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		path = os.Args[1]
		conf, err = ParseConfig(path)
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	g, err := setup(conf)
	if err != nil {
		Fatal(err)
	}

	if conf.Watch && path != "" {
		stop, err := watch(path, g.settings)
		if err != nil {
			Fatal(err)
		}
		defer stop()
	}

	if err := run(conf, g); err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// A grower owns the simulation and the controller shared by all outputs.
type grower struct {
	conf     *Config
	rnd      randx.Rand
	ctl      *control.Controller
	settings chan diffgrowth.Settings // settings reloaded by the watcher
}

// setup builds the initial scene and the controller.
func setup(conf *Config) (*grower, error) {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &grower{
		conf:     conf,
		rnd:      randx.NewSysRand(seed),
		settings: make(chan diffgrowth.Settings, 1),
	}
	i := sceneIndex(conf.Scene)
	if i < 0 {
		return nil, fmt.Errorf("bad scene %q", conf.Scene)
	}
	w, err := newWorld(conf, i, g.rnd)
	if err != nil {
		return nil, err
	}
	g.ctl = &control.Controller{
		World:   w,
		Step:    g.step,
		Restart: g.restart,
		Export:  g.export,
		Scene:   i,
	}
	slog.Info("setup", "scene", conf.Scene, "seed", seed, "paths", len(w.Paths), "nodes", w.NodeCount())
	return g, nil
}

// step applies pending settings and runs a single tick.
func (g *grower) step() {
	w := g.ctl.World
	select {
	case s := <-g.settings:
		if errors.Log(w.SetSettings(s)) == nil {
			slog.Info("settings reloaded")
		}
	default:
	}
	w.Iterate()
}

// restart replaces the world with a fresh copy of scene i.
func (g *grower) restart(i int) error {
	if i < 0 || i >= len(scenes) {
		return fmt.Errorf("no scene %d", i+1)
	}
	w, err := newWorld(g.conf, i, g.rnd)
	if err != nil {
		return err
	}
	// keep the state toggled from the keyboard
	old := g.ctl.World
	w.Paused = old.Paused
	w.UpdateDisplay(func(d *diffgrowth.Display) { *d = old.Display })
	w.SetBrownianMotion(old.UseBrownianMotion)
	g.ctl.World = w
	slog.Info("restart", "scene", scenes[i].name, "paths", len(w.Paths), "nodes", w.NodeCount())
	return nil
}

// export writes the current paths to a timestamped SVG file.
func (g *grower) export() error {
	name := g.conf.ExportPrefix + time.Now().Format("20060102-150405") + ".svg"
	if err := writeSVG(name, g.ctl.World, g.conf); err != nil {
		return err
	}
	slog.Info("export", "file", name)
	return nil
}

// run runs the simulation interactively or not depending on config.
func run(conf *Config, g *grower) error {
	w := g.ctl.World
	s := w.Settings
	switch ext := strings.ToLower(filepath.Ext(conf.Output)); {
	case conf.Output == "":
		switch conf.Viewer {
		case "opengl":
			return opengl.Run(&opengl.Config{
				Title:   "grow",
				Control: g.ctl,
				Xmax:    s.Width,
				Ymax:    s.Height,
			})
		case "terminal":
			return term.Run(&term.Config{
				Control: g.ctl,
				Xmax:    s.Width,
				Ymax:    s.Height,
			})
		default:
			return fmt.Errorf("bad viewer %q", conf.Viewer)
		}
	case ext == ".h5":
		return runHDF5(conf, g)
	case ext == ".svg" || ext == ".yaml" || ext == ".yml":
		w.Unpause()
		for k := 0; k < conf.Steps; k++ {
			g.step()
		}
		if ext == ".svg" {
			return writeSVG(conf.Output, g.ctl.World, conf)
		}
		return writeScene(conf.Output, g.ctl.World)
	default:
		return fmt.Errorf("bad output %q: unknown extension %q", conf.Output, ext)
	}
}

func writeSVG(name string, w *diffgrowth.World, conf *Config) (err error) {
	f, err := create(name)
	if err != nil {
		return err
	}
	defer checkClose(&err, f)
	return svg.Write(f, w, svg.Options{
		Width:   w.Settings.Width,
		Height:  w.Settings.Height,
		History: conf.ExportHistory,
		Style:   conf.ExportStyle,
	})
}

func writeScene(name string, w *diffgrowth.World) (err error) {
	f, err := create(name)
	if err != nil {
		return err
	}
	defer checkClose(&err, f)
	return scene.Save(f, w)
}

// create creates a file and its parent directories.
func create(name string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, err
	}
	return os.Create(name)
}

// checkClose closes c and reports its error unless err is already set.
func checkClose(err *error, c interface{ Close() error }) {
	if e := c.Close(); *err == nil {
		*err = e
	}
}
