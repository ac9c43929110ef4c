// Command replay plays back a simulation recorded by grow in an HDF5 file.
//
// # Usage
//
// The replay command takes one optional argument:
//
//	replay [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, grow.h5 is replayed in an OpenGL window.
//
// # Interactive mode
//
// Space pauses the replay and right arrow shows the next frame.
// Keys 1 to 9 jump to the matching ninth of the recording and r jumps back
// to the start of the last selected ninth, the first frame until a digit is
// pressed. s exports the current frame as an SVG file.
//
// # Frames
//
// With a non-empty Output, every frame is written to that directory as an
// SVG file named after its index.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"cogentcore.org/core/base/errors"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"github.com/jasonwebb/diffgrowth/hdf5"
	"github.com/jasonwebb/diffgrowth/opengl"
	"github.com/jasonwebb/diffgrowth/seed"
	"github.com/jasonwebb/diffgrowth/svg"
	"github.com/jasonwebb/diffgrowth/term"
)

const usage = `Usage: replay [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, grow.h5 is replayed in an OpenGL window.
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
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	r, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	err = run(conf, r)
	if e := r.loader.Close(); err == nil {
		err = e
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// A replayer shows the frames of a loader in a world.
type replayer struct {
	conf   *Config
	loader *hdf5.Loader
	shapes []seed.Shape
	frame  int // index of the frame shown
	ctl    *control.Controller
}

// setup opens the recording and shows its first frame.
func setup(conf *Config) (*replayer, error) {
	s := diffgrowth.DefaultSettings
	s.Width, s.Height = conf.Width, conf.Height
	w, err := diffgrowth.NewWorld(s, nil)
	if err != nil {
		return nil, err
	}
	w.UpdateDisplay(func(d *diffgrowth.Display) { *d = conf.Display })

	l, err := hdf5.NewLoader(conf.Input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", conf.Input, err)
	}
	r := &replayer{conf: conf, loader: l}
	r.ctl = &control.Controller{
		World:   w,
		Step:    r.step,
		Restart: r.seek,
		Export:  r.export,
	}
	if err := r.next(); err != nil {
		errors.Log(l.Close())
		return nil, err
	}
	slog.Info("setup", "file", conf.Input, "frames", l.Len())
	return r, nil
}

// next loads the next frame into the world, cycling at the end.
func (r *replayer) next() error {
	r.frame = r.loader.Pos()
	if err := r.loader.Load(&r.shapes); err != nil {
		return err
	}
	w := r.ctl.World
	w.ClearPaths()
	for _, s := range r.shapes {
		if _, err := w.NewPath(s.Points, s.Closed); err != nil {
			return err
		}
	}
	return nil
}

// step shows the next frame unless paused.
func (r *replayer) step() {
	if r.ctl.World.Paused {
		return
	}
	errors.Log(r.next())
}

// seek jumps to the i-th ninth of the recording.
func (r *replayer) seek(i int) error {
	if err := r.loader.Seek(i * r.loader.Len() / 9); err != nil {
		return err
	}
	return r.next()
}

// export writes the frame shown as an SVG file in the working directory.
func (r *replayer) export() error {
	name := fmt.Sprintf("frame-%05d.svg", r.frame)
	if err := writeSVG(name, r.ctl.World, r.conf); err != nil {
		return err
	}
	slog.Info("export", "file", name)
	return nil
}

// run replays interactively or writes SVG frames depending on config.
func run(conf *Config, r *replayer) error {
	if conf.Output != "" {
		return writeFrames(conf, r)
	}
	switch conf.Viewer {
	case "opengl":
		return opengl.Run(&opengl.Config{
			Title:   "replay " + filepath.Base(conf.Input),
			Control: r.ctl,
			Xmax:    conf.Width,
			Ymax:    conf.Height,
		})
	case "terminal":
		return term.Run(&term.Config{
			Control: r.ctl,
			Xmax:    conf.Width,
			Ymax:    conf.Height,
		})
	default:
		return fmt.Errorf("bad viewer %q", conf.Viewer)
	}
}

// writeFrames writes one frame out of conf.Every to the output directory.
func writeFrames(conf *Config, r *replayer) error {
	every := max(conf.Every, 1)
	if err := os.MkdirAll(conf.Output, 0755); err != nil {
		return err
	}
	if err := r.loader.Seek(0); err != nil {
		return err
	}
	for k := 0; k < r.loader.Len(); k++ {
		if err := r.next(); err != nil {
			return err
		}
		if k%every != 0 {
			continue
		}
		name := filepath.Join(conf.Output, fmt.Sprintf("frame-%05d.svg", k))
		if err := writeSVG(name, r.ctl.World, conf); err != nil {
			return err
		}
	}
	return nil
}

func writeSVG(name string, w *diffgrowth.World, conf *Config) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	return svg.Write(f, w, svg.Options{
		Width:  conf.Width,
		Height: conf.Height,
		Style:  conf.Style,
	})
}
