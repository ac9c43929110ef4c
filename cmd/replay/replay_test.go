package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"github.com/jasonwebb/diffgrowth/hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// record writes a recording of steps frames with a growing line and a square.
func record(t *testing.T, steps int) string {
	t.Helper()
	s := diffgrowth.DefaultSettings
	s.UseBrownianMotion = false
	s.UseNodeInjection = false
	w, err := diffgrowth.NewWorld(s, nil)
	require.NoError(t, err)
	_, err = w.NewPath([]r2.Vec{{X: 100, Y: 100}, {X: 200, Y: 100}}, false)
	require.NoError(t, err)
	_, err = w.NewPath([]r2.Vec{{X: 400, Y: 400}, {X: 425, Y: 400}, {X: 425, Y: 425}, {X: 400, Y: 425}}, true)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "grow.h5")
	require.NoError(t, hdf5.Run(w, &hdf5.Config{
		Output:   out,
		Steps:    steps,
		Datasets: []*hdf5.Dataset{hdf5.Nodes(64)},
	}))
	return out
}

func testConf(t *testing.T) *Config {
	conf := *DefaultConf
	conf.Input = record(t, 10)
	return &conf
}

func TestSetup(t *testing.T) {
	conf := testConf(t)
	conf.Display.DrawNodes = true
	r, err := setup(conf)
	require.NoError(t, err)
	defer r.loader.Close()

	w := r.ctl.World
	require.Len(t, w.Paths, 2)
	assert.False(t, w.Paths[0].Closed)
	assert.True(t, w.Paths[1].Closed)
	assert.True(t, w.Paths[1].Display.DrawNodes)
	assert.Equal(t, 0, r.frame)

	conf.Input = filepath.Join(t.TempDir(), "missing.h5")
	_, err = setup(conf)
	assert.Error(t, err)
}

func TestControls(t *testing.T) {
	r, err := setup(testConf(t))
	require.NoError(t, err)
	defer r.loader.Close()
	c := r.ctl

	c.Tick()
	assert.Equal(t, 1, r.frame)

	c.Key(' ')
	c.Tick()
	assert.Equal(t, 1, r.frame, "paused")
	c.Key(control.KeyRight)
	c.Tick()
	assert.Equal(t, 2, r.frame, "single step")
	assert.True(t, c.World.Paused)
	c.Key('r')
	assert.Equal(t, 0, r.frame, "no ninth selected yet")

	c.Key('6')
	assert.Equal(t, 5, r.frame)
	c.Key('r')
	assert.Equal(t, 5, r.frame, "restart goes back to the selected ninth")
	c.Key('1')
	assert.Equal(t, 0, r.frame)
	assert.Len(t, c.World.Paths, 2)
}

func TestWriteFrames(t *testing.T) {
	conf := testConf(t)
	conf.Output = filepath.Join(t.TempDir(), "frames")
	conf.Every = 3
	r, err := setup(conf)
	require.NoError(t, err)
	defer r.loader.Close()

	require.NoError(t, run(conf, r))
	files, err := filepath.Glob(filepath.Join(conf.Output, "*.svg"))
	require.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	assert.Equal(t, []string{"frame-00000.svg", "frame-00003.svg", "frame-00006.svg", "frame-00009.svg"}, names)

	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `d="M100,100 L200,100"`)

	conf.Output = ""
	conf.Viewer = "paper"
	assert.Error(t, run(conf, r))
}
