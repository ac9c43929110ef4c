package main

import (
	"log/slog"
	"os"

	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/hdf5"
)

// Frames sized from the initial scene leave room for that much growth.
const (
	growthHeadroom = 16
	minFrameSize   = 4096
)

// runHDF5 runs a simulation and saves node positions at every step to an HDF5 file.
func runHDF5(conf *Config, g *grower) error {
	w := g.ctl.World
	n := frameSize(conf, w)
	err := hdf5.Run(w, &hdf5.Config{
		Output: conf.Output,
		Steps:  conf.Steps,
		Step:   g.step,
		Datasets: []*hdf5.Dataset{
			hdf5.Nodes(n),
			hdf5.Counts(),
			hdf5.Clock(),
		},
		Attrs:    conf,
		Progress: os.Stderr,
	})
	if c := g.ctl.World.NodeCount(); err == nil && c > n {
		slog.Warn("frames truncated, raise RecordNodes", "nodes", c, "recorded", n)
	}
	return err
}

// frameSize returns the number of node records per frame.
// It never exceeds what the paths of w can hold.
func frameSize(conf *Config, w *diffgrowth.World) int {
	if conf.RecordNodes > 0 {
		return conf.RecordNodes
	}
	n := max(growthHeadroom*w.NodeCount(), minFrameSize)
	return min(n, len(w.Paths)*w.Settings.MaxNodes)
}
