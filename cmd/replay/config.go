package main

import (
	"github.com/BurntSushi/toml"
	"github.com/jasonwebb/diffgrowth"
)

// Config holds the various parameters required for replaying a simulation.
type Config struct {
	// Input is the HDF5 file recorded by grow.
	Input string

	// Output is either a directory for SVG frames,
	// or the empty string for an interactive replay.
	Output string

	Viewer string // possible values: opengl, terminal
	Every  int    // keep one frame out of Every (SVG only)

	// Size of the viewport and of exported frames
	Width  float64 // unit: px
	Height float64 // unit: px

	Style   string // style attribute of exported paths
	Display diffgrowth.Display
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Input:  "grow.h5",
	Output: "",
	Viewer: "opengl",
	Every:  1,
	Width:  diffgrowth.DefaultSettings.Width,
	Height: diffgrowth.DefaultSettings.Height,
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	_, err := toml.DecodeFile(path, &conf)
	return &conf, err
}
