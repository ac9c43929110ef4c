//go:build nogl

// Package opengl runs interactive simulations in an OpenGL window.
package opengl

import (
	"fmt"
	"os"

	"github.com/jasonwebb/diffgrowth/control"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	// Window title.
	Title string

	// Key bindings and simulation loop.
	Control *control.Controller

	// Bounds of default viewport.
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run returns an error explaining that OpenGL support is disabled.
func Run(conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
