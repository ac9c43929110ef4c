package diffgrowth

import (
	"errors"
	"fmt"
	"time"
)

// Settings contains all the parameters of the growth algorithm.
// A World resolves its Settings once and hands a copy to every Path it owns.
type Settings struct {
	MinDistance     float64 `yaml:"min_distance"`     // edges shorter than this are pruned; attraction stops below it
	MaxDistance     float64 `yaml:"max_distance"`     // edges at least this long are split
	RepulsionRadius float64 `yaml:"repulsion_radius"` // default radius within which nodes push each other away

	MaxVelocity     float64 `yaml:"max_velocity"`     // fraction of the way a node moves toward its target per tick, in (0,1]
	AttractionForce float64 `yaml:"attraction_force"` // lerp factor toward topological neighbors
	RepulsionForce  float64 `yaml:"repulsion_force"`  // lerp factor away from nearby nodes (applied negated)
	AlignmentForce  float64 `yaml:"alignment_force"`  // lerp factor toward the midpoint of both neighbors

	MaxNodes              int           `yaml:"max_nodes"`               // soft cap on the number of nodes of a single path
	UseNodeInjection      bool          `yaml:"use_node_injection"`      // enable periodic node injection
	NodeInjectionInterval time.Duration `yaml:"node_injection_interval"` // simulated time between two injections

	UseBrownianMotion   bool    `yaml:"use_brownian_motion"`   // jiggle node positions every tick
	BrownianMotionRange float64 `yaml:"brownian_motion_range"` // width of the uniform jitter on each axis

	TimeStep time.Duration `yaml:"time_step"` // simulated time elapsed per tick

	// Rectangular walls used when a path has no Bounds.
	UseWalls bool    `yaml:"use_walls"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`

	// Periodic capture of node positions.
	RecordHistory   bool          `yaml:"record_history"`
	HistoryInterval time.Duration `yaml:"history_interval"`
	MaxHistorySize  int           `yaml:"max_history_size"`
}

// DefaultSettings are the default parameters.
var DefaultSettings = Settings{
	MinDistance:           20,
	MaxDistance:           30,
	RepulsionRadius:       20,
	MaxVelocity:           0.1,
	AttractionForce:       0.001,
	RepulsionForce:        500,
	AlignmentForce:        0.001,
	MaxNodes:              3000,
	UseNodeInjection:      true,
	NodeInjectionInterval: 100 * time.Millisecond,
	UseBrownianMotion:     true,
	BrownianMotionRange:   0.01,
	TimeStep:              time.Second / 60,
	UseWalls:              true,
	Width:                 800,
	Height:                800,
	RecordHistory:         false,
	HistoryInterval:       time.Second,
	MaxHistorySize:        10,
}

// ErrInvalidSettings is wrapped by every error returned by Settings.Validate.
var ErrInvalidSettings = errors.New("diffgrowth: invalid settings")

// Validate checks that the settings describe a well-formed simulation.
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(s.MinDistance >= 0, "MinDistance must not be negative (got %g)", s.MinDistance)
	check(s.MaxDistance > 0, "MaxDistance must be positive (got %g)", s.MaxDistance)
	check(s.MinDistance <= s.MaxDistance, "MinDistance (%g) must not exceed MaxDistance (%g)", s.MinDistance, s.MaxDistance)
	check(s.RepulsionRadius >= 0, "RepulsionRadius must not be negative (got %g)", s.RepulsionRadius)
	check(s.MaxVelocity > 0 && s.MaxVelocity <= 1, "MaxVelocity must be in (0,1] (got %g)", s.MaxVelocity)
	check(s.AttractionForce >= 0, "AttractionForce must not be negative (got %g)", s.AttractionForce)
	check(s.RepulsionForce >= 0, "RepulsionForce must not be negative (got %g)", s.RepulsionForce)
	check(s.AlignmentForce >= 0, "AlignmentForce must not be negative (got %g)", s.AlignmentForce)
	check(s.MaxNodes >= 2, "MaxNodes must be at least 2 (got %d)", s.MaxNodes)
	check(s.NodeInjectionInterval >= 0, "NodeInjectionInterval must not be negative (got %v)", s.NodeInjectionInterval)
	check(s.BrownianMotionRange >= 0, "BrownianMotionRange must not be negative (got %g)", s.BrownianMotionRange)
	check(s.TimeStep >= 0, "TimeStep must not be negative (got %v)", s.TimeStep)
	check(!s.UseWalls || (s.Width > 0 && s.Height > 0), "walls need a positive Width and Height (got %gx%g)", s.Width, s.Height)
	check(s.HistoryInterval >= 0, "HistoryInterval must not be negative (got %v)", s.HistoryInterval)
	check(s.MaxHistorySize >= 0, "MaxHistorySize must not be negative (got %d)", s.MaxHistorySize)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}
