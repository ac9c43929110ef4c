package diffgrowth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
		msg    string
	}{
		{"negative min", func(s *Settings) { s.MinDistance = -1 }, "MinDistance must not be negative"},
		{"zero max", func(s *Settings) { s.MaxDistance = 0 }, "MaxDistance must be positive"},
		{"min above max", func(s *Settings) { s.MinDistance = 40 }, "must not exceed MaxDistance"},
		{"negative radius", func(s *Settings) { s.RepulsionRadius = -2 }, "RepulsionRadius"},
		{"zero velocity", func(s *Settings) { s.MaxVelocity = 0 }, "MaxVelocity"},
		{"fast velocity", func(s *Settings) { s.MaxVelocity = 1.5 }, "MaxVelocity"},
		{"negative attraction", func(s *Settings) { s.AttractionForce = -0.1 }, "AttractionForce"},
		{"negative repulsion", func(s *Settings) { s.RepulsionForce = -1 }, "RepulsionForce"},
		{"negative alignment", func(s *Settings) { s.AlignmentForce = -1 }, "AlignmentForce"},
		{"one node", func(s *Settings) { s.MaxNodes = 1 }, "MaxNodes"},
		{"negative interval", func(s *Settings) { s.NodeInjectionInterval = -time.Second }, "NodeInjectionInterval"},
		{"negative jitter", func(s *Settings) { s.BrownianMotionRange = -1 }, "BrownianMotionRange"},
		{"negative time step", func(s *Settings) { s.TimeStep = -time.Millisecond }, "TimeStep"},
		{"flat walls", func(s *Settings) { s.Height = 0 }, "walls"},
		{"negative history", func(s *Settings) { s.MaxHistorySize = -1 }, "MaxHistorySize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings
			tt.modify(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestSettingsValidateEdges(t *testing.T) {
	s := DefaultSettings
	s.MinDistance = s.MaxDistance
	s.MaxVelocity = 1
	s.UseWalls = false
	s.Width, s.Height = 0, 0
	assert.NoError(t, s.Validate())
}

func TestSettingsValidateReportsAll(t *testing.T) {
	s := DefaultSettings
	s.MaxVelocity = 0
	s.MaxNodes = 0
	err := s.Validate()
	assert.ErrorContains(t, err, "MaxVelocity")
	assert.ErrorContains(t, err, "MaxNodes")
}
