package diffgrowth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolygonContains(t *testing.T) {
	// a U shape, open at the top
	u := Polygon{
		{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30}, {X: 20, Y: 30},
		{X: 20, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 30}, {X: 0, Y: 30},
	}
	tests := []struct {
		p  r2.Vec
		in bool
	}{
		{r2.Vec{X: 5, Y: 5}, true},
		{r2.Vec{X: 5, Y: 25}, true},
		{r2.Vec{X: 25, Y: 25}, true},
		{r2.Vec{X: 15, Y: 5}, true},
		{r2.Vec{X: 15, Y: 20}, false},
		{r2.Vec{X: -5, Y: 5}, false},
		{r2.Vec{X: 5, Y: 35}, false},
		{r2.Vec{X: 40, Y: 15}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.in, u.Contains(tt.p), "%v", tt.p)
	}
	assert.False(t, Polygon(nil).Contains(r2.Vec{}))
}

func TestRectContains(t *testing.T) {
	r := Rect{Min: r2.Vec{X: -1, Y: -1}, Max: r2.Vec{X: 1, Y: 2}}
	assert.True(t, r.Contains(r2.Vec{}))
	assert.True(t, r.Contains(r2.Vec{X: 1, Y: 2}))
	assert.False(t, r.Contains(r2.Vec{X: 1.5}))
	assert.False(t, r.Contains(r2.Vec{Y: -2}))
}
