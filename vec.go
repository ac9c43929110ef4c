package diffgrowth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Dist returns the Euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Dist2 returns the squared Euclidean distance between a and b.
func Dist2(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(b, a))
}

// Lerp returns a + (b-a)*t componentwise.
// A negative t moves away from b, past a.
func Lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Midpoint returns the arithmetic mean of a and b.
func Midpoint(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
