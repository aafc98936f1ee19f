// pkg/physics/angle.go
package physics

import "math"

// NormalizeAngle wraps an angle into the canonical range (-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b,
// normalized into (-π, π].
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// WithinArc reports whether bearing falls inside the arc centered on
// facing with the given half-spread. The comparison is done on the
// normalized difference, so arcs crossing the ±π boundary are handled.
func WithinArc(facing, halfSpread, bearing float64) bool {
	return math.Abs(AngleDiff(facing, bearing)) <= halfSpread
}
