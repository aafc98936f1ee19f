// pkg/physics/rect.go
package physics

import "math"

// Rect is an axis-aligned rectangular area.
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies inside the rectangle.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// OrientedRect is a rectangle rotated around its own center.
type OrientedRect struct {
	Center   Vector2D
	Width    float64
	Height   float64
	Rotation float64 // radians
}

// Contains reports whether point lies inside the rotated rectangle.
// The point is mapped into the rectangle's local frame by the inverse
// rotation, then tested against the half extents. Edges are inclusive.
func (r OrientedRect) Contains(point Vector2D) bool {
	local := point.Sub(r.Center).Rotate(-r.Rotation)
	return math.Abs(local.X) <= r.Width/2 && math.Abs(local.Y) <= r.Height/2
}
