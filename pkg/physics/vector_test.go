// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecAlmostEqual(a, b Vector2D) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestVector2D_Arithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: -1, Y: 2}

	if got := a.Add(b); !vecAlmostEqual(got, Vector2D{X: 2, Y: 6}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !vecAlmostEqual(got, Vector2D{X: 4, Y: 2}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); !vecAlmostEqual(got, Vector2D{X: 6, Y: 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 5) {
		t.Errorf("Dot = %v", got)
	}
}

func TestVector2D_LengthAndDistance(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if !almostEqual(v.Length(), 5) {
		t.Errorf("Length = %v, want 5", v.Length())
	}
	if !almostEqual(v.LengthSquared(), 25) {
		t.Errorf("LengthSquared = %v, want 25", v.LengthSquared())
	}
	if d := v.Distance(Vector2D{X: 3, Y: 0}); !almostEqual(d, 4) {
		t.Errorf("Distance = %v, want 4", d)
	}
}

func TestVector2D_Normalize_ZeroVector(t *testing.T) {
	if got := (Vector2D{}).Normalize(); got != (Vector2D{}) {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
	unit := Vector2D{X: 0, Y: 7}.Normalize()
	if !almostEqual(unit.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", unit.Length())
	}
}

func TestVector2D_RotateAndFromAngle(t *testing.T) {
	tests := []struct {
		name  string
		in    Vector2D
		angle float64
		want  Vector2D
	}{
		{"quarter turn", Vector2D{X: 1, Y: 0}, math.Pi / 2, Vector2D{X: 0, Y: 1}},
		{"half turn", Vector2D{X: 1, Y: 0}, math.Pi, Vector2D{X: -1, Y: 0}},
		{"negative quarter", Vector2D{X: 0, Y: 1}, -math.Pi / 2, Vector2D{X: 1, Y: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Rotate(tc.angle); !vecAlmostEqual(got, tc.want) {
				t.Errorf("Rotate = %v, want %v", got, tc.want)
			}
		})
	}

	if got := FromAngle(math.Pi/2, 3); !vecAlmostEqual(got, Vector2D{X: 0, Y: 3}) {
		t.Errorf("FromAngle = %v", got)
	}
}
