// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vector2D
		expected Vector2D
	}{
		{"add", Vector2D{X: 3, Y: 4}.Add(Vector2D{X: 1, Y: 2}), Vector2D{X: 4, Y: 6}},
		{"sub", Vector2D{X: 3, Y: 4}.Sub(Vector2D{X: 1, Y: 2}), Vector2D{X: 2, Y: 2}},
		{"scale", Vector2D{X: 3, Y: -4}.Scale(0.5), Vector2D{X: 1.5, Y: -2}},
		{"zero_add", Zero.Add(Vector2D{X: 5, Y: -3}), Vector2D{X: 5, Y: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	if l := (Vector2D{X: 3, Y: 4}).Length(); math.Abs(l-5) > 1e-9 {
		t.Errorf("Length() = %f, expected 5", l)
	}
	if l := Zero.Length(); l != 0 {
		t.Errorf("Length() of zero vector = %f", l)
	}
}

func TestFromAngle(t *testing.T) {
	up := FromAngle(Vertical, 2)
	if math.Abs(up.X) > 1e-12 || math.Abs(up.Y-2) > 1e-12 {
		t.Errorf("FromAngle(Vertical, 2) = %v, expected (0, 2)", up)
	}
	right := FromAngle(0, 1)
	if right.X != 1 || right.Y != 0 {
		t.Errorf("FromAngle(0, 1) = %v, expected (1, 0)", right)
	}
}
