// pkg/physics/body.go
package physics

// Body is the kinematic and resource state of one vehicle stage.
type Body struct {
	Position     Vector2D
	Velocity     Vector2D
	Acceleration Vector2D // accumulated for the current tick, zeroed after integration
	Heading      float64  // radians, (-pi, pi]
	Fuel         float64
	Mass         float64
	Width        float64
	Height       float64

	Thrusting     bool
	RotatingLeft  bool
	RotatingRight bool
}

// HasFuel reports whether any actuator may still fire.
func (b *Body) HasFuel() bool {
	return b.Fuel > 0
}

// ClearActuators drops every thrust and rotation command.
func (b *Body) ClearActuators() {
	b.Thrusting = false
	b.RotatingLeft = false
	b.RotatingRight = false
}

// rotation returns -1, 0 or +1 for the commanded rotation direction.
// Both flags set cancel out.
func (b *Body) rotation() float64 {
	switch {
	case b.RotatingLeft && !b.RotatingRight:
		return 1
	case b.RotatingRight && !b.RotatingLeft:
		return -1
	default:
		return 0
	}
}

// Halt zeroes velocity and acceleration.
func (b *Body) Halt() {
	b.Velocity = Zero
	b.Acceleration = Zero
}
