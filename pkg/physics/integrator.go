// pkg/physics/integrator.go
package physics

// Propulsion describes the actuators of a stage.
type Propulsion struct {
	ThrustForce  float64 // main engine force
	RotationRate float64 // radians per tick while an RCS side fires
	MainFuelRate float64 // fuel per tick while the main engine fires
	RCSFuelRate  float64 // fuel per tick for each firing RCS side
}

// Integrator advances bodies by one fixed tick with semi-implicit Euler.
type Integrator struct {
	Gravity float64
}

// Step advances b by one tick using its own mass.
func (in Integrator) Step(b *Body, p Propulsion) {
	in.StepWithMass(b, p, b.Mass)
}

// StepWithMass advances b by one tick, dividing thrust by mass. Actuators
// only act while fuel remains, and each active actuator burns a flat amount.
func (in Integrator) StepWithMass(b *Body, p Propulsion, mass float64) {
	hasFuel := b.HasFuel()

	if hasFuel {
		if dir := b.rotation(); dir != 0 {
			b.Heading = WrapAngle(b.Heading + dir*p.RotationRate)
		}
	}

	b.Acceleration = b.Acceleration.Add(Vector2D{Y: -in.Gravity})
	if b.Thrusting && hasFuel && mass > 0 {
		b.Acceleration = b.Acceleration.Add(FromAngle(b.Heading, p.ThrustForce/mass))
	}

	b.Velocity = b.Velocity.Add(b.Acceleration)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = Zero

	if hasFuel {
		in.burn(b, p)
	}
}

// burn charges the flat per-tick cost of every active actuator.
func (in Integrator) burn(b *Body, p Propulsion) {
	used := 0.0
	if b.Thrusting {
		used += p.MainFuelRate
	}
	if b.rotation() != 0 {
		used += p.RCSFuelRate
	}
	b.Fuel -= used
	if b.Fuel < 0 {
		b.Fuel = 0
	}
}
