// pkg/stack/coupling.go
package stack

import (
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// Offset returns the vector from the booster center to the upper stage
// center for a stack pointing along heading.
func Offset(heading, boosterHeight, upperHeight float64) physics.Vector2D {
	return physics.FromAngle(heading, (boosterHeight+upperHeight)/2)
}

// Coupling is the one-way attachment between booster and upper stage.
// Once separated it never reattaches short of a full reset.
type Coupling struct {
	Attached bool
}

// NewCoupling returns an attached coupling
func NewCoupling() *Coupling {
	return &Coupling{Attached: true}
}

// Step integrates the attached stack as one rigid body. The booster carries
// the propulsion and the combined mass; the upper stage follows.
func (c *Coupling) Step(in physics.Integrator, booster, upper *entity.Stage) {
	if !c.Attached {
		return
	}
	in.StepWithMass(&booster.Body, booster.Propulsion, booster.Mass+upper.Mass)
	c.Sync(booster, upper)
}

// Sync overwrites the upper stage kinematics from the booster
func (c *Coupling) Sync(booster, upper *entity.Stage) {
	if !c.Attached {
		return
	}
	upper.Position = booster.Position.Add(Offset(booster.Heading, booster.Height, upper.Height))
	upper.Velocity = booster.Velocity
	upper.Acceleration = booster.Acceleration
	upper.Heading = booster.Heading
	upper.ClearActuators()
}

// Separate tears the attachment down. It reports false when already separated.
func (c *Coupling) Separate() bool {
	if !c.Attached {
		return false
	}
	c.Attached = false
	return true
}
