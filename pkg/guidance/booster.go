package guidance

import (
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// boosterLaw is the coarse return law: P-only tilt toward the pad and a
// two-band descent target.
func (c *Controller) boosterLaw(s *entity.Stage, t Target) Command {
	g := c.booster
	alt := altitude(s, t)

	tilt := physics.Clamp((t.X-s.Position.X)*g.HorizontalPGain, -g.MaxTilt, g.MaxTilt)
	var cmd Command
	cmd.RotateLeft, cmd.RotateRight = steer(physics.Vertical-tilt, s.Heading, g.AngleTolerance, g.RotationGain, s.Fuel)

	targetDescent := g.FarDescentSpeed
	if alt < g.NearGroundAltitude {
		targetDescent = g.NearDescentSpeed
	}
	needsThrust := -s.Velocity.Y > targetDescent

	cmd.Thrust = needsThrust && aligned(s.Heading, g.MaxTilt, g.ThrustAlignFactor) && s.Fuel > 0
	return cmd
}
