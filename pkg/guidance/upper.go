package guidance

import (
	"math"

	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// Final approach shaping factors.
const (
	dampingScale     = 0.8
	misplacedFactor  = 1.5
	alignedFraction  = 0.6
	correctionScale  = 0.05
	correctionMargin = 1.2
)

// schedule is the active gain set of the upper stage law
type schedule struct {
	clamp     float64
	gain      float64
	tolerance float64
}

// upperLaw is the upper stage autopilot: P+D tilt law with a final
// approach gain schedule and a banded descent speed target.
func (c *Controller) upperLaw(s *entity.Stage, t Target) Command {
	g := c.upper
	alt := altitude(s, t)
	finalApproach := alt < g.FinalApproachAltitude

	hErr := t.X - s.Position.X
	hVelErr := -s.Velocity.X
	angleErr := physics.AngleError(physics.Vertical, s.Heading)

	sched := schedule{clamp: g.MaxTilt, gain: g.RotationGain, tolerance: g.AngleTolerance}
	var tilt float64
	if finalApproach {
		sched = schedule{
			clamp:     g.FinalApproachMaxTilt,
			gain:      g.FinalApproachRotationGain,
			tolerance: g.FinalApproachAngleTolerance,
		}
		tilt = physics.Clamp(hVelErr*g.HorizontalDGain*dampingScale, -sched.clamp, sched.clamp)
		if math.Abs(hErr) > g.PosTolerance*misplacedFactor && math.Abs(angleErr) < g.MaxTilt*alignedFraction {
			limit := sched.clamp * correctionMargin
			tilt += physics.Clamp(hErr*g.HorizontalPGain*correctionScale, -limit, limit)
		}
		tilt = physics.Clamp(tilt, -sched.clamp, sched.clamp)
	} else {
		tilt = physics.Clamp(hErr*g.HorizontalPGain+hVelErr*g.HorizontalDGain, -g.MaxTilt, g.MaxTilt)
	}

	var cmd Command
	cmd.RotateLeft, cmd.RotateRight = steer(physics.Vertical-tilt, s.Heading, sched.tolerance, sched.gain, s.Fuel)

	needsThrust := c.upperNeedsThrust(s, alt, finalApproach)
	cmd.Thrust = needsThrust && aligned(s.Heading, sched.clamp, g.ThrustAlignFactor) && s.Fuel > 0
	return cmd
}

// TargetDescent returns the descent speed the upper stage aims for at alt
func (c *Controller) TargetDescent(alt float64) float64 {
	g := c.upper
	switch {
	case alt > g.BrakeAltitude:
		return g.FastDescentSpeed
	case alt > g.TouchdownAltitude:
		return physics.MapRange(alt, g.TouchdownAltitude, g.BrakeAltitude, g.SlowDescentSpeed, g.FastDescentSpeed)
	default:
		return g.SlowDescentSpeed
	}
}

// upperNeedsThrust decides on upward force. The order matters: the safe
// descent cancel overrides the earlier checks and the nose-down check
// overrides everything.
func (c *Controller) upperNeedsThrust(s *entity.Stage, alt float64, finalApproach bool) bool {
	g := c.upper
	target := c.TargetDescent(alt)
	descent := -s.Velocity.Y

	needs := descent > target+g.DescentDeadband
	if alt < g.TouchdownAltitude && descent > c.maxLandingSpeed {
		needs = true
	}
	if finalApproach && descent > target+g.FinalDeadband {
		needs = true
	}
	if descent < target-g.SafeDescentMargin {
		needs = false
	}

	// only a clockwise tip past the limit counts as nose down
	noseDown := physics.AngleError(physics.Vertical, s.Heading) > g.NoseDownAngle
	if noseDown && s.Velocity.Y > -g.NoseDownClimbRate && s.Fuel > 0 {
		needs = true
	}
	return needs
}
