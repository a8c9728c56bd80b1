// pkg/guidance/guidance.go
package guidance

import (
	"math"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// Variant selects the control law for a stage
type Variant int

const (
	BoosterGuidance Variant = iota
	UpperStageGuidance
)

// String returns the variant name
func (v Variant) String() string {
	switch v {
	case BoosterGuidance:
		return "booster"
	case UpperStageGuidance:
		return "upper_stage"
	default:
		return "unknown"
	}
}

// VariantFor returns the control law flying the given stage kind
func VariantFor(kind entity.Kind) Variant {
	if kind == entity.Booster {
		return BoosterGuidance
	}
	return UpperStageGuidance
}

// Command is the actuator intent computed for one tick
type Command struct {
	Thrust      bool
	RotateLeft  bool
	RotateRight bool
}

// Target is the landing point the guidance steers toward
type Target struct {
	X       float64
	GroundY float64
}

// TargetFor returns the guidance target of a landing pad
func TargetFor(pad entity.LandingPad) Target {
	return Target{X: pad.X, GroundY: pad.GroundY}
}

// Controller evaluates the guidance laws. It holds only configuration;
// every command is recomputed from the current state.
type Controller struct {
	booster         config.BoosterGuidanceConfig
	upper           config.UpperGuidanceConfig
	maxLandingSpeed float64
}

// NewController creates a controller from the simulation configuration
func NewController(cfg *config.SimConfig) *Controller {
	return &Controller{
		booster:         cfg.BoosterGuidance,
		upper:           cfg.UpperGuidance,
		maxLandingSpeed: cfg.Landing.MaxVerticalSpeed,
	}
}

// Evaluate computes the command for stage s. engaged is false when the
// stage can no longer be flown, in which case the command is empty and the
// caller should drop its autopilot flag.
func (c *Controller) Evaluate(v Variant, s *entity.Stage, t Target) (cmd Command, engaged bool) {
	if s.Fuel <= 0 || s.Crashed {
		return Command{}, false
	}

	switch v {
	case BoosterGuidance:
		return c.boosterLaw(s, t), true
	case UpperStageGuidance:
		return c.upperLaw(s, t), true
	default:
		return Command{}, false
	}
}

// Apply copies the command onto the stage actuators
func (cmd Command) Apply(s *entity.Stage) {
	s.Command(cmd.Thrust, cmd.RotateLeft, cmd.RotateRight)
}

func altitude(s *entity.Stage, t Target) float64 {
	return math.Max(0, s.Position.Y-t.GroundY)
}

// steer picks the RCS side that turns heading toward target. Nothing fires
// inside the tolerance band.
func steer(target, heading, tolerance, gain, fuel float64) (left, right bool) {
	rotErr := physics.AngleError(target, heading)
	if math.Abs(rotErr) <= tolerance || fuel <= 0 {
		return false, false
	}
	switch u := rotErr * gain; {
	case u > 0:
		return true, false
	case u < 0:
		return false, true
	}
	return false, false
}

// aligned reports whether the main engine may fire at this attitude
func aligned(heading, clamp, factor float64) bool {
	return math.Abs(physics.AngleError(physics.Vertical, heading)) < clamp*factor
}
