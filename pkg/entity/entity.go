// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// Kind identifies which stage of the vehicle an entity is
type Kind int

const (
	Booster Kind = iota
	UpperStage
)

// String returns the stage name used in logs, events and telemetry
func (k Kind) String() string {
	switch k {
	case Booster:
		return "booster"
	case UpperStage:
		return "upper_stage"
	default:
		return "unknown"
	}
}

// Stage is one half of the two-stage vehicle
type Stage struct {
	physics.Body
	Kind       Kind
	Propulsion physics.Propulsion
	Visible    bool
	Crashed    bool
	Autopilot  bool // autonomous guidance engaged
	Exhaust    *Exhaust
}

// NewStage creates a stage standing upright at position with full tanks
func NewStage(kind Kind, cfg config.StageConfig, position physics.Vector2D) *Stage {
	return &Stage{
		Body: physics.Body{
			Position: position,
			Heading:  physics.Vertical,
			Fuel:     cfg.StartFuel,
			Mass:     cfg.Mass,
			Width:    cfg.Width,
			Height:   cfg.Height,
		},
		Kind: kind,
		Propulsion: physics.Propulsion{
			ThrustForce:  cfg.ThrustForce,
			RotationRate: cfg.RotationRate,
			MainFuelRate: cfg.MainFuelRate,
			RCSFuelRate:  cfg.RCSFuelRate,
		},
		Visible: true,
		Exhaust: NewExhaust(DefaultExhaustCapacity, uint64(kind)+1),
	}
}

// Command sets the actuator flags for the next integration. Commands are
// refused without fuel, and opposing rotation requests cancel.
func (s *Stage) Command(thrust, rotateLeft, rotateRight bool) {
	s.ClearActuators()
	if !s.HasFuel() || s.Crashed {
		return
	}
	s.Thrusting = thrust
	if rotateLeft != rotateRight {
		s.RotatingLeft = rotateLeft
		s.RotatingRight = rotateRight
	}
}

// Nozzle returns the position of the main engine exit
func (s *Stage) Nozzle() physics.Vector2D {
	return s.Position.Sub(physics.FromAngle(s.Heading, s.Height/2))
}

// UpdateExhaust emits plume particles while the engine fires and ages the rest
func (s *Stage) UpdateExhaust() {
	if s.Thrusting {
		s.Exhaust.Emit(s.Nozzle(), s.Heading)
	}
	s.Exhaust.Decay()
}
