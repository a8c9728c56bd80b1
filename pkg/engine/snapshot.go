package engine

import (
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// StageSnapshot is a read-only copy of one stage
type StageSnapshot struct {
	Kind          string            `json:"kind"`
	Position      physics.Vector2D  `json:"position"`
	Velocity      physics.Vector2D  `json:"velocity"`
	Heading       float64           `json:"heading"`
	Fuel          float64           `json:"fuel"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	Altitude      float64           `json:"altitude"`
	Attached      bool              `json:"attached"`
	Visible       bool              `json:"visible"`
	Crashed       bool              `json:"crashed"`
	Thrusting     bool              `json:"thrusting"`
	RotatingLeft  bool              `json:"rotatingLeft"`
	RotatingRight bool              `json:"rotatingRight"`
	Autopilot     bool              `json:"autopilot"`
	Exhaust       []entity.Particle `json:"-"`
}

// Snapshot is the state exposed to renderers and recorders
type Snapshot struct {
	Tick    uint64            `json:"tick"`
	Phase   Phase             `json:"phase"`
	Booster StageSnapshot     `json:"booster"`
	Upper   StageSnapshot     `json:"upper"`
	Pad     entity.LandingPad `json:"pad"`
}

// Snapshot returns a copy of the current simulation state
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Tick:    s.tick,
		Phase:   s.phase,
		Booster: s.stageSnapshot(s.booster),
		Upper:   s.stageSnapshot(s.upper),
		Pad:     s.pad,
	}
}

func (s *Simulation) stageSnapshot(st *entity.Stage) StageSnapshot {
	return StageSnapshot{
		Kind:          st.Kind.String(),
		Position:      st.Position,
		Velocity:      st.Velocity,
		Heading:       st.Heading,
		Fuel:          st.Fuel,
		Width:         st.Width,
		Height:        st.Height,
		Altitude:      s.altitude(st),
		Attached:      s.coupling.Attached,
		Visible:       st.Visible,
		Crashed:       st.Crashed,
		Thrusting:     st.Thrusting,
		RotatingLeft:  st.RotatingLeft,
		RotatingRight: st.RotatingRight,
		Autopilot:     st.Autopilot,
		Exhaust:       st.Exhaust.Particles(),
	}
}

// Focus returns the stage a viewer should follow: the stack while
// attached, the upper stage afterwards.
func (snap Snapshot) Focus() StageSnapshot {
	if snap.Upper.Attached {
		return snap.Booster
	}
	return snap.Upper
}
