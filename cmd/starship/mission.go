package main

import (
	"github.com/opd-ai/go-starship/pkg/engine"
)

// mission flies the scripted profile: hold the booster engine for burn
// ticks, separate, then optionally hand the upper stage to the autopilot.
type mission struct {
	sim       *engine.Simulation
	burn      uint64
	autopilot bool
	separated bool
}

func newMission(sim *engine.Simulation, burn uint64, autopilot bool) *mission {
	return &mission{sim: sim, burn: burn, autopilot: autopilot}
}

// start launches the vehicle with the main engine lit
func (m *mission) start() bool {
	if !m.sim.Launch() {
		return false
	}
	m.sim.SetControl(engine.Control{MainThrust: m.burn > 0})
	return true
}

// Observe implements engine.Observer
func (m *mission) Observe(snap engine.Snapshot) {
	if m.separated || snap.Phase.Terminal() || snap.Tick < m.burn {
		return
	}
	m.sim.SetControl(engine.Control{})
	m.separated = m.sim.Separate()
	if m.separated && m.autopilot {
		m.sim.ToggleAutopilot()
	}
}
