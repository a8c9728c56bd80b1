// pkg/engine/phase.go
package engine

// Phase is the flight state of the vehicle
type Phase int

const (
	PreLaunch Phase = iota
	Stage1Flight
	Stage1OutOfFuel
	Stage2Flight
	Stage2OutOfFuel
	Landed
	Crashed
)

var phaseNames = [...]string{
	PreLaunch:       "PRE_LAUNCH",
	Stage1Flight:    "STAGE1_FLIGHT",
	Stage1OutOfFuel: "STAGE1_OUT_OF_FUEL",
	Stage2Flight:    "STAGE2_FLIGHT",
	Stage2OutOfFuel: "STAGE2_OUT_OF_FUEL",
	Landed:          "LANDED",
	Crashed:         "CRASHED",
}

// String returns the phase name
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Terminal reports whether the flight is over
func (p Phase) Terminal() bool {
	return p == Landed || p == Crashed
}

// FirstStage reports whether the stack is still flying on the booster
func (p Phase) FirstStage() bool {
	return p == Stage1Flight || p == Stage1OutOfFuel
}

// SecondStage reports whether the upper stage is flying on its own
func (p Phase) SecondStage() bool {
	return p == Stage2Flight || p == Stage2OutOfFuel
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
