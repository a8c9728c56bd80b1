// pkg/engine/flight.go
package engine

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/event"
	"github.com/opd-ai/go-starship/pkg/guidance"
	"github.com/opd-ai/go-starship/pkg/landing"
	"github.com/opd-ai/go-starship/pkg/logging"
	"github.com/opd-ai/go-starship/pkg/physics"
	"github.com/opd-ai/go-starship/pkg/stack"
)

// Control is the manual actuator intent for the stage under manual control.
// Setting both rotation flags means no rotation.
type Control struct {
	MainThrust  bool
	RotateLeft  bool
	RotateRight bool
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger used for flight messages
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// WithEventBus publishes flight events on bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) {
		s.EventBus = bus
	}
}

// WithContext sets the context carrying the flight ID
func WithContext(ctx context.Context) Option {
	return func(s *Simulation) {
		s.ctx = ctx
	}
}

// WithMeter records metrics on m instead of the global OTel meter
func WithMeter(m metric.Meter) Option {
	return func(s *Simulation) {
		s.meter = m
	}
}

// Simulation is the flight state machine. It owns both stages, their
// coupling and the current phase, and advances exactly one tick per Tick
// call. It is not safe for concurrent use.
type Simulation struct {
	Config   *config.SimConfig
	EventBus *event.Bus

	integrator physics.Integrator
	guidance   *guidance.Controller
	evaluator  *landing.Evaluator
	pad        entity.LandingPad

	booster  *entity.Stage
	upper    *entity.Stage
	coupling *stack.Coupling

	phase   Phase
	tick    uint64
	control Control

	ctx     context.Context
	logger  *logging.Logger
	meter   metric.Meter
	metrics *flightMetrics
}

// NewSimulation creates a simulation in PRE_LAUNCH with the vehicle
// standing on the pad.
func NewSimulation(cfg *config.SimConfig, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid simulation config")
	}

	s := &Simulation{
		Config:     cfg,
		integrator: physics.Integrator{Gravity: cfg.Physics.Gravity},
		guidance:   guidance.NewController(cfg),
		evaluator:  landing.NewEvaluator(cfg.Landing, cfg.World.GroundHeight),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.EventBus == nil {
		s.EventBus = event.NewEventBus()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger()
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if logging.GetFlightID(s.ctx) == "" {
		s.ctx = logging.WithFlightID(s.ctx, logging.GenerateFlightID())
	}
	if s.meter == nil {
		s.meter = meter()
	}

	m, err := newFlightMetrics(s.meter)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	s.initVehicle()
	return s, nil
}

// initVehicle places a fresh stack on the pad
func (s *Simulation) initVehicle() {
	s.pad = entity.NewLandingPad(s.Config.World)
	s.booster = entity.NewStage(entity.Booster, s.Config.Booster, physics.Vector2D{
		X: s.pad.X,
		Y: s.pad.GroundY + s.Config.Booster.Height/2,
	})
	s.upper = entity.NewStage(entity.UpperStage, s.Config.UpperStage, physics.Zero)
	s.coupling = stack.NewCoupling()
	s.coupling.Sync(s.booster, s.upper)

	s.phase = PreLaunch
	s.tick = 0
	s.control = Control{}
}

// FlightID returns the identifier attached to every log line and record
func (s *Simulation) FlightID() string {
	return logging.GetFlightID(s.ctx)
}

// Context returns the context carrying the flight ID
func (s *Simulation) Context() context.Context {
	return s.ctx
}

// Phase returns the current flight phase
func (s *Simulation) Phase() Phase {
	return s.phase
}

// CurrentTick returns the number of ticks advanced since launch
func (s *Simulation) CurrentTick() uint64 {
	return s.tick
}

// Pad returns the landing target
func (s *Simulation) Pad() entity.LandingPad {
	return s.pad
}

// Launch lifts the stack off the pad. Only valid before launch.
func (s *Simulation) Launch() bool {
	if s.phase != PreLaunch {
		s.reject("launch")
		return false
	}

	s.booster.Velocity.Y = s.Config.Physics.LaunchKick
	s.coupling.Sync(s.booster, s.upper)
	s.publish(event.Launched, entity.Booster.String(), "")
	s.logger.Info(s.ctx, "launched", "kick", s.Config.Physics.LaunchKick)
	s.setPhase(Stage1Flight)
	return true
}

// Separate releases the upper stage. Only valid while attached in a
// first stage phase. The booster switches to its own guidance.
func (s *Simulation) Separate() bool {
	if !s.phase.FirstStage() || !s.coupling.Separate() {
		s.reject("separate")
		return false
	}

	s.booster.ClearActuators()
	s.booster.Autopilot = true
	s.upper.ClearActuators()
	s.control = Control{}

	s.publish(event.StageSeparated, entity.UpperStage.String(), "")
	s.logger.Info(s.ctx, "stage separated",
		"tick", s.tick,
		"altitude", s.altitude(s.upper),
		"upper_fuel", s.upper.Fuel,
	)
	s.setPhase(Stage2Flight)
	return true
}

// ToggleAutopilot engages or disengages upper stage guidance. Only valid
// after separation in a second stage phase.
func (s *Simulation) ToggleAutopilot() bool {
	if s.coupling.Attached || !s.phase.SecondStage() {
		s.reject("toggle autopilot")
		return false
	}

	s.upper.Autopilot = !s.upper.Autopilot
	s.upper.ClearActuators()
	if s.upper.Autopilot {
		s.publish(event.AutopilotEngaged, entity.UpperStage.String(), "")
		s.logger.Info(s.ctx, "autopilot engaged", "tick", s.tick, "fuel", s.upper.Fuel)
	} else {
		s.publish(event.AutopilotDisengaged, entity.UpperStage.String(), "manual")
		s.logger.Info(s.ctx, "autopilot disengaged", "tick", s.tick)
	}
	return true
}

// Reset discards all vehicle state and returns to PRE_LAUNCH
func (s *Simulation) Reset() {
	s.initVehicle()
	s.publish(event.SimulationReset, "", "")
	s.logger.Info(s.ctx, "simulation reset")
}

// SetControl stores the manual intent applied on the next tick
func (s *Simulation) SetControl(c Control) {
	s.control = c
}

// Tick advances the simulation by one fixed step. Nothing moves before
// launch or after the flight has ended.
func (s *Simulation) Tick() {
	if s.phase == PreLaunch || s.phase.Terminal() {
		return
	}

	s.tick++
	s.resolveCommands()
	s.integrate()
	terminal, done := s.evaluateContact()
	s.updatePhase(terminal, done)
	s.metrics.tick(s.ctx)
}

// resolveCommands turns manual intent or guidance into actuator flags
func (s *Simulation) resolveCommands() {
	if s.coupling.Attached {
		s.booster.Command(s.control.MainThrust, s.control.RotateLeft, s.control.RotateRight)
		return
	}

	if s.upper.Autopilot {
		s.fly(s.upper)
	} else {
		s.upper.Command(s.control.MainThrust, s.control.RotateLeft, s.control.RotateRight)
	}

	if s.booster.Autopilot && !s.booster.Crashed {
		s.fly(s.booster)
	}
}

// fly runs guidance for an autonomous stage, dropping the autopilot flag
// once the controller can no longer fly it.
func (s *Simulation) fly(st *entity.Stage) {
	cmd, engaged := s.guidance.Evaluate(guidance.VariantFor(st.Kind), st, guidance.TargetFor(s.pad))
	if !engaged {
		st.Autopilot = false
		st.ClearActuators()
		s.publish(event.AutopilotDisengaged, st.Kind.String(), "no fuel or crashed")
		s.logger.Debug(s.ctx, "guidance disengaged", "stage", st.Kind.String(), "fuel", st.Fuel)
		return
	}
	cmd.Apply(st)
}

// integrate advances every free body by one tick
func (s *Simulation) integrate() {
	if s.coupling.Attached {
		s.recordBurn(s.booster)
		s.coupling.Step(s.integrator, s.booster, s.upper)
		s.booster.UpdateExhaust()
		return
	}

	if !s.upper.Crashed {
		s.recordBurn(s.upper)
		s.integrator.Step(&s.upper.Body, s.upper.Propulsion)
	}
	s.upper.UpdateExhaust()

	if !s.booster.Crashed {
		s.recordBurn(s.booster)
		s.integrator.Step(&s.booster.Body, s.booster.Propulsion)
	}
	s.booster.UpdateExhaust()
}

func (s *Simulation) recordBurn(st *entity.Stage) {
	if st.Thrusting && st.HasFuel() {
		s.metrics.burn(s.ctx, st.Kind.String())
	}
}

// evaluateContact checks ground contact and reports the terminal phase
// reached this tick, if any.
func (s *Simulation) evaluateContact() (Phase, bool) {
	if s.phase.FirstStage() {
		if s.evaluator.Contact(&s.booster.Body) && s.booster.Velocity.Y < 0 {
			s.booster.Crashed = true
			s.upper.Crashed = true
			s.booster.ClearActuators()
			s.publish(event.VehicleCrashed, entity.Booster.String(), "stack hit the ground")
			s.logger.Warn(s.ctx, "stack crashed", "tick", s.tick, "velocity_y", s.booster.Velocity.Y)
			return Crashed, true
		}
		return s.phase, false
	}

	if s.evaluator.BoosterImpact(s.booster) {
		s.publish(event.BoosterImpact, entity.Booster.String(), "")
		s.logger.Info(s.ctx, "booster impact",
			"tick", s.tick,
			"x", s.booster.Position.X,
			"velocity_y", s.booster.Velocity.Y,
		)
	}

	if !s.evaluator.Contact(&s.upper.Body) {
		return s.phase, false
	}

	descent := -s.upper.Velocity.Y
	violations := s.evaluator.Violations(&s.upper.Body)
	outcome := s.evaluator.Resolve(s.upper)
	s.upper.Autopilot = false
	s.metrics.contact(s.ctx, descent, outcome.String())

	if outcome == landing.Landed {
		s.publish(event.VehicleLanded, entity.UpperStage.String(), "")
		s.logger.Info(s.ctx, "upper stage landed",
			"tick", s.tick,
			"descent", descent,
			"on_pad", s.pad.Covers(s.upper.Position.X),
			"fuel", s.upper.Fuel,
		)
		return Landed, true
	}

	detail := strings.Join(violations, "; ")
	s.publish(event.VehicleCrashed, entity.UpperStage.String(), detail)
	s.logger.Warn(s.ctx, "upper stage crashed", "tick", s.tick, "reason", detail)
	return Crashed, true
}

// updatePhase applies a terminal outcome or reclassifies on remaining fuel
func (s *Simulation) updatePhase(terminal Phase, done bool) {
	if done {
		s.setPhase(terminal)
		return
	}

	switch {
	case s.phase.FirstStage():
		if s.booster.HasFuel() {
			s.setPhase(Stage1Flight)
		} else {
			s.setPhase(Stage1OutOfFuel)
		}
	case s.phase.SecondStage():
		if s.upper.HasFuel() {
			s.setPhase(Stage2Flight)
		} else {
			s.setPhase(Stage2OutOfFuel)
		}
	}
}

func (s *Simulation) setPhase(p Phase) {
	if p == s.phase {
		return
	}
	from := s.phase
	s.phase = p

	s.metrics.phase(s.ctx, p)
	s.EventBus.Publish(event.NewPhaseEvent(s, s.tick, from.String(), p.String()))
	s.logger.Info(s.ctx, "phase changed", "tick", s.tick, "from", from.String(), "to", p.String())
}

func (s *Simulation) publish(t event.Type, stage, detail string) {
	e := event.NewFlightEvent(t, s, s.tick, stage)
	e.Detail = detail
	s.EventBus.Publish(e)
}

func (s *Simulation) reject(command string) {
	s.logger.Debug(s.ctx, "command rejected", "command", command, "phase", s.phase.String())
}

func (s *Simulation) altitude(st *entity.Stage) float64 {
	return max(0, st.Position.Y-s.pad.GroundY)
}
