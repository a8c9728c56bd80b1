package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/physics"
)

func TestNewStage(t *testing.T) {
	cfg := config.DefaultConfig()
	pos := physics.Vector2D{X: 10, Y: 95}

	s := NewStage(Booster, cfg.Booster, pos)

	if s.Position != pos {
		t.Errorf("position = %+v, want %+v", s.Position, pos)
	}
	if s.Heading != physics.Vertical {
		t.Errorf("heading = %v, want vertical", s.Heading)
	}
	if s.Fuel != cfg.Booster.StartFuel {
		t.Errorf("fuel = %v, want %v", s.Fuel, cfg.Booster.StartFuel)
	}
	if s.Propulsion.ThrustForce != cfg.Booster.ThrustForce {
		t.Errorf("thrust = %v, want %v", s.Propulsion.ThrustForce, cfg.Booster.ThrustForce)
	}
	if !s.Visible || s.Crashed || s.Autopilot {
		t.Errorf("unexpected flags: visible=%v crashed=%v autopilot=%v", s.Visible, s.Crashed, s.Autopilot)
	}
	if s.Exhaust == nil || s.Exhaust.Len() != 0 {
		t.Error("expected empty exhaust queue")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Booster, "booster"},
		{UpperStage, "upper_stage"},
		{Kind(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStageCommand(t *testing.T) {
	tests := []struct {
		name                     string
		fuel                     float64
		crashed                  bool
		thrust, left, right      bool
		wantThrust, wantL, wantR bool
	}{
		{"thrust only", 10, false, true, false, false, true, false, false},
		{"rotate left", 10, false, false, true, false, false, true, false},
		{"rotate right", 10, false, false, false, true, false, false, true},
		{"both rotations cancel", 10, false, true, true, true, true, false, false},
		{"no fuel", 0, false, true, true, false, false, false, false},
		{"crashed", 10, true, true, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStage(UpperStage, config.DefaultConfig().UpperStage, physics.Zero)
			s.Fuel = tt.fuel
			s.Crashed = tt.crashed
			s.RotatingLeft = true

			s.Command(tt.thrust, tt.left, tt.right)

			if s.Thrusting != tt.wantThrust || s.RotatingLeft != tt.wantL || s.RotatingRight != tt.wantR {
				t.Errorf("flags = (%v,%v,%v), want (%v,%v,%v)",
					s.Thrusting, s.RotatingLeft, s.RotatingRight,
					tt.wantThrust, tt.wantL, tt.wantR)
			}
		})
	}
}

func TestNozzle(t *testing.T) {
	s := NewStage(Booster, config.DefaultConfig().Booster, physics.Vector2D{X: 0, Y: 100})
	n := s.Nozzle()
	if math.Abs(n.X) > 1e-9 || math.Abs(n.Y-(100-s.Height/2)) > 1e-9 {
		t.Errorf("nozzle = %+v, want (0, %v)", n, 100-s.Height/2)
	}
}

func TestExhaustLifecycle(t *testing.T) {
	e := NewExhaust(DefaultExhaustCapacity, 1)

	e.Emit(physics.Zero, physics.Vertical)
	if e.Len() != particlesPerTick {
		t.Fatalf("len = %d, want %d", e.Len(), particlesPerTick)
	}
	for _, p := range e.Particles() {
		if p.Velocity.Y >= 0 {
			t.Errorf("particle moving up: %+v", p.Velocity)
		}
	}

	// 1.0 lifetime at 0.05 per tick expires after 20 decays
	for i := 0; i < 19; i++ {
		e.Decay()
	}
	if e.Len() != particlesPerTick {
		t.Errorf("particles expired early: len = %d", e.Len())
	}
	e.Decay()
	e.Decay()
	if e.Len() != 0 {
		t.Errorf("len = %d after lifetime, want 0", e.Len())
	}
}

func TestExhaustCapacity(t *testing.T) {
	e := NewExhaust(12, 3)
	for i := 0; i < 10; i++ {
		e.Emit(physics.Zero, physics.Vertical)
	}
	if e.Len() != 12 {
		t.Errorf("len = %d, want capacity 12", e.Len())
	}
}

func TestUpdateExhaust(t *testing.T) {
	s := NewStage(UpperStage, config.DefaultConfig().UpperStage, physics.Zero)
	s.UpdateExhaust()
	if s.Exhaust.Len() != 0 {
		t.Errorf("idle stage emitted %d particles", s.Exhaust.Len())
	}
	s.Command(true, false, false)
	s.UpdateExhaust()
	if s.Exhaust.Len() != particlesPerTick {
		t.Errorf("len = %d, want %d", s.Exhaust.Len(), particlesPerTick)
	}
}

func TestLandingPadCovers(t *testing.T) {
	pad := NewLandingPad(config.DefaultConfig().World)
	tests := []struct {
		x    float64
		want bool
	}{
		{0, true},
		{pad.Width / 2, true},
		{-pad.Width / 2, true},
		{pad.Width/2 + 0.1, false},
		{-500, false},
	}
	for _, tt := range tests {
		if got := pad.Covers(tt.x); got != tt.want {
			t.Errorf("Covers(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
