package guidance

import (
	"math"
	"testing"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

var target = Target{X: 0, GroundY: 50}

func newController() *Controller {
	return NewController(config.DefaultConfig())
}

// stageAt builds a stage alt units above ground, dx right of the pad
func stageAt(kind entity.Kind, dx, alt, vx, vy, heading float64) *entity.Stage {
	cfg := config.DefaultConfig()
	sc := cfg.UpperStage
	if kind == entity.Booster {
		sc = cfg.Booster
	}
	s := entity.NewStage(kind, sc, physics.Vector2D{X: target.X + dx, Y: target.GroundY + alt})
	s.Velocity = physics.Vector2D{X: vx, Y: vy}
	s.Heading = heading
	return s
}

func TestEvaluateDisengages(t *testing.T) {
	c := newController()
	for _, v := range []Variant{BoosterGuidance, UpperStageGuidance} {
		t.Run(v.String()+" no fuel", func(t *testing.T) {
			s := stageAt(entity.UpperStage, 0, 1000, 0, -20, physics.Vertical)
			s.Fuel = 0
			cmd, engaged := c.Evaluate(v, s, target)
			if engaged || cmd != (Command{}) {
				t.Errorf("got (%+v, %v), want empty disengaged command", cmd, engaged)
			}
		})
		t.Run(v.String()+" crashed", func(t *testing.T) {
			s := stageAt(entity.UpperStage, 0, 1000, 0, -20, physics.Vertical)
			s.Crashed = true
			cmd, engaged := c.Evaluate(v, s, target)
			if engaged || cmd != (Command{}) {
				t.Errorf("got (%+v, %v), want empty disengaged command", cmd, engaged)
			}
		})
	}
}

func TestUpperStageRotationDirection(t *testing.T) {
	c := newController()
	tests := []struct {
		name      string
		heading   float64
		wantLeft  bool
		wantRight bool
	}{
		{"vertical holds", physics.Vertical, false, false},
		{"leaning left turns right", physics.Vertical + 0.2, false, true},
		{"leaning right turns left", physics.Vertical - 0.2, true, false},
		{"near pi turns right", math.Pi - 0.01, false, true},
		{"near minus pi turns right", -math.Pi + 0.01, false, true},
		{"inverted past zero turns left", -0.3, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stageAt(entity.UpperStage, 0, 1000, 0, -5, tt.heading)
			cmd, engaged := c.Evaluate(UpperStageGuidance, s, target)
			if !engaged {
				t.Fatal("expected engaged controller")
			}
			if cmd.RotateLeft != tt.wantLeft || cmd.RotateRight != tt.wantRight {
				t.Errorf("rotation = (%v,%v), want (%v,%v)", cmd.RotateLeft, cmd.RotateRight, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestUpperStageWrapSafe(t *testing.T) {
	c := newController()
	for _, h := range []float64{0.1, 1.4, 2.0, 3.1, -3.1, -1.2} {
		a := stageAt(entity.UpperStage, 30, 400, 1, -4, h)
		b := stageAt(entity.UpperStage, 30, 400, 1, -4, h+2*math.Pi)
		ca, _ := c.Evaluate(UpperStageGuidance, a, target)
		cb, _ := c.Evaluate(UpperStageGuidance, b, target)
		if ca != cb {
			t.Errorf("heading %v: %+v differs from wrapped equivalent %+v", h, ca, cb)
		}
	}
}

func TestUpperStageTargetDescent(t *testing.T) {
	c := newController()
	tests := []struct {
		alt  float64
		want float64
	}{
		{1000, 9},
		{551, 9},
		{550, 9},
		{300, 4.75},
		{50, 0.5},
		{10, 0.5},
		{0, 0.5},
	}
	for _, tt := range tests {
		if got := c.TargetDescent(tt.alt); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TargetDescent(%v) = %v, want %v", tt.alt, got, tt.want)
		}
	}
}

func TestUpperStageThrust(t *testing.T) {
	c := newController()
	tests := []struct {
		name    string
		alt     float64
		vy      float64
		heading float64
		want    bool
	}{
		{"fast descent high up", 1000, -20, physics.Vertical, true},
		{"within deadband", 1000, -9.05, physics.Vertical, false},
		{"slow descent is safe", 1000, -2, physics.Vertical, false},
		{"misaligned never fires", 1000, -20, physics.Vertical + 0.5, false},
		{"braking band", 100, -3, physics.Vertical + 0.1, true},
		{"near ground overspeed", 30, -2.5, physics.Vertical, true},
		{"final approach deadband", 60, -0.74, physics.Vertical, true},
		{"final approach alignment gate", 30, -3, physics.Vertical + 0.1, false},
		{"hovering near ground", 30, 0.2, physics.Vertical, false},
		{"nose down while climbing", 1000, 3, physics.Vertical - 0.401, true},
		{"tilted while climbing", 1000, 3, physics.Vertical - 0.3, false},
		{"nose down while slowly sinking", 1000, -0.3, physics.Vertical - 0.401, true},
		{"nose down while sinking fast", 1000, -0.6, physics.Vertical - 0.401, false},
		{"tipped left while climbing", 1000, 3, physics.Vertical + 0.401, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stageAt(entity.UpperStage, 0, tt.alt, 0, tt.vy, tt.heading)
			cmd, _ := c.Evaluate(UpperStageGuidance, s, target)
			if cmd.Thrust != tt.want {
				t.Errorf("thrust = %v, want %v", cmd.Thrust, tt.want)
			}
		})
	}
}

func TestUpperStageFinalApproachSchedule(t *testing.T) {
	c := newController()
	tests := []struct {
		name      string
		dx        float64
		vx        float64
		heading   float64
		wantLeft  bool
		wantRight bool
	}{
		{"centered and still", 3, 0, physics.Vertical, false, false},
		{"misplaced left of pad", -50, 0, physics.Vertical, false, true},
		{"misplaced right of pad", 50, 0, physics.Vertical, true, false},
		{"drifting right is damped", 0, 1, physics.Vertical, true, false},
		{"tilt past final clamp", 0, 0, physics.Vertical - 0.1, true, false},
		{"inside final tolerance", 0, 0, physics.Vertical + 0.0004, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stageAt(entity.UpperStage, tt.dx, 30, tt.vx, -1, tt.heading)
			cmd, _ := c.Evaluate(UpperStageGuidance, s, target)
			if cmd.RotateLeft != tt.wantLeft || cmd.RotateRight != tt.wantRight {
				t.Errorf("rotation = (%v,%v), want (%v,%v)", cmd.RotateLeft, cmd.RotateRight, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestBoosterGuidance(t *testing.T) {
	c := newController()
	tests := []struct {
		name       string
		dx, alt    float64
		vy         float64
		heading    float64
		wantThrust bool
		wantLeft   bool
		wantRight  bool
	}{
		{"falling fast over pad", 0, 1000, -2, physics.Vertical, true, false, false},
		{"slow fall up high", 0, 1000, -0.8, physics.Vertical, false, false, false},
		{"slow fall near ground", 0, 100, -0.8, physics.Vertical, true, false, false},
		{"pad to the right", -100, 1000, -2, physics.Vertical, true, false, true},
		{"pad to the left", 100, 1000, -2, physics.Vertical, true, true, false},
		{"badly tilted", 0, 1000, -2, physics.Vertical + 0.6, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stageAt(entity.Booster, tt.dx, tt.alt, 0, tt.vy, tt.heading)
			cmd, engaged := c.Evaluate(BoosterGuidance, s, target)
			if !engaged {
				t.Fatal("expected engaged controller")
			}
			if cmd.Thrust != tt.wantThrust || cmd.RotateLeft != tt.wantLeft || cmd.RotateRight != tt.wantRight {
				t.Errorf("command = %+v, want thrust=%v left=%v right=%v", cmd, tt.wantThrust, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestCommandApply(t *testing.T) {
	s := stageAt(entity.UpperStage, 0, 100, 0, 0, physics.Vertical)
	Command{Thrust: true, RotateRight: true}.Apply(s)
	if !s.Thrusting || s.RotatingLeft || !s.RotatingRight {
		t.Errorf("flags = (%v,%v,%v)", s.Thrusting, s.RotatingLeft, s.RotatingRight)
	}
}

func TestVariantFor(t *testing.T) {
	if VariantFor(entity.Booster) != BoosterGuidance {
		t.Error("booster should fly the booster law")
	}
	if VariantFor(entity.UpperStage) != UpperStageGuidance {
		t.Error("upper stage should fly the upper stage law")
	}
}
