package stack

import (
	"math"
	"testing"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

func newStack() (*entity.Stage, *entity.Stage, *Coupling) {
	cfg := config.DefaultConfig()
	booster := entity.NewStage(entity.Booster, cfg.Booster, physics.Vector2D{X: 0, Y: 100})
	upper := entity.NewStage(entity.UpperStage, cfg.UpperStage, physics.Zero)
	c := NewCoupling()
	c.Sync(booster, upper)
	return booster, upper, c
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		want    physics.Vector2D
	}{
		{"vertical", physics.Vertical, physics.Vector2D{X: 0, Y: 75}},
		{"horizontal", 0, physics.Vector2D{X: 75, Y: 0}},
		{"inverted", -physics.Vertical, physics.Vector2D{X: 0, Y: -75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offset(tt.heading, 90, 60)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Offset = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStepKeepsUpperStageLocked(t *testing.T) {
	booster, upper, c := newStack()
	in := physics.Integrator{Gravity: 0.05}

	for i := 0; i < 200; i++ {
		booster.Command(true, i%3 == 0, false)
		upper.RotatingRight = true
		c.Step(in, booster, upper)

		want := booster.Position.Add(Offset(booster.Heading, booster.Height, upper.Height))
		if upper.Position != want {
			t.Fatalf("tick %d: upper position %+v, want %+v", i, upper.Position, want)
		}
		if upper.Velocity != booster.Velocity || upper.Heading != booster.Heading {
			t.Fatalf("tick %d: upper stage not synced", i)
		}
		if upper.RotatingRight {
			t.Fatalf("tick %d: upper actuators not cleared", i)
		}
	}
}

func TestStepUsesCombinedMass(t *testing.T) {
	booster, upper, c := newStack()
	in := physics.Integrator{Gravity: 0}

	booster.Command(true, false, false)
	c.Step(in, booster, upper)

	want := booster.Propulsion.ThrustForce / (booster.Mass + upper.Mass)
	if math.Abs(booster.Velocity.Y-want) > 1e-9 {
		t.Errorf("vy = %v, want %v", booster.Velocity.Y, want)
	}
	if upper.Fuel != config.DefaultConfig().UpperStage.StartFuel {
		t.Errorf("upper stage fuel changed while attached: %v", upper.Fuel)
	}
}

func TestSeparate(t *testing.T) {
	booster, upper, c := newStack()
	in := physics.Integrator{Gravity: 0.05}

	booster.Command(true, false, false)
	c.Step(in, booster, upper)
	snapshot := upper.Body

	if !c.Separate() {
		t.Fatal("first Separate should succeed")
	}
	if c.Separate() {
		t.Error("second Separate should be rejected")
	}
	if upper.Body != snapshot {
		t.Error("separation changed the upper stage state")
	}

	c.Step(in, booster, upper)
	if upper.Body != snapshot {
		t.Error("detached coupling still moved the upper stage")
	}
}
