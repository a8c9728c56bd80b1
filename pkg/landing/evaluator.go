// pkg/landing/evaluator.go
package landing

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/entity"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// Outcome classifies a ground contact
type Outcome int

const (
	Landed Outcome = iota
	Crashed
)

// String returns the outcome name
func (o Outcome) String() string {
	if o == Landed {
		return "landed"
	}
	return "crashed"
}

// Evaluator decides whether a touchdown was survivable
type Evaluator struct {
	limits  config.LandingConfig
	groundY float64
}

// NewEvaluator creates an evaluator for the given safety limits and ground level
func NewEvaluator(limits config.LandingConfig, groundY float64) *Evaluator {
	return &Evaluator{limits: limits, groundY: groundY}
}

// Contact reports whether the body has reached ground level
func (e *Evaluator) Contact(b *physics.Body) bool {
	return b.Position.Y <= e.groundY
}

// Classify grades the contact state of b. It has no side effects, so
// repeated calls on the same state agree.
func (e *Evaluator) Classify(b *physics.Body) Outcome {
	if len(e.Violations(b)) > 0 {
		return Crashed
	}
	return Landed
}

// Violations lists every safety limit the body exceeds
func (e *Evaluator) Violations(b *physics.Body) []string {
	var out []string
	if descent := -b.Velocity.Y; descent > e.limits.MaxVerticalSpeed {
		out = append(out, fmt.Sprintf("vertical speed %.2f > %.2f", descent, e.limits.MaxVerticalSpeed))
	}
	if vx := math.Abs(b.Velocity.X); vx > e.limits.MaxHorizontalSpeed {
		out = append(out, fmt.Sprintf("horizontal speed %.2f > %.2f", vx, e.limits.MaxHorizontalSpeed))
	}
	if tilt := math.Abs(physics.AngleError(physics.Vertical, b.Heading)); tilt > e.limits.MaxAngle {
		out = append(out, fmt.Sprintf("tilt %.3f > %.3f", tilt, e.limits.MaxAngle))
	}
	return out
}

// Resolve classifies s and applies the result. A landed stage comes to rest
// exactly; a crashed stage keeps its velocity.
func (e *Evaluator) Resolve(s *entity.Stage) Outcome {
	outcome := e.Classify(&s.Body)
	switch outcome {
	case Landed:
		s.Halt()
		s.ClearActuators()
	case Crashed:
		s.Crashed = true
		s.ClearActuators()
	}
	return outcome
}

// BoosterImpact flags s crashed on any ground contact. It reports true only
// for the tick the impact happens.
func (e *Evaluator) BoosterImpact(s *entity.Stage) bool {
	if s.Crashed || !e.Contact(&s.Body) {
		return false
	}
	s.Crashed = true
	s.ClearActuators()
	return true
}
