// pkg/entity/exhaust.go
package entity

import (
	"math/rand/v2"

	"github.com/opd-ai/go-starship/pkg/physics"
)

const (
	// DefaultExhaustCapacity bounds the particle queue of a stage.
	DefaultExhaustCapacity = 256

	particlesPerTick = 5
	particleLifetime = 1.0
	particleDecay    = 0.05
)

// Particle is a cosmetic plume element. The simulation never reads it back.
type Particle struct {
	Position physics.Vector2D
	Velocity physics.Vector2D
	Size     float64
	Lifetime float64
}

// Exhaust is a bounded append/expire queue of particles
type Exhaust struct {
	particles []Particle
	capacity  int
	rng       *rand.Rand
}

// NewExhaust creates an exhaust queue holding at most capacity particles
func NewExhaust(capacity int, seed uint64) *Exhaust {
	return &Exhaust{
		particles: make([]Particle, 0, capacity),
		capacity:  capacity,
		rng:       rand.New(rand.NewPCG(seed, seed*0x9e3779b97f4a7c15)),
	}
}

// Emit appends a burst of particles leaving the nozzle against the heading.
// The oldest particles are dropped once the queue is full.
func (e *Exhaust) Emit(nozzle physics.Vector2D, heading float64) {
	for i := 0; i < particlesPerTick; i++ {
		spread := (e.rng.Float64() - 0.5) * 0.4
		speed := 5 + e.rng.Float64()*5
		e.particles = append(e.particles, Particle{
			Position: nozzle,
			Velocity: physics.FromAngle(heading+physics.Vertical*2+spread, speed),
			Size:     2 + e.rng.Float64()*6,
			Lifetime: particleLifetime,
		})
	}
	if over := len(e.particles) - e.capacity; over > 0 {
		e.particles = append(e.particles[:0], e.particles[over:]...)
	}
}

// Decay moves every particle and drops the expired ones
func (e *Exhaust) Decay() {
	alive := e.particles[:0]
	for _, p := range e.particles {
		p.Position = p.Position.Add(p.Velocity)
		p.Lifetime -= particleDecay
		if p.Lifetime > 0 {
			alive = append(alive, p)
		}
	}
	e.particles = alive
}

// Len returns the number of live particles
func (e *Exhaust) Len() int {
	return len(e.particles)
}

// Particles returns a copy of the live particles
func (e *Exhaust) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}
