// pkg/engine/system.go
package engine

import (
	"github.com/EngoEngine/ecs"
)

// Observer receives the snapshot produced by every tick
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Snapshot)

// Observe calls f
func (f ObserverFunc) Observe(snap Snapshot) {
	f(snap)
}

// FlightSystem drives a Simulation from an ecs.World. Every World.Update
// advances exactly one tick regardless of dt, then hands the snapshot to
// the observers in registration order.
type FlightSystem struct {
	sim       *Simulation
	observers []Observer
	priority  int
}

// NewFlightSystem creates a system ticking sim
func NewFlightSystem(sim *Simulation, observers ...Observer) *FlightSystem {
	return &FlightSystem{
		sim:       sim,
		observers: observers,
		priority:  100,
	}
}

// Observe registers another observer
func (fs *FlightSystem) Observe(o Observer) {
	fs.observers = append(fs.observers, o)
}

// Update satisfies the ecs.System interface
func (fs *FlightSystem) Update(dt float32) {
	fs.sim.Tick()
	snap := fs.sim.Snapshot()
	for _, o := range fs.observers {
		o.Observe(snap)
	}
}

// Remove satisfies the ecs.System interface
func (fs *FlightSystem) Remove(basic ecs.BasicEntity) {
	// The flight system tracks no entities
}

// Priority runs the flight system ahead of presentation systems
func (fs *FlightSystem) Priority() int {
	return fs.priority
}

// Simulation returns the driven simulation
func (fs *FlightSystem) Simulation() *Simulation {
	return fs.sim
}
