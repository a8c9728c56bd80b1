// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Flight event types
const (
	Launched            Type = "launched"
	PhaseChanged        Type = "phase_changed"
	StageSeparated      Type = "stage_separated"
	AutopilotEngaged    Type = "autopilot_engaged"
	AutopilotDisengaged Type = "autopilot_disengaged"
	VehicleLanded       Type = "vehicle_landed"
	VehicleCrashed      Type = "vehicle_crashed"
	BoosterImpact       Type = "booster_impact"
	SimulationReset     Type = "simulation_reset"
)

// AllTypes lists every flight event type in emission order of a nominal flight.
var AllTypes = []Type{
	SimulationReset,
	Launched,
	PhaseChanged,
	StageSeparated,
	AutopilotEngaged,
	AutopilotDisengaged,
	BoosterImpact,
	VehicleLanded,
	VehicleCrashed,
}

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus dispatches events synchronously to subscribers, in subscription order.
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every flight event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range AllTypes {
		b.Subscribe(t, handler)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// FlightEvent describes something that happened to the vehicle during a tick.
// From and To carry phase names for PhaseChanged and are empty otherwise.
type FlightEvent struct {
	BaseEvent
	Tick   uint64
	Stage  string
	From   string
	To     string
	Detail string
}

// NewFlightEvent creates a new flight event
func NewFlightEvent(eventType Type, source interface{}, tick uint64, stage string) *FlightEvent {
	return &FlightEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:  tick,
		Stage: stage,
	}
}

// NewPhaseEvent creates a PhaseChanged event
func NewPhaseEvent(source interface{}, tick uint64, from, to string) *FlightEvent {
	e := NewFlightEvent(PhaseChanged, source, tick, "")
	e.From = from
	e.To = to
	return e
}
