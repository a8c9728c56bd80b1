package telemetry

import (
	"time"

	"gorm.io/datatypes"
)

// Flight is one recorded simulation run
type Flight struct {
	ID        uint   `gorm:"primarykey"`
	FlightID  string `gorm:"uniqueIndex;size:32"`
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   string
	Ticks     uint64
	Config    datatypes.JSON
}

// Sample is the state of one stage at a sampled tick
type Sample struct {
	ID        uint   `gorm:"primarykey"`
	FlightID  string `gorm:"index;size:32"`
	Tick      uint64 `gorm:"index"`
	Phase     string
	Stage     string
	X         float64
	Y         float64
	VX        float64
	VY        float64
	Heading   float64
	Fuel      float64
	Altitude  float64
	Attached  bool
	Thrusting bool
	Autopilot bool
	Crashed   bool
}

// EventRecord is a flight event as published on the bus
type EventRecord struct {
	ID        uint   `gorm:"primarykey"`
	FlightID  string `gorm:"index;size:32"`
	Tick      uint64
	Type      string `gorm:"index"`
	Stage     string
	From      string
	To        string
	Detail    string
	CreatedAt time.Time
}
