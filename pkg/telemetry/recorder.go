// Package telemetry records flights to SQLite. Records are write-only from
// the simulation's point of view: nothing is ever loaded back into a run.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/engine"
	"github.com/opd-ai/go-starship/pkg/event"
	"github.com/opd-ai/go-starship/pkg/logging"
)

// Open connects to the SQLite database at path and migrates the schema.
// An empty path opens a private in-memory database.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// every connection to :memory: is a distinct database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Flight{}, &Sample{}, &EventRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate telemetry schema: %w", err)
	}
	return db, nil
}

// Recorder samples snapshots and events of a single flight
type Recorder struct {
	db          *gorm.DB
	sampleEvery uint64
	logger      *logging.Logger

	ctx      context.Context
	flightID string
	err      error
}

// NewRecorder creates a recorder writing to db
func NewRecorder(db *gorm.DB, cfg config.TelemetryConfig, logger *logging.Logger) *Recorder {
	every := uint64(1)
	if cfg.SampleEvery > 0 {
		every = uint64(cfg.SampleEvery)
	}
	return &Recorder{
		db:          db,
		sampleEvery: every,
		logger:      logger,
		ctx:         context.Background(),
	}
}

// Begin creates the flight row. ctx must carry the flight ID.
func (r *Recorder) Begin(ctx context.Context, simCfg *config.SimConfig) error {
	flightID := logging.GetFlightID(ctx)
	if flightID == "" {
		return errors.New("context carries no flight id")
	}

	raw, err := json.Marshal(simCfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	flight := Flight{
		FlightID:  flightID,
		StartedAt: time.Now().UTC(),
		Config:    raw,
	}
	if err := r.db.WithContext(ctx).Create(&flight).Error; err != nil {
		return fmt.Errorf("failed to create flight %s: %w", flightID, err)
	}

	r.ctx = ctx
	r.flightID = flightID
	r.logger.Debug(ctx, "telemetry recording", "every", r.sampleEvery)
	return nil
}

// Attach subscribes the recorder to every flight event on bus
func (r *Recorder) Attach(bus *event.Bus) {
	bus.SubscribeAll(r.handleEvent)
}

func (r *Recorder) handleEvent(e event.Event) {
	if r.flightID == "" {
		return
	}
	rec := EventRecord{
		FlightID: r.flightID,
		Type:     string(e.GetType()),
	}
	if fe, ok := e.(*event.FlightEvent); ok {
		rec.Tick = fe.Tick
		rec.Stage = fe.Stage
		rec.From = fe.From
		rec.To = fe.To
		rec.Detail = fe.Detail
	}
	r.keep(r.db.WithContext(r.ctx).Create(&rec).Error, "event")
}

// Observe stores a sample every sampleEvery ticks and at terminal phases.
// It satisfies engine.Observer.
func (r *Recorder) Observe(snap engine.Snapshot) {
	if r.flightID == "" {
		return
	}
	if snap.Tick%r.sampleEvery != 0 && !snap.Phase.Terminal() {
		return
	}

	samples := []Sample{
		r.sample(snap, snap.Booster),
		r.sample(snap, snap.Upper),
	}
	r.keep(r.db.WithContext(r.ctx).Create(&samples).Error, "sample")
}

func (r *Recorder) sample(snap engine.Snapshot, st engine.StageSnapshot) Sample {
	return Sample{
		FlightID:  r.flightID,
		Tick:      snap.Tick,
		Phase:     snap.Phase.String(),
		Stage:     st.Kind,
		X:         st.Position.X,
		Y:         st.Position.Y,
		VX:        st.Velocity.X,
		VY:        st.Velocity.Y,
		Heading:   st.Heading,
		Fuel:      st.Fuel,
		Altitude:  st.Altitude,
		Attached:  st.Attached,
		Thrusting: st.Thrusting,
		Autopilot: st.Autopilot,
		Crashed:   st.Crashed,
	}
}

// Finish stores the outcome of the flight
func (r *Recorder) Finish(snap engine.Snapshot) error {
	if r.flightID == "" {
		return errors.New("recorder not started")
	}
	now := time.Now().UTC()
	err := r.db.WithContext(r.ctx).Model(&Flight{}).
		Where("flight_id = ?", r.flightID).
		Updates(map[string]any{
			"ended_at": now,
			"outcome":  snap.Phase.String(),
			"ticks":    snap.Tick,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to finish flight %s: %w", r.flightID, err)
	}
	return r.err
}

// Err returns the first write error hit while recording
func (r *Recorder) Err() error {
	return r.err
}

// FlightID returns the flight being recorded
func (r *Recorder) FlightID() string {
	return r.flightID
}

// Close releases the database
func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// keep logs a write failure and remembers the first one
func (r *Recorder) keep(err error, what string) {
	if err == nil {
		return
	}
	r.logger.Error(r.ctx, "telemetry write failed", err, "record", what)
	if r.err == nil {
		r.err = fmt.Errorf("failed to write %s: %w", what, err)
	}
}
