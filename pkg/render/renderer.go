// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-starship/pkg/engine"
	"github.com/opd-ai/go-starship/pkg/logging"
)

// Renderer presents simulation snapshots. Renderers never write back into
// the simulation.
type Renderer interface {
	engine.Observer
}

// NullRenderer logs each snapshot at debug level instead of drawing it.
type NullRenderer struct {
	logger *logging.Logger
	ctx    context.Context
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(ctx context.Context, logger *logging.Logger) *NullRenderer {
	return &NullRenderer{
		logger: logger,
		ctx:    ctx,
	}
}

// Observe implements engine.Observer.
func (d *NullRenderer) Observe(snap engine.Snapshot) {
	focus := snap.Focus()
	d.logger.Debug(d.ctx, "frame",
		"tick", snap.Tick,
		"phase", snap.Phase.String(),
		"stage", focus.Kind,
		"altitude", focus.Altitude,
		"velocity_y", focus.Velocity.Y,
		"fuel", focus.Fuel,
	)
}
