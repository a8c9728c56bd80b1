package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-starship/pkg/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// flightMetrics holds the OTel instruments of a simulation
type flightMetrics struct {
	ticks       metric.Int64Counter
	transitions metric.Int64Counter
	burns       metric.Int64Counter
	touchdown   metric.Float64Histogram
}

func newFlightMetrics(m metric.Meter) (*flightMetrics, error) {
	fm := &flightMetrics{}
	var err error

	fm.ticks, err = m.Int64Counter(
		"flight.ticks",
		metric.WithDescription("Simulation ticks advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	fm.transitions, err = m.Int64Counter(
		"flight.phase.transitions",
		metric.WithDescription("Flight phase transitions by target phase"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transition counter: %w", err)
	}

	fm.burns, err = m.Int64Counter(
		"flight.engine.burn_ticks",
		metric.WithDescription("Ticks with the main engine firing, by stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating burn counter: %w", err)
	}

	fm.touchdown, err = m.Float64Histogram(
		"flight.touchdown.speed",
		metric.WithDescription("Descent speed of the upper stage at ground contact"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating touchdown histogram: %w", err)
	}

	return fm, nil
}

func (fm *flightMetrics) tick(ctx context.Context) {
	fm.ticks.Add(ctx, 1)
}

func (fm *flightMetrics) phase(ctx context.Context, p Phase) {
	fm.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", p.String())))
}

func (fm *flightMetrics) burn(ctx context.Context, stage string) {
	fm.burns.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

func (fm *flightMetrics) contact(ctx context.Context, descent float64, outcome string) {
	fm.touchdown.Record(ctx, descent, metric.WithAttributes(attribute.String("outcome", outcome)))
}
