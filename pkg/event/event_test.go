// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesSubscribersInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(PhaseChanged, func(e Event) { got = append(got, "first") })
	bus.Subscribe(PhaseChanged, func(e Event) { got = append(got, "second") })
	bus.Subscribe(Launched, func(e Event) { got = append(got, "launch") })

	bus.Publish(NewPhaseEvent(nil, 3, "PRE_LAUNCH", "STAGE1_FLIGHT"))

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() {
		bus.Publish(NewFlightEvent(VehicleLanded, nil, 1, "upper"))
	})
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus()
	seen := map[Type]int{}
	bus.SubscribeAll(func(e Event) { seen[e.GetType()]++ })

	for _, typ := range AllTypes {
		bus.Publish(NewFlightEvent(typ, nil, 0, ""))
	}

	require.Len(t, seen, len(AllTypes))
	for _, typ := range AllTypes {
		assert.Equal(t, 1, seen[typ], "type %s", typ)
	}
}

func TestFlightEvent_Fields(t *testing.T) {
	source := struct{}{}
	e := NewPhaseEvent(source, 42, "STAGE2_FLIGHT", "LANDED")

	assert.Equal(t, PhaseChanged, e.GetType())
	assert.Equal(t, source, e.GetSource())
	assert.Equal(t, uint64(42), e.Tick)
	assert.Equal(t, "STAGE2_FLIGHT", e.From)
	assert.Equal(t, "LANDED", e.To)

	var asEvent Event = e
	fe, ok := asEvent.(*FlightEvent)
	require.True(t, ok)
	assert.Equal(t, "LANDED", fe.To)
}

func TestBus_ConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(StageSeparated, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	bus.Publish(NewFlightEvent(StageSeparated, nil, 0, "booster"))
	assert.Equal(t, 10, count)
}
