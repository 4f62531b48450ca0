package messaging

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
)

// syncBus returns a bus with synchronous delivery so tests need no waiting.
func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
}

func TestEventBus_DeliversByType(t *testing.T) {
	bus := syncBus()

	var got []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventSessionAuthenticated, func(e shared.Event) error {
		got = append(got, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewBaseEvent(shared.EventSessionAuthenticated, "9876543210")))
	require.NoError(t, bus.Publish(shared.NewBaseEvent(shared.EventSessionLoggedOut, "")))

	assert.Equal(t, []shared.EventType{shared.EventSessionAuthenticated}, got)
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()

	var count int
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewBaseEvent(shared.EventSessionRestored, "")))
	require.NoError(t, bus.Publish(shared.NewBaseEvent(shared.EventTurnAppended, "t1")))

	assert.Equal(t, 2, count)
}

func TestEventBus_ClosedRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewBaseEvent(shared.EventSessionRestored, ""))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventSessionRestored, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Double close is a no-op.
	assert.NoError(t, bus.Close())
}

func TestEventBus_AsyncDeliveryCompletesOnClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var mu sync.Mutex
	var count int
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(shared.NewBaseEvent(shared.EventResourceHydrated, "9876543210")))
	}

	// Close waits for in-flight handlers.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}
