package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgar/business-coach-sub001/pkg/channels/gochannel"
	"github.com/vitgar/business-coach-sub001/pkg/events"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 1)

	err := bus.Handle(events.SectionSavedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	event := events.SectionSaved{
		BaseEvent: events.NewBaseEvent(events.SectionSavedEvent, "user-1"),
		PlanID:    "plan-1",
		SectionID: "vision",
		Chars:     42,
	}

	require.NoError(t, bus.Publish(t.Context(), event.PlanID, event))

	select {
	case got := <-received:
		saved, ok := got.(*events.SectionSaved)
		require.True(t, ok)
		assert.Equal(t, "plan-1", saved.PlanID)
		assert.Equal(t, "vision", saved.SectionID)
		assert.Equal(t, 42, saved.Chars)
		assert.Equal(t, "user-1", saved.Owner)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 2)

	err := bus.Handle(events.PlanCreatedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	// No handler registered for this type; it must not block the stream.
	deleted := events.PlanDeleted{
		BaseEvent: events.NewBaseEvent(events.PlanDeletedEvent, "user-1"),
		PlanID:    "plan-gone",
	}
	require.NoError(t, bus.Publish(t.Context(), deleted.PlanID, deleted))

	created := events.PlanCreated{
		BaseEvent: events.NewBaseEvent(events.PlanCreatedEvent, "user-1"),
		PlanID:    "plan-new",
		Title:     "Bike Shop",
	}
	require.NoError(t, bus.Publish(t.Context(), created.PlanID, created))

	select {
	case got := <-received:
		event, ok := got.(*events.PlanCreated)
		require.True(t, ok)
		assert.Equal(t, "plan-new", event.PlanID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
