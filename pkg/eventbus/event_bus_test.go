package eventbus_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/channels/gochannel"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/eventbus"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/events"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.DocumentChanged, 1)

	err := bus.Handle(events.DocumentChangedEvent, func(_ context.Context, event any) error {
		changed, ok := event.(*events.DocumentChanged)
		if ok {
			received <- changed
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(t.Context()))

	event := events.DocumentChanged{
		BaseEvent: events.BaseEvent{
			ID:        bus.GenerateID(),
			Type:      events.DocumentChangedEvent,
			Timestamp: time.Now().UTC(),
		},
		Collection: store.CollectionWorkstreams,
		DocumentID: "w1",
		Op:         store.OpPatch,
	}
	require.NoError(t, bus.Publish(t.Context(), "workstreams:w1", event))

	select {
	case changed := <-received:
		assert.Equal(t, store.CollectionWorkstreams, changed.Collection)
		assert.Equal(t, "w1", changed.DocumentID)
		assert.Equal(t, store.OpPatch, changed.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for document change event")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	a := bus.GenerateID()
	b := bus.GenerateID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestStoreNotifier_DeliversReactiveQueries(t *testing.T) {
	// Full loop: a store mutation surfaces as a DocumentChanged event a
	// subscribed view can react to.
	bus := newTestBus(t)
	st := memory.New()
	st.SetNotifier(eventbus.NewStoreNotifier(bus, slog.Default()))

	received := make(chan *events.DocumentChanged, 4)

	err := bus.Handle(events.DocumentChangedEvent, func(_ context.Context, event any) error {
		if changed, ok := event.(*events.DocumentChanged); ok {
			received <- changed
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(t.Context()))

	id, err := st.Insert(t.Context(), store.CollectionCompanies, store.Document{"slug": "acme"})
	require.NoError(t, err)

	select {
	case changed := <-received:
		assert.Equal(t, store.CollectionCompanies, changed.Collection)
		assert.Equal(t, id, changed.DocumentID)
		assert.Equal(t, store.OpInsert, changed.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reactive notification")
	}
}
