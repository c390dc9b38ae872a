package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/events"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
)

// StoreNotifier adapts the event bus to the store's Notifier contract so
// every successful mutation becomes a DocumentChanged event. Subscribers
// re-run their queries on delivery, which is how an edit made in one view
// shows up in every other open view.
type StoreNotifier struct {
	bus    EventBus
	logger *slog.Logger
}

func NewStoreNotifier(bus EventBus, logger *slog.Logger) *StoreNotifier {
	return &StoreNotifier{bus: bus, logger: logger}
}

func (n *StoreNotifier) DocumentChanged(ctx context.Context, collection, id string, op store.Op) {
	event := events.DocumentChanged{
		BaseEvent: events.BaseEvent{
			ID:        n.bus.GenerateID(),
			Type:      events.DocumentChangedEvent,
			Timestamp: time.Now().UTC(),
		},
		Collection: collection,
		DocumentID: id,
		Op:         op,
	}

	// Change notification is best effort: a failed publish never fails the
	// mutation that produced it.
	if err := n.bus.Publish(ctx, collection+":"+id, event); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish document change",
			"collection", collection, "document_id", id, "error", err)
	}
}
