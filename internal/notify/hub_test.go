package notify

import (
	"encoding/json"
	"testing"
	"time"

	"bikeparts/internal/domain"

	"go.uber.org/zap"
)

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())

	a := hub.Register("client-a")
	b := hub.Register("client-b")
	defer hub.Unregister("client-a")
	defer hub.Unregister("client-b")

	event := OrderEvent{
		Event:     EventOrderCreated,
		OrderID:   "order-1",
		Status:    domain.StatusPending,
		Total:     900,
		Timestamp: time.Now(),
	}
	hub.Broadcast(event)

	for _, client := range []*Client{a, b} {
		select {
		case payload := <-client.Events:
			var got OrderEvent
			if err := json.Unmarshal(payload, &got); err != nil {
				t.Fatalf("Failed to decode event payload: %v", err)
			}
			if got.Event != EventOrderCreated || got.OrderID != "order-1" {
				t.Errorf("Unexpected event for %s: %+v", client.ID, got)
			}
		default:
			t.Errorf("Client %s did not receive the event", client.ID)
		}
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(zap.NewNop())

	client := hub.Register("slow-client")
	defer hub.Unregister("slow-client")

	// Overfill the buffer; broadcasts must return without blocking.
	for i := 0; i < cap(client.Events)+5; i++ {
		hub.Broadcast(OrderEvent{Event: EventOrderCreated, OrderID: "order"})
	}

	if len(client.Events) != cap(client.Events) {
		t.Errorf("Expected a full buffer, got %d of %d", len(client.Events), cap(client.Events))
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())

	client := hub.Register("client")
	hub.Unregister("client")

	if _, open := <-client.Events; open {
		t.Error("Channel must be closed after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected no clients, got %d", hub.ClientCount())
	}
}
