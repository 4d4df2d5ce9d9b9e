package notify

import (
	"encoding/json"
	"sync"
	"time"

	"bikeparts/internal/domain"

	"go.uber.org/zap"
)

// EventType names an order event broadcast to admin clients
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is the payload streamed to connected admin dashboards
type OrderEvent struct {
	Event     EventType          `json:"event"`
	OrderID   string             `json:"order_id"`
	Status    domain.OrderStatus `json:"status"`
	Total     float64            `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// Client is a connected admin event-stream subscriber
type Client struct {
	ID     string
	Events chan []byte
}

// Hub fans order events out to admin clients. Broadcasts never block: a
// client whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	clients map[string]*Client
}

// NewHub creates a new Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

// Register adds a client and returns it for streaming
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		Events: make(chan []byte, 16),
	}
	h.clients[clientID] = c

	h.logger.Info("Event stream client connected",
		zap.String("client_id", clientID),
		zap.Int("total_clients", len(h.clients)),
	)
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		h.logger.Info("Event stream client disconnected",
			zap.String("client_id", clientID),
			zap.Int("total_clients", len(h.clients)),
		)
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Events <- data:
		default:
			h.logger.Warn("Event stream client buffer full, dropping event",
				zap.String("client_id", c.ID),
			)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
