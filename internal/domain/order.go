package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the five defined states in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// IsValid reports whether s is one of the five defined states
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> to is legal.
// Orders advance pending -> processing -> shipped -> delivered, and any
// non-terminal state may be cancelled. Terminal states have no exits.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered || to == StatusCancelled
	}
	return false
}

// ShippingAddress holds the delivery details captured at checkout
type ShippingAddress struct {
	Name       string `json:"name" db:"ship_name"`
	Phone      string `json:"phone" db:"ship_phone"`
	Address    string `json:"address" db:"ship_address"`
	City       string `json:"city" db:"ship_city"`
	PostalCode string `json:"postal_code" db:"ship_postal_code"`
}

// OrderItem is a line item with the unit price captured at order time
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
}

// Order represents a placed order
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Items         []OrderItem     `json:"items"`
	Total         float64         `json:"total" db:"total"`
	Status        OrderStatus     `json:"status" db:"status"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Shipping      ShippingAddress `json:"shipping"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
