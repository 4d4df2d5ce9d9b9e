package domain

import "github.com/google/uuid"

// CartLine is a single product entry in a shopper's cart. The unit price is
// captured from the catalog when the line is added.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// Subtotal returns the line total
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
