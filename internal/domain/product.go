package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Universal is the sentinel compatibility/brand value meaning "fits all bikes".
const Universal = "Universal"

// LowStockThreshold is the stock level below which a product counts as low stock.
const LowStockThreshold = 10

// Product represents a bike part in the catalog
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Brand         string    `json:"brand" db:"brand"`
	Category      string    `json:"category" db:"category"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	OriginalPrice float64   `json:"original_price" db:"original_price"`
	Stock         int       `json:"stock" db:"stock"`
	Rating        float64   `json:"rating" db:"rating"`
	ReviewCount   int       `json:"review_count" db:"review_count"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	Compatibility []string  `json:"compatibility" db:"compatibility"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DiscountPercent derives the discount from price and original price.
// It is never stored; clamped to 0 when there is no discount.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - p.Price/p.OriginalPrice) * 100))
}

// InStock reports whether the product has any stock left
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// IsUniversal reports whether the product fits all bikes, either by brand
// or by listing the Universal sentinel in its compatibility set.
func (p *Product) IsUniversal() bool {
	if p.Brand == Universal {
		return true
	}
	for _, c := range p.Compatibility {
		if c == Universal {
			return true
		}
	}
	return false
}
