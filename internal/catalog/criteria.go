package catalog

// SortKey selects the ordering of filtered results
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByRating    SortKey = "rating"
	SortByNewest    SortKey = "newest"
)

// ParseSortKey maps a raw sort parameter to a SortKey, falling back to
// SortByName for unknown values.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByPriceLow, SortByPriceHigh, SortByRating, SortByNewest:
		return SortKey(raw)
	default:
		return SortByName
	}
}

// Criteria is the ephemeral filter bundle applied to a catalog snapshot.
// Zero values mean the dimension is inactive: an empty set matches everything,
// a zero PriceMax disables the upper price bound.
type Criteria struct {
	Search      string
	Brands      []string
	Categories  []string
	MinRatings  []float64
	PriceMin    float64
	PriceMax    float64
	InStockOnly bool
	BikeMake    string
	BikeModel   string
}

// HasPriceCeiling reports whether an upper price bound is active
func (c Criteria) HasPriceCeiling() bool {
	return c.PriceMax > 0
}
