package catalog

import (
	"sort"
	"strings"

	"bikeparts/internal/domain"
)

// FilterSort returns a new slice containing the products that satisfy every
// active dimension of the criteria, ordered by the sort key. The input slice
// is never mutated; ties keep their catalog order (stable sort), so calling
// it twice with identical inputs yields identical output.
func FilterSort(products []domain.Product, c Criteria, key SortKey) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, c) {
			out = append(out, p)
		}
	}
	sortProducts(out, key)
	return out
}

// Matches reports whether a product satisfies all active filter dimensions.
// Dimensions are ANDed; multi-valued dimensions are ORed internally.
func Matches(p domain.Product, c Criteria) bool {
	if !matchesSearch(p, c.Search) {
		return false
	}
	if len(c.Brands) > 0 && !containsString(c.Brands, p.Brand) {
		return false
	}
	if len(c.Categories) > 0 && !containsString(c.Categories, p.Category) {
		return false
	}
	if p.Price < c.PriceMin {
		return false
	}
	if c.HasPriceCeiling() && p.Price > c.PriceMax {
		return false
	}
	if c.InStockOnly && p.Stock <= 0 {
		return false
	}
	if len(c.MinRatings) > 0 && !meetsAnyThreshold(p.Rating, c.MinRatings) {
		return false
	}
	return matchesBike(p, c)
}

func matchesSearch(p domain.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func meetsAnyThreshold(rating float64, thresholds []float64) bool {
	for _, t := range thresholds {
		if rating >= t {
			return true
		}
	}
	return false
}

// matchesBike applies the hierarchical compatibility filter. A chosen model
// takes precedence over a chosen make; with neither set the dimension is
// inactive.
func matchesBike(p domain.Product, c Criteria) bool {
	if c.BikeModel != "" {
		if p.Brand == domain.Universal {
			return true
		}
		// A product without compatibility data is excluded here.
		for _, compat := range p.Compatibility {
			if compat == c.BikeModel || compat == domain.Universal {
				return true
			}
		}
		return false
	}
	if c.BikeMake != "" {
		if p.Brand == c.BikeMake || p.Brand == domain.Universal {
			return true
		}
		// Substring match on compatibility strings is a known heuristic:
		// "Royal Enfield Classic 350" passes a "Royal Enfield" make filter.
		for _, compat := range p.Compatibility {
			if strings.Contains(compat, c.BikeMake) {
				return true
			}
		}
		return false
	}
	return true
}

func sortProducts(products []domain.Product, key SortKey) {
	switch key {
	case SortByPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortByPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortByRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortByNewest:
		// Zero timestamps sort as oldest.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	}
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
