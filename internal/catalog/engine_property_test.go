package catalog

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"bikeparts/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	genBrands     = []string{"Bosch", "Brembo", "NGK", "Rizoma", "Minda", domain.Universal}
	genCategories = []string{"Brakes", "Engine", "Electricals", "Accessories"}
	genModels     = []string{"Classic 350", "Meteor 350", "MT-15", "Splendor Plus", domain.Universal}
)

// randomCatalog builds a reproducible catalog from a seed.
func randomCatalog(seed int64, size int) []domain.Product {
	r := rand.New(rand.NewSource(seed))
	cat := make([]domain.Product, 0, size)
	for i := 0; i < size; i++ {
		price := math.Round(r.Float64()*5000*100) / 100
		compat := []string(nil)
		for _, m := range genModels {
			if r.Intn(3) == 0 {
				compat = append(compat, m)
			}
		}
		cat = append(cat, domain.Product{
			ID:            uuid.New(),
			Name:          "Part " + string(rune('A'+r.Intn(26))),
			Brand:         genBrands[r.Intn(len(genBrands))],
			Category:      genCategories[r.Intn(len(genCategories))],
			Price:         price,
			OriginalPrice: price,
			Stock:         r.Intn(20),
			Rating:        math.Round(r.Float64()*50) / 10,
			Compatibility: compat,
			CreatedAt:     time.Unix(r.Int63n(1_700_000_000), 0),
		})
	}
	return cat
}

// randomCriteria builds a reproducible criteria bundle from a seed.
func randomCriteria(seed int64) Criteria {
	r := rand.New(rand.NewSource(seed))
	c := Criteria{}
	if r.Intn(2) == 0 {
		c.Search = []string{"part", "bre", "ngk", ""}[r.Intn(4)]
	}
	for _, b := range genBrands {
		if r.Intn(4) == 0 {
			c.Brands = append(c.Brands, b)
		}
	}
	for _, cat := range genCategories {
		if r.Intn(4) == 0 {
			c.Categories = append(c.Categories, cat)
		}
	}
	if r.Intn(2) == 0 {
		c.MinRatings = append(c.MinRatings, float64(r.Intn(5)))
	}
	c.PriceMin = float64(r.Intn(3000))
	if r.Intn(2) == 0 {
		c.PriceMax = c.PriceMin + float64(r.Intn(3000))
	}
	c.InStockOnly = r.Intn(2) == 0
	switch r.Intn(3) {
	case 0:
		c.BikeMake = []string{"Royal Enfield", "Bosch", "Yamaha"}[r.Intn(3)]
	case 1:
		c.BikeModel = genModels[r.Intn(len(genModels))]
	}
	return c
}

// passesDimensionsIndependently re-checks every dimension on its own, without
// short-circuiting, as an oracle for the composed predicate.
func passesDimensionsIndependently(p domain.Product, c Criteria) bool {
	pass := true

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		hit := strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q)
		pass = pass && hit
	}

	if len(c.Brands) > 0 {
		hit := false
		for _, b := range c.Brands {
			hit = hit || b == p.Brand
		}
		pass = pass && hit
	}

	if len(c.Categories) > 0 {
		hit := false
		for _, cat := range c.Categories {
			hit = hit || cat == p.Category
		}
		pass = pass && hit
	}

	pass = pass && p.Price >= c.PriceMin
	if c.PriceMax > 0 {
		pass = pass && p.Price <= c.PriceMax
	}

	if c.InStockOnly {
		pass = pass && p.Stock > 0
	}

	if len(c.MinRatings) > 0 {
		hit := false
		for _, threshold := range c.MinRatings {
			hit = hit || p.Rating >= threshold
		}
		pass = pass && hit
	}

	if c.BikeModel != "" {
		hit := p.Brand == domain.Universal
		for _, compat := range p.Compatibility {
			hit = hit || compat == c.BikeModel || compat == domain.Universal
		}
		pass = pass && hit
	} else if c.BikeMake != "" {
		hit := p.Brand == c.BikeMake || p.Brand == domain.Universal
		for _, compat := range p.Compatibility {
			hit = hit || strings.Contains(compat, c.BikeMake)
		}
		pass = pass && hit
	}

	return pass
}

func TestProperty_FilterIsConjunctionOfIndependentDimensions(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a product is in the result iff it passes every active dimension on its own", prop.ForAll(
		func(catalogSeed int64, criteriaSeed int64, size int) bool {
			catalog := randomCatalog(catalogSeed, size)
			criteria := randomCriteria(criteriaSeed)

			result := FilterSort(catalog, criteria, SortByName)

			inResult := make(map[uuid.UUID]bool, len(result))
			for _, p := range result {
				inResult[p.ID] = true
			}

			for _, p := range catalog {
				want := passesDimensionsIndependently(p, criteria)
				if inResult[p.ID] != want {
					t.Logf("FAIL: product %s (brand=%s price=%.2f) included=%v, oracle=%v, criteria=%+v",
						p.Name, p.Brand, p.Price, inResult[p.ID], want, criteria)
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FilterSortIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filtering the filtered result again changes nothing", prop.ForAll(
		func(catalogSeed int64, criteriaSeed int64, size int, keyIdx int) bool {
			keys := []SortKey{SortByName, SortByPriceLow, SortByPriceHigh, SortByRating, SortByNewest}
			key := keys[keyIdx%len(keys)]

			catalog := randomCatalog(catalogSeed, size)
			criteria := randomCriteria(criteriaSeed)

			once := FilterSort(catalog, criteria, key)
			twice := FilterSort(once, criteria, key)

			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i].ID != twice[i].ID {
					t.Logf("FAIL: position %d changed between runs", i)
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.Int64(),
		gen.IntRange(0, 40),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DiscountDerivation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("discount is round((1-price/original)*100) clamped at 0", prop.ForAll(
		func(price float64, original float64) bool {
			p := domain.Product{Price: price, OriginalPrice: original}

			want := 0
			if original > price && original > 0 {
				want = int(math.Round((1 - price/original) * 100))
			}
			return p.DiscountPercent() == want
		},
		gen.Float64Range(0.01, 9999.99),
		gen.Float64Range(0.01, 9999.99),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
