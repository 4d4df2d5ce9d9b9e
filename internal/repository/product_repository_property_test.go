package repository

import (
	"context"
	"testing"
	"time"

	"bikeparts/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func ensureProductsTable(t *testing.T) {
	t.Helper()

	_, err := testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			brand VARCHAR(100) NOT NULL,
			category VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			original_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			rating DECIMAL(2, 1) NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			image_url VARCHAR(500) NOT NULL DEFAULT '',
			compatibility JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create products table: %v", err)
	}
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	ensureProductsTable(t)

	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, brand string, category string, description string, price float64, stock int, rating float64, compat []string) bool {
			ctx := context.Background()

			product := &domain.Product{
				ID:            uuid.New(),
				Name:          name,
				Brand:         brand,
				Category:      category,
				Description:   description,
				Price:         price,
				OriginalPrice: price * 1.2,
				Stock:         stock,
				Rating:        rating,
				ReviewCount:   stock,
				ImageURL:      "http://example.com/image.jpg",
				Compatibility: compat,
				CreatedAt:     time.Now(),
				UpdatedAt:     time.Now(),
			}

			err := productRepo.Create(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.ID != product.ID {
				t.Logf("FAIL: ID mismatch. Expected %s, got %s", product.ID, retrieved.ID)
				return false
			}

			if retrieved.Name != product.Name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", product.Name, retrieved.Name)
				return false
			}

			if retrieved.Brand != product.Brand {
				t.Logf("FAIL: Brand mismatch. Expected %s, got %s", product.Brand, retrieved.Brand)
				return false
			}

			if retrieved.Category != product.Category {
				t.Logf("FAIL: Category mismatch. Expected %s, got %s", product.Category, retrieved.Category)
				return false
			}

			if retrieved.Description != product.Description {
				t.Logf("FAIL: Description mismatch. Expected %s, got %s", product.Description, retrieved.Description)
				return false
			}

			// Compare prices with small tolerance for floating point
			if retrieved.Price < product.Price-0.01 || retrieved.Price > product.Price+0.01 {
				t.Logf("FAIL: Price mismatch. Expected %f, got %f", product.Price, retrieved.Price)
				return false
			}

			if retrieved.Stock != product.Stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", product.Stock, retrieved.Stock)
				return false
			}

			// Rating column stores one decimal place
			if retrieved.Rating < rating-0.1 || retrieved.Rating > rating+0.1 {
				t.Logf("FAIL: Rating mismatch. Expected %f, got %f", rating, retrieved.Rating)
				return false
			}

			if len(retrieved.Compatibility) != len(compat) {
				t.Logf("FAIL: Compatibility length mismatch. Expected %d, got %d", len(compat), len(retrieved.Compatibility))
				return false
			}
			for i := range compat {
				if retrieved.Compatibility[i] != compat[i] {
					t.Logf("FAIL: Compatibility entry mismatch. Expected %s, got %s", compat[i], retrieved.Compatibility[i])
					return false
				}
			}

			if retrieved.CreatedAt.IsZero() {
				t.Logf("FAIL: CreatedAt is zero")
				return false
			}

			// Cleanup
			_ = productRepo.Delete(ctx, product.ID)

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),       // name
		gen.RegexMatch(`[A-Za-z]{3,20}`),           // brand
		gen.RegexMatch(`[A-Za-z]{3,20}`),           // category
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`), // description
		gen.Float64Range(0.01, 9999.99),            // price (positive values)
		gen.IntRange(0, 1000),                      // stock (non-negative)
		gen.Float64Range(0, 5),                     // rating
		gen.SliceOfN(3, gen.RegexMatch(`[A-Za-z0-9 ]{3,20}`)), // compatibility
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductUpdatesAreReflected(t *testing.T) {
	ensureProductsTable(t)

	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("updating a product and retrieving it shows the updated values", prop.ForAll(
		func(name1 string, name2 string, price1 float64, price2 float64, stock1 int, stock2 int) bool {
			ctx := context.Background()

			product := &domain.Product{
				ID:        uuid.New(),
				Name:      name1,
				Brand:     "Bosch",
				Category:  "Braking",
				Price:     price1,
				Stock:     stock1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			err := productRepo.Create(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			// Update the product with new values
			product.Name = name2
			product.Price = price2
			product.Stock = stock2
			product.UpdatedAt = time.Now()

			err = productRepo.Update(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name2 {
				t.Logf("FAIL: Name not updated. Expected %s, got %s", name2, retrieved.Name)
				return false
			}

			// Compare prices with small tolerance for floating point
			if retrieved.Price < price2-0.01 || retrieved.Price > price2+0.01 {
				t.Logf("FAIL: Price not updated. Expected %f, got %f", price2, retrieved.Price)
				return false
			}

			if retrieved.Stock != stock2 {
				t.Logf("FAIL: Stock not updated. Expected %d, got %d", stock2, retrieved.Stock)
				return false
			}

			// Cleanup
			_ = productRepo.Delete(ctx, product.ID)

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name1
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name2
		gen.Float64Range(0.01, 9999.99),      // price1
		gen.Float64Range(0.01, 9999.99),      // price2
		gen.IntRange(0, 1000),                // stock1
		gen.IntRange(0, 1000),                // stock2
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	ensureProductsTable(t)

	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable", prop.ForAll(
		func(name string, price float64, stock int) bool {
			ctx := context.Background()

			product := &domain.Product{
				ID:        uuid.New(),
				Name:      name,
				Brand:     "Bosch",
				Category:  "Braking",
				Price:     price,
				Stock:     stock,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			err := productRepo.Create(ctx, product)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			// Verify product exists
			_, err = productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Product should exist before deletion: %v", err)
				return false
			}

			// Delete the product
			err = productRepo.Delete(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			// Attempt to retrieve the deleted product
			_, err = productRepo.FindByID(ctx, product.ID)
			if err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name
		gen.Float64Range(0.01, 9999.99),      // price
		gen.IntRange(0, 1000),                // stock
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
