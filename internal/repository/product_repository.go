package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bikeparts/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// compatibility is stored as a JSONB array of bike model strings.
func marshalCompatibility(compat []string) ([]byte, error) {
	if compat == nil {
		compat = []string{}
	}
	return json.Marshal(compat)
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	compat, err := marshalCompatibility(product.Compatibility)
	if err != nil {
		return fmt.Errorf("failed to encode compatibility: %w", err)
	}

	query := `
		INSERT INTO products (id, name, brand, category, description, price, original_price,
		                      stock, rating, review_count, image_url, compatibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Category,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.Stock,
		product.Rating,
		product.ReviewCount,
		product.ImageURL,
		compat,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	compat, err := marshalCompatibility(product.Compatibility)
	if err != nil {
		return fmt.Errorf("failed to encode compatibility: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, brand = $3, category = $4, description = $5, price = $6,
		    original_price = $7, stock = $8, rating = $9, review_count = $10,
		    image_url = $11, compatibility = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Category,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.Stock,
		product.Rating,
		product.ReviewCount,
		product.ImageURL,
		compat,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, brand, category, description, price, original_price,
		       stock, rating, review_count, image_url, compatibility, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListAll retrieves the full catalog ordered by creation time, newest first.
// Filtering and sorting happen in memory against this snapshot.
func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, brand, category, description, price, original_price,
		       stock, rating, review_count, image_url, compatibility, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var compat []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.Category,
		&product.Description,
		&product.Price,
		&product.OriginalPrice,
		&product.Stock,
		&product.Rating,
		&product.ReviewCount,
		&product.ImageURL,
		&compat,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(compat) > 0 {
		if err := json.Unmarshal(compat, &product.Compatibility); err != nil {
			return nil, fmt.Errorf("failed to decode compatibility: %w", err)
		}
	}

	return product, nil
}
