package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bikeparts/internal/domain"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("catalog cache miss")
)

const catalogKey = "catalog:products"

// CatalogCache mirrors the product catalog into Redis so the store can serve
// a stale snapshot when the database is unreachable. Best-effort only: entries
// are overwritten on every successful fetch and carry a TTL as a safety net.
type CatalogCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache
func NewCatalogCache(redisClient *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CatalogCache{redis: redisClient, ttl: ttl}
}

// SetAll replaces the mirrored catalog
func (c *CatalogCache) SetAll(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := c.redis.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache catalog: %w", err)
	}

	return nil
}

// GetAll returns the mirrored catalog, or ErrCacheMiss when absent
func (c *CatalogCache) GetAll(ctx context.Context) ([]domain.Product, error) {
	data, err := c.redis.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}

	return products, nil
}
