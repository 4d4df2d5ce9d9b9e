package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const orderCountKey = "orders:last_seen_count"

// OrderCountStore persists the last observed order count across restarts so
// the new-order notification can edge-trigger on count increases only.
type OrderCountStore struct {
	redis *redis.Client
}

// NewOrderCountStore creates a new OrderCountStore
func NewOrderCountStore(redisClient *redis.Client) *OrderCountStore {
	return &OrderCountStore{redis: redisClient}
}

// Get returns the last persisted count. A missing key means no baseline has
// been recorded yet; the second return value reports whether one exists.
func (s *OrderCountStore) Get(ctx context.Context) (int, bool, error) {
	count, err := s.redis.Get(ctx, orderCountKey).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read order count: %w", err)
	}
	return count, true, nil
}

// Set persists the current count. Called after every comparison regardless of
// outcome, so a grown-then-shrunk-then-regrown sequence can re-trigger.
func (s *OrderCountStore) Set(ctx context.Context, count int) error {
	if err := s.redis.Set(ctx, orderCountKey, count, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist order count: %w", err)
	}
	return nil
}
