package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"market-lens/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultQuoteTTL = 90 * time.Second
	quoteKeyPrefix  = "quote:"
)

// Store is the subset of the Redis client the caches use.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// QuoteCache is a read-through cache for latest quotes. A nil *QuoteCache
// misses every read and drops every write.
type QuoteCache struct {
	store Store
	ttl   time.Duration
}

func NewQuoteCache(store Store, ttl time.Duration) *QuoteCache {
	if store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &QuoteCache{store: store, ttl: ttl}
}

// Get returns the cached quote, or nil without error on a miss.
func (c *QuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.store.Get(ctx, quoteKeyPrefix+symbol).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q domain.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *QuoteCache) Set(ctx context.Context, q *domain.Quote) error {
	if c == nil || q == nil {
		return nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, quoteKeyPrefix+q.Symbol, data, c.ttl).Err()
}
