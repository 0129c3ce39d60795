package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"

	"github.com/assist-by/signalhub/internal/domain"
)

// Cache stores recently fetched bars.
type Cache interface {
	Get(ctx context.Context, key string) (domain.CandleList, bool, error)
	Set(ctx context.Context, key string, candles domain.CandleList, ttl time.Duration) error
}

// CacheKey identifies one fetch.
func CacheKey(symbol string, interval domain.TimeInterval, limit int) string {
	return fmt.Sprintf("signalhub:klines:%s:%s:%d", strings.ToUpper(symbol), interval, limit)
}

// MemoryCache is an in-process TTL cache. Expired entries are never returned.
type MemoryCache struct {
	items *ttlcache.Cache[string, domain.CandleList]
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: ttlcache.New[string, domain.CandleList](
			ttlcache.WithDisableTouchOnHit[string, domain.CandleList](),
		),
	}
}

// Get returns a copy of the cached bars for key.
func (m *MemoryCache) Get(_ context.Context, key string) (domain.CandleList, bool, error) {
	item := m.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	stored := item.Value()
	out := make(domain.CandleList, len(stored))
	copy(out, stored)
	return out, true, nil
}

// Set stores a copy of candles for ttl. A non-positive ttl stores nothing.
func (m *MemoryCache) Set(_ context.Context, key string, candles domain.CandleList, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	stored := make(domain.CandleList, len(candles))
	copy(stored, candles)
	m.items.Set(key, stored, ttl)
	return nil
}

// RedisCache keeps bars as JSON in Redis so several instances share them.
type RedisCache struct {
	cli *redis.Client
}

// NewRedisCache connects using a redis:// URL.
func NewRedisCache(rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{cli: redis.NewClient(opts)}, nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.cli.Close()
}

// Get decodes the bars stored under key. A missing key is a miss, not an error.
func (r *RedisCache) Get(ctx context.Context, key string) (domain.CandleList, bool, error) {
	b, err := r.cli.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var candles domain.CandleList
	if err := json.Unmarshal(b, &candles); err != nil {
		return nil, false, fmt.Errorf("decode cached klines: %w", err)
	}
	return candles, true, nil
}

// Set stores candles as JSON with ttl. A non-positive ttl stores nothing.
func (r *RedisCache) Set(ctx context.Context, key string, candles domain.CandleList, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("encode klines: %w", err)
	}
	return r.cli.Set(ctx, key, b, ttl).Err()
}
