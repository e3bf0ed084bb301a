package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"

	"github.com/railtracker/backend/internal/domain"
)

const keyPrefix = "railtracker:search:"

// SearchCache remembers generated search results per route.
// Results are a pure function of the route, so entries never go stale; the TTL only
// bounds memory.
type SearchCache interface {
	Get(ctx context.Context, route domain.Route) (*domain.SearchResult, bool, error)
	Set(ctx context.Context, result domain.SearchResult) error
}

// RedisSearchCache is a SearchCache over gocache's Redis store
type RedisSearchCache struct {
	Cache *cache.Cache[string]
}

// NewRedisSearchCache creates a cache whose entries expire after ttl
func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RedisSearchCache{
		Cache: cache.New[string](redisStore),
	}
}

// Get returns the cached result for a route. A miss is (nil, false, nil).
func (c *RedisSearchCache) Get(ctx context.Context, route domain.Route) (*domain.SearchResult, bool, error) {
	value, err := c.Cache.Get(ctx, Key(route))
	if err != nil {
		if isMiss(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: failed to get search result: %w", err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, false, fmt.Errorf("cache: failed to decode search result: %w", err)
	}

	return &result, true, nil
}

// Set stores a result under its route with the cache expiration
func (c *RedisSearchCache) Set(ctx context.Context, result domain.SearchResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: failed to encode search result: %w", err)
	}

	if err := c.Cache.Set(ctx, Key(result.Route), string(encoded)); err != nil {
		return fmt.Errorf("cache: failed to set search result: %w", err)
	}

	return nil
}

// Key is the cache key of a route. Both ends are escaped so "A-B"/"C" and "A"/"B-C" differ.
func Key(route domain.Route) string {
	return keyPrefix + url.QueryEscape(route.From) + ":" + url.QueryEscape(route.To)
}

func isMiss(err error) bool {
	if errors.Is(err, redis.Nil) || errors.Is(err, store.NotFound{}) {
		return true
	}
	var notFound *store.NotFound
	return errors.As(err, &notFound)
}

// NoopSearchCache never stores anything; used when Redis is not configured
type NoopSearchCache struct{}

func (NoopSearchCache) Get(ctx context.Context, route domain.Route) (*domain.SearchResult, bool, error) {
	return nil, false, nil
}

func (NoopSearchCache) Set(ctx context.Context, result domain.SearchResult) error {
	return nil
}
