package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtracker/backend/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisSearchCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSearchCache(client, ttl), server
}

func sampleResult() domain.SearchResult {
	delay := "20 min"
	return domain.SearchResult{
		Route:   domain.Route{From: "New Delhi (NDLS)", To: "Mumbai Central (BCT)"},
		Metrics: domain.RouteMetrics{Distance: "1384 km", Duration: "15h 50m"},
		Trains: []domain.SelectedTrain{
			{Number: "12028", Name: "Ahmedabad Shatabdi", Amenities: []string{"WiFi", "Food"}, Status: domain.StatusDelayed, Delay: &delay, Departure: "09:25"},
		},
	}
}

func TestRedisSearchCacheRoundTrip(t *testing.T) {
	searchCache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	result := sampleResult()

	_, ok, err := searchCache.Get(ctx, result.Route)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, searchCache.Set(ctx, result))

	cached, ok, err := searchCache.Get(ctx, result.Route)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result, *cached)
}

func TestRedisSearchCacheExpires(t *testing.T) {
	searchCache, server := newTestCache(t, time.Minute)
	ctx := context.Background()
	result := sampleResult()

	require.NoError(t, searchCache.Set(ctx, result))
	assert.True(t, server.Exists(Key(result.Route)))

	server.FastForward(2 * time.Minute)

	_, ok, err := searchCache.Get(ctx, result.Route)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSearchCacheReportsOutage(t *testing.T) {
	searchCache, server := newTestCache(t, time.Hour)
	server.Close()

	_, ok, err := searchCache.Get(context.Background(), sampleResult().Route)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestKeyDistinguishesSeparators(t *testing.T) {
	a := Key(domain.Route{From: "A-B", To: "C"})
	b := Key(domain.Route{From: "A", To: "B-C"})
	assert.NotEqual(t, a, b)
}

func TestNoopSearchCache(t *testing.T) {
	var searchCache SearchCache = NoopSearchCache{}
	require.NoError(t, searchCache.Set(context.Background(), sampleResult()))

	_, ok, err := searchCache.Get(context.Background(), sampleResult().Route)
	require.NoError(t, err)
	assert.False(t, ok)
}
