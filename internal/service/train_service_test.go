package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository/static"
	"github.com/railtracker/backend/internal/telemetry"
)

var delhiToMumbai = domain.Route{From: "New Delhi (NDLS)", To: "Mumbai Central (BCT)"}

type memoryCache struct {
	entries map[domain.Route]domain.SearchResult
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[domain.Route]domain.SearchResult)}
}

func (c *memoryCache) Get(ctx context.Context, route domain.Route) (*domain.SearchResult, bool, error) {
	c.gets++
	result, ok := c.entries[route]
	if !ok {
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *memoryCache) Set(ctx context.Context, result domain.SearchResult) error {
	c.sets++
	c.entries[result.Route] = result
	return nil
}

func TestSearchKnownRoute(t *testing.T) {
	svc := NewTrainService(static.MustLoad(), nil, telemetry.NewMetrics())

	result, err := svc.Search(context.Background(), delhiToMumbai)
	require.NoError(t, err)

	assert.Equal(t, domain.RouteMetrics{Distance: "1384 km", Duration: "15h 50m"}, result.Metrics)
	require.Len(t, result.Trains, 6)
	assert.Equal(t, "12002", result.Trains[0].Number)
	assert.Equal(t, "21:65", result.Trains[5].Departure)
}

func TestSearchRejectsIncompleteRoute(t *testing.T) {
	svc := NewTrainService(static.MustLoad(), nil, nil)

	_, err := svc.Search(context.Background(), domain.Route{From: "New Delhi (NDLS)"})
	assert.ErrorIs(t, err, ErrIncompleteRoute)

	_, err = svc.Search(context.Background(), domain.Route{To: "Mumbai Central (BCT)"})
	assert.ErrorIs(t, err, ErrIncompleteRoute)
}

func TestSearchUsesCache(t *testing.T) {
	searchCache := newMemoryCache()
	svc := NewTrainService(static.MustLoad(), searchCache, telemetry.NewMetrics())

	first, err := svc.Search(context.Background(), delhiToMumbai)
	require.NoError(t, err)
	assert.Equal(t, 1, searchCache.sets)

	second, err := svc.Search(context.Background(), delhiToMumbai)
	require.NoError(t, err)
	assert.Equal(t, 1, searchCache.sets)
	assert.Equal(t, 2, searchCache.gets)
	assert.Equal(t, first, second)
}

func TestPopularStations(t *testing.T) {
	svc := NewTrainService(static.MustLoad(), nil, nil)

	stations := svc.PopularStations()
	assert.Len(t, stations, 18)
	assert.Contains(t, stations, "New Delhi (NDLS)")

	stations[0] = "changed"
	assert.NotEqual(t, "changed", svc.PopularStations()[0])
}

func TestParseView(t *testing.T) {
	view, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewDetailed, view)

	view, err = ParseView("basic")
	require.NoError(t, err)
	assert.Equal(t, ViewBasic, view)

	_, err = ParseView("everything")
	assert.Error(t, err)
}

func TestPresentViews(t *testing.T) {
	svc := NewTrainService(static.MustLoad(), nil, nil)
	result, err := svc.Search(context.Background(), delhiToMumbai)
	require.NoError(t, err)

	basic, err := Present(result, ViewBasic)
	require.NoError(t, err)
	basicTrain := firstTrain(t, basic)
	assert.Equal(t, "12002", basicTrain["number"])
	assert.NotContains(t, basicTrain, "nextStation")
	assert.NotContains(t, basicTrain, "weatherImpact")

	detailed, err := Present(result, ViewDetailed)
	require.NoError(t, err)
	detailedTrain := firstTrain(t, detailed)
	assert.Equal(t, "Lucknow Junction (LJN)", detailedTrain["nextStation"])
	assert.Equal(t, "08:30", detailedTrain["nextStationETA"])
}

func firstTrain(t *testing.T, reduced interface{}) map[string]interface{} {
	t.Helper()

	body, ok := reduced.(map[string]interface{})
	require.True(t, ok)
	trains, ok := body["trains"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, trains)
	train, ok := trains[0].(map[string]interface{})
	require.True(t, ok)
	return train
}
