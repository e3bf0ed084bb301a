package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository/static"
)

type failingSearcher struct{ err error }

func (f failingSearcher) Search(ctx context.Context, route domain.Route) (domain.SearchResult, error) {
	return domain.SearchResult{}, f.err
}

type failingAlerter struct{ err error }

func (f failingAlerter) AlertsForRoute(ctx context.Context, route domain.Route) (domain.WeatherAlerts, error) {
	return domain.WeatherAlerts{}, f.err
}

type countingSearcher struct {
	RouteSearcher
	calls int
}

func (c *countingSearcher) Search(ctx context.Context, route domain.Route) (domain.SearchResult, error) {
	c.calls++
	return c.RouteSearcher.Search(ctx, route)
}

func newDashboard() *DashboardService {
	tables := static.MustLoad()
	return NewDashboardService(NewTrainService(tables, nil, nil), NewWeatherService(tables))
}

func TestGetDashboard(t *testing.T) {
	data, err := newDashboard().GetDashboard(context.Background(), delhiToMumbai)
	require.NoError(t, err)

	assert.Len(t, data.Search.Trains, 6)
	assert.Len(t, data.RouteMap.Markers, 6)
	assert.Equal(t, BuildRouteMap(data.Search), data.RouteMap)
	assert.True(t, data.Weather.IsMock)
	assert.Len(t, data.Weather.Alerts, 4)
	assert.Equal(t, delhiToMumbai, data.Weather.Route)
	assert.False(t, data.Timestamp.IsZero())
}

func TestGetDashboardSearchesOnce(t *testing.T) {
	tables := static.MustLoad()
	searcher := &countingSearcher{RouteSearcher: NewTrainService(tables, nil, nil)}

	_, err := NewDashboardService(searcher, NewWeatherService(tables)).GetDashboard(context.Background(), delhiToMumbai)
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.calls)
}

func TestGetDashboardSearchPanelFails(t *testing.T) {
	tables := static.MustLoad()
	svc := NewDashboardService(failingSearcher{err: errors.New("generator down")}, NewWeatherService(tables))

	data, err := svc.GetDashboard(context.Background(), delhiToMumbai)
	require.NoError(t, err)

	assert.Empty(t, data.Search.Trains)
	assert.Empty(t, data.RouteMap.Markers)
	assert.Len(t, data.Weather.Alerts, 4)
}

func TestGetDashboardWeatherPanelFails(t *testing.T) {
	tables := static.MustLoad()
	svc := NewDashboardService(NewTrainService(tables, nil, nil), failingAlerter{err: errors.New("weather down")})

	data, err := svc.GetDashboard(context.Background(), delhiToMumbai)
	require.NoError(t, err)

	assert.Empty(t, data.Weather.Alerts)
	assert.Len(t, data.Search.Trains, 6)
	assert.Len(t, data.RouteMap.Markers, 6)
}

func TestGetDashboardRejectsIncompleteRoute(t *testing.T) {
	_, err := newDashboard().GetDashboard(context.Background(), domain.Route{})
	assert.ErrorIs(t, err, ErrIncompleteRoute)
}
