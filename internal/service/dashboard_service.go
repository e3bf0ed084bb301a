package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/railtracker/backend/internal/domain"
)

// RouteSearcher lists the trains for a route
type RouteSearcher interface {
	Search(ctx context.Context, route domain.Route) (domain.SearchResult, error)
}

// WeatherAlerter returns the weather alerts along a route
type WeatherAlerter interface {
	AlertsForRoute(ctx context.Context, route domain.Route) (domain.WeatherAlerts, error)
}

// DashboardService aggregates every panel shown for a route
type DashboardService struct {
	trains  RouteSearcher
	weather WeatherAlerter
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(trains RouteSearcher, weather WeatherAlerter) *DashboardService {
	return &DashboardService{
		trains:  trains,
		weather: weather,
	}
}

// GetDashboard fetches the search and weather panels concurrently and lays the route
// map out from the search panel. A failing panel is logged and left empty; the
// dashboard is still returned.
func (s *DashboardService) GetDashboard(ctx context.Context, route domain.Route) (domain.DashboardData, error) {
	if !route.IsComplete() {
		return domain.DashboardData{}, ErrIncompleteRoute
	}

	var (
		search   domain.SearchResult
		searchOK bool
		weather  domain.WeatherAlerts
		routeMap domain.RouteMap
	)

	p := pool.New().WithErrors()

	p.Go(func() error {
		result, err := s.trains.Search(ctx, route)
		if err != nil {
			log.Error().Err(err).Str("from", route.From).Str("to", route.To).Msg("Dashboard search panel failed")
			return err
		}
		search, searchOK = result, true
		return nil
	})

	p.Go(func() error {
		alerts, err := s.weather.AlertsForRoute(ctx, route)
		if err != nil {
			log.Error().Err(err).Str("from", route.From).Str("to", route.To).Msg("Dashboard weather panel failed")
			return err
		}
		weather = alerts
		return nil
	})

	if err := p.Wait(); err != nil {
		log.Warn().Err(err).Str("from", route.From).Str("to", route.To).Msg("Dashboard returned with empty panels")
	}

	if searchOK {
		routeMap = BuildRouteMap(search)
	}

	return domain.DashboardData{
		Search:    search,
		Weather:   weather,
		RouteMap:  routeMap,
		Timestamp: time.Now(),
	}, nil
}
