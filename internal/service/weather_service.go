package service

import (
	"context"
	"slices"

	"github.com/railtracker/backend/internal/domain"
)

// WeatherService serves weather alerts along a route
type WeatherService struct {
	tables *domain.ReferenceTables
}

// NewWeatherService creates a new weather service
func NewWeatherService(tables *domain.ReferenceTables) *WeatherService {
	return &WeatherService{tables: tables}
}

// AlertsForRoute returns the weather alerts for a route.
// No live weather source is wired, so the alerts come from reference data and do not
// depend on the route; the route is echoed back for display.
func (s *WeatherService) AlertsForRoute(ctx context.Context, route domain.Route) (domain.WeatherAlerts, error) {
	return domain.WeatherAlerts{
		Route:  route,
		Alerts: slices.Clone(s.tables.WeatherAlerts),
		IsMock: true,
	}, nil
}
