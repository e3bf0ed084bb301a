package domain

import "time"

// DashboardData aggregates every panel shown for a searched route
type DashboardData struct {
	Search    SearchResult  `json:"search"`
	Weather   WeatherAlerts `json:"weather"`
	RouteMap  RouteMap      `json:"routeMap"`
	Timestamp time.Time     `json:"timestamp"`
}
