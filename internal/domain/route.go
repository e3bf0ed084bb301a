package domain

// Route identifies a station pair selected in a search
type Route struct {
	From string `json:"from" groups:"basic,detailed"`
	To   string `json:"to" groups:"basic,detailed"`
}

// MetricsKey is the lookup key into the route metrics table
func (r Route) MetricsKey() string {
	return r.From + " → " + r.To
}

// HashKey is the string whose character codes seed train selection
func (r Route) HashKey() string {
	return r.From + "-" + r.To
}

// IsComplete reports whether both ends of the route are filled in
func (r Route) IsComplete() bool {
	return r.From != "" && r.To != ""
}

// RouteMetrics holds the display distance and journey time of a route
type RouteMetrics struct {
	Distance string `json:"distance" groups:"basic,detailed"`
	Duration string `json:"duration" groups:"basic,detailed"`
}

// DefaultRouteMetrics is used for any pair missing from the metrics table
var DefaultRouteMetrics = RouteMetrics{
	Distance: "520 km",
	Duration: "8h 30m",
}

// SearchResult is the immutable outcome of one route search
type SearchResult struct {
	Route   Route           `json:"route" groups:"basic,detailed"`
	Metrics RouteMetrics    `json:"metrics" groups:"basic,detailed"`
	Trains  []SelectedTrain `json:"trains" groups:"basic,detailed"`
}
