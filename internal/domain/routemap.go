package domain

// RouteMarker places one listed train on the route line
type RouteMarker struct {
	Label             string      `json:"label"`
	TrainNumber       string      `json:"trainNumber"`
	TrainName         string      `json:"trainName"`
	Status            TrainStatus `json:"status"`
	StatusLabel       string      `json:"statusLabel"`
	PositionPercent   float64     `json:"positionPercent"`
	GapFromPreviousKm *int        `json:"gapFromPreviousKm,omitempty"`
}

// RouteMap is the layout of a route visualization
type RouteMap struct {
	Route   Route         `json:"route"`
	Markers []RouteMarker `json:"markers"`
}
