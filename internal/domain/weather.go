package domain

// WeatherCondition is the kind of weather reported at a station
type WeatherCondition string

const (
	ConditionSunny  WeatherCondition = "sunny"
	ConditionRainy  WeatherCondition = "rainy"
	ConditionCloudy WeatherCondition = "cloudy"
	ConditionStormy WeatherCondition = "stormy"
)

// AlertSeverity grades the operational impact of a weather alert
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// WeatherAlert represents weather conditions at a station along a route
type WeatherAlert struct {
	ID            string           `json:"id" yaml:"id"`
	Station       string           `json:"station" yaml:"station"`
	Condition     WeatherCondition `json:"condition" yaml:"condition"`
	Severity      AlertSeverity    `json:"severity" yaml:"severity"`
	Impact        string           `json:"impact" yaml:"impact"`
	DelayEstimate *string          `json:"delayEstimate,omitempty" yaml:"delay_estimate"`
}

// WeatherAlerts is the weather panel for a route
type WeatherAlerts struct {
	Route  Route          `json:"route"`
	Alerts []WeatherAlert `json:"alerts"`
	IsMock bool           `json:"is_mock"`
}

// WeatherAlertsResponse wraps weather alerts with metadata
type WeatherAlertsResponse struct {
	Data    WeatherAlerts `json:"data"`
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
}
