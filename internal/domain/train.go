package domain

// TrainStatus is the synthetic operational state assigned to a listed train
type TrainStatus string

const (
	StatusOnTime    TrainStatus = "ontime"
	StatusDelayed   TrainStatus = "delayed"
	StatusCancelled TrainStatus = "cancelled"
)

// TrainCatalogEntry is a static reference record for a known train
type TrainCatalogEntry struct {
	Number    string   `json:"number" yaml:"number"`
	Name      string   `json:"name" yaml:"name"`
	Class     string   `json:"class" yaml:"class"`
	Price     string   `json:"price" yaml:"price"`
	Amenities []string `json:"amenities" yaml:"amenities"`
}

// SelectedTrain is a catalog entry enriched with fields synthesized for one route.
// The "basic" group is what a listing card needs; "detailed" adds the en-route data
// shown on the route map.
type SelectedTrain struct {
	Number    string   `json:"number" groups:"basic,detailed"`
	Name      string   `json:"name" groups:"basic,detailed"`
	Class     string   `json:"class" groups:"basic,detailed"`
	Price     string   `json:"price" groups:"basic,detailed"`
	Amenities []string `json:"amenities" groups:"basic,detailed"`

	Departure string      `json:"departure" groups:"basic,detailed"`
	Arrival   string      `json:"arrival" groups:"basic,detailed"`
	Duration  string      `json:"duration" groups:"basic,detailed"`
	Distance  string      `json:"distance" groups:"basic,detailed"`
	Status    TrainStatus `json:"status" groups:"basic,detailed"`
	Delay     *string     `json:"delay,omitempty" groups:"basic,detailed"`

	WeatherImpact       *string `json:"weatherImpact,omitempty" groups:"detailed"`
	NextStation         string  `json:"nextStation" groups:"detailed"`
	NextStationDistance string  `json:"nextStationDistance" groups:"detailed"`
	NextStationETA      string  `json:"nextStationETA" groups:"detailed"`
}
