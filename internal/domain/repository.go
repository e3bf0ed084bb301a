package domain

import (
	"context"
	"errors"
	"fmt"
)

// StatusCycle maps a status index to the synthetic status it stands for
var StatusCycle = [5]TrainStatus{
	StatusOnTime, StatusOnTime, StatusOnTime, StatusDelayed, StatusCancelled,
}

// WeatherNoteSlots is the fixed size of the per-train weather note table
const WeatherNoteSlots = 5

// MinCatalogSize keeps catalogSize - count above zero for the largest count (6)
const MinCatalogSize = 7

var (
	ErrCatalogTooSmall     = errors.New("reference: train catalog too small")
	ErrNoEnRouteStations   = errors.New("reference: en-route station table is empty")
	ErrWeatherNotesInvalid = errors.New("reference: weather note table must have 5 slots")
)

// ReferenceTables is the read-only data every synthesized answer is drawn from.
// An empty string in WeatherNotes is the "no weather impact" slot.
type ReferenceTables struct {
	Catalog         []TrainCatalogEntry
	RouteMetrics    map[string]RouteMetrics
	EnRouteStations []string
	WeatherNotes    []string
	PopularStations []string
	WeatherAlerts   []WeatherAlert
	LiveSeed        []LiveTrain
}

// Validate checks the tables can drive train selection without out-of-range access
func (t *ReferenceTables) Validate() error {
	if len(t.Catalog) < MinCatalogSize {
		return fmt.Errorf("%w: %d entries, need at least %d", ErrCatalogTooSmall, len(t.Catalog), MinCatalogSize)
	}
	if len(t.EnRouteStations) == 0 {
		return ErrNoEnRouteStations
	}
	if len(t.WeatherNotes) != WeatherNoteSlots {
		return fmt.Errorf("%w: got %d", ErrWeatherNotesInvalid, len(t.WeatherNotes))
	}
	return nil
}

// ReferenceRepository defines where reference tables are loaded from.
// The domain defines the interface; storage packages implement it.
type ReferenceRepository interface {
	// LoadTables returns a validated set of reference tables
	LoadTables(ctx context.Context) (*ReferenceTables, error)

	// Health checks connectivity of the backing store
	Health(ctx context.Context) error
}
