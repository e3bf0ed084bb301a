// Package synth derives deterministic, plausible train listings for a station pair.
//
// Nothing here consults a clock or a random source: the same route over the same
// reference tables always yields the same answer.
package synth

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/railtracker/backend/internal/domain"
)

const (
	minTrains    = 4
	trainsSpread = 3
)

// RouteHash is the additive checksum of the UTF-16 code units of key.
// It is not a real hash; the exact arithmetic is what keeps listings stable.
func RouteHash(key string) int {
	hash := 0
	for _, unit := range utf16.Encode([]rune(key)) {
		hash += int(unit)
	}
	return hash
}

// LookupMetrics returns the table entry for the route, or the default metrics
func LookupMetrics(tables *domain.ReferenceTables, route domain.Route) domain.RouteMetrics {
	if metrics, ok := tables.RouteMetrics[route.MetricsKey()]; ok {
		return metrics
	}
	return domain.DefaultRouteMetrics
}

// Generate builds the search result for a route. It never fails: unknown stations get
// default metrics and still receive between 4 and 6 trains.
func Generate(tables *domain.ReferenceTables, route domain.Route) domain.SearchResult {
	metrics := LookupMetrics(tables, route)
	hash := RouteHash(route.HashKey())
	start, count := selectWindow(hash, len(tables.Catalog))
	hours := wholeHours(metrics.Duration)

	trains := make([]domain.SelectedTrain, 0, count)
	for i, entry := range tables.Catalog[start : start+count] {
		trains = append(trains, enrich(tables, entry, metrics, hash, i, hours))
	}

	return domain.SearchResult{
		Route:   route,
		Metrics: metrics,
		Trains:  trains,
	}
}

// selectWindow picks how many trains to list and where the window starts in the catalog
func selectWindow(hash, catalogSize int) (start, count int) {
	count = minTrains + hash%trainsSpread
	start = hash % (catalogSize - count)
	return start, count
}

func enrich(
	tables *domain.ReferenceTables,
	entry domain.TrainCatalogEntry,
	metrics domain.RouteMetrics,
	hash, i, durationHours int,
) domain.SelectedTrain {
	var train domain.SelectedTrain
	if err := copier.CopyWithOption(&train, &entry, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("train", entry.Number).Msg("Failed to copy catalog entry")
	}

	stationIndex := (hash + i*3) % len(tables.EnRouteStations)
	status := domain.StatusCycle[(hash+i)%len(domain.StatusCycle)]
	weatherNote := tables.WeatherNotes[(hash+i*2)%domain.WeatherNoteSlots]

	// Minutes are deliberately not wrapped at 60, so "21:65" is a possible departure.
	baseHour := 6 + i*3
	train.Departure = clock(baseHour, 15+i*10)
	train.Arrival = clock((baseHour+durationHours)%24, 25+i*5)
	train.Duration = metrics.Duration
	train.Distance = metrics.Distance
	train.Status = status

	if status == domain.StatusDelayed {
		delay := fmt.Sprintf("%d min", 15+i*5)
		train.Delay = &delay
	}
	if weatherNote != "" {
		train.WeatherImpact = &weatherNote
	}

	train.NextStation = tables.EnRouteStations[stationIndex]
	train.NextStationDistance = fmt.Sprintf("%d km", 45+i*20)
	train.NextStationETA = clock((baseHour+2)%24, 30+i*5)

	return train
}

// wholeHours reads the hour count in front of the "h" of a duration like "15h 50m"
func wholeHours(duration string) int {
	hours, _, _ := strings.Cut(duration, "h")
	n, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil {
		return 0
	}
	return n
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
