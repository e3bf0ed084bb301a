// Package repository holds the record shapes shared by every reference store.
package repository

import (
	"fmt"

	iso8601 "github.com/senseyeio/duration"

	"github.com/railtracker/backend/internal/domain"
)

// RouteRecord is a stored route metrics row. Duration is an ISO-8601 period such as "PT15H50M".
type RouteRecord struct {
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	DistanceKm    int    `yaml:"distance_km"`
	Duration      string `yaml:"duration"`
	Bidirectional bool   `yaml:"bidirectional"`
}

// BuildRouteMetrics turns stored rows into the "<from> → <to>" keyed metrics table
func BuildRouteMetrics(records []RouteRecord) (map[string]domain.RouteMetrics, error) {
	table := make(map[string]domain.RouteMetrics, len(records)*2)

	for _, record := range records {
		period, err := iso8601.ParseISO8601(record.Duration)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to parse duration %q for %s → %s: %w",
				record.Duration, record.From, record.To, err)
		}

		metrics := domain.RouteMetrics{
			Distance: FormatDistance(record.DistanceKm),
			Duration: FormatDuration(period),
		}

		table[domain.Route{From: record.From, To: record.To}.MetricsKey()] = metrics
		if record.Bidirectional {
			table[domain.Route{From: record.To, To: record.From}.MetricsKey()] = metrics
		}
	}

	return table, nil
}

// FormatDistance renders a distance the way listings show it
func FormatDistance(km int) string {
	return fmt.Sprintf("%d km", km)
}

// FormatDuration renders a period as "<hours>h <minutes>m", folding days into hours
func FormatDuration(period iso8601.Duration) string {
	hours := period.D*24 + period.TH
	return fmt.Sprintf("%dh %dm", hours, period.TM)
}
