package synth

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/railtracker/backend/internal/domain"
)

// TrainRow is one listed train flattened for CSV export
type TrainRow struct {
	From                string `csv:"from"`
	To                  string `csv:"to"`
	Number              string `csv:"number"`
	Name                string `csv:"name"`
	Class               string `csv:"class"`
	Price               string `csv:"price"`
	Amenities           string `csv:"amenities"`
	Departure           string `csv:"departure"`
	Arrival             string `csv:"arrival"`
	Duration            string `csv:"duration"`
	Distance            string `csv:"distance"`
	Status              string `csv:"status"`
	Delay               string `csv:"delay"`
	WeatherImpact       string `csv:"weather_impact"`
	NextStation         string `csv:"next_station"`
	NextStationDistance string `csv:"next_station_distance"`
	NextStationETA      string `csv:"next_station_eta"`
}

// Rows flattens a search result, one row per train
func Rows(result domain.SearchResult) []*TrainRow {
	rows := make([]*TrainRow, 0, len(result.Trains))
	for _, train := range result.Trains {
		rows = append(rows, &TrainRow{
			From:                result.Route.From,
			To:                  result.Route.To,
			Number:              train.Number,
			Name:                train.Name,
			Class:               train.Class,
			Price:               train.Price,
			Amenities:           strings.Join(train.Amenities, ";"),
			Departure:           train.Departure,
			Arrival:             train.Arrival,
			Duration:            train.Duration,
			Distance:            train.Distance,
			Status:              string(train.Status),
			Delay:               deref(train.Delay),
			WeatherImpact:       deref(train.WeatherImpact),
			NextStation:         train.NextStation,
			NextStationDistance: train.NextStationDistance,
			NextStationETA:      train.NextStationETA,
		})
	}
	return rows
}

// WriteCSV writes a search result as CSV with a header row
func WriteCSV(w io.Writer, result domain.SearchResult) error {
	if err := gocsv.Marshal(Rows(result), w); err != nil {
		return fmt.Errorf("synth: failed to write csv: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
