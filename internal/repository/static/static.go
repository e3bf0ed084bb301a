// Package static serves the reference tables compiled into the binary.
package static

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository"
)

var _ domain.ReferenceRepository = (*Repository)(nil)

//go:embed data/reference.yaml
var referenceYAML []byte

// Document is the on-disk layout of a reference tables file
type Document struct {
	Catalog         []domain.TrainCatalogEntry `yaml:"catalog"`
	Routes          []repository.RouteRecord   `yaml:"routes"`
	EnRouteStations []string                   `yaml:"en_route_stations"`
	WeatherNotes    []string                   `yaml:"weather_notes"`
	PopularStations []string                   `yaml:"popular_stations"`
	WeatherAlerts   []domain.WeatherAlert      `yaml:"weather_alerts"`
	LiveSeed        []domain.LiveTrain         `yaml:"live_seed"`
}

// Repository implements domain.ReferenceRepository over an in-memory YAML document.
// It is the default store and the fallback when no database is reachable.
type Repository struct {
	source []byte
}

// NewRepository creates a repository over the embedded reference tables
func NewRepository() *Repository {
	return &Repository{source: referenceYAML}
}

// NewRepositoryFromYAML creates a repository over caller-supplied YAML
func NewRepositoryFromYAML(source []byte) *Repository {
	return &Repository{source: source}
}

// Document decodes the raw reference document. Unknown keys are rejected.
func (r *Repository) Document() (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(r.source))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("static: failed to decode reference tables: %w", err)
	}
	return &doc, nil
}

// LoadTables decodes and validates the reference tables
func (r *Repository) LoadTables(ctx context.Context) (*domain.ReferenceTables, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}

	return doc.Tables()
}

// Health always returns nil; the tables live in memory
func (r *Repository) Health(ctx context.Context) error {
	return nil
}

// Tables converts the document into validated domain tables
func (doc *Document) Tables() (*domain.ReferenceTables, error) {
	metrics, err := repository.BuildRouteMetrics(doc.Routes)
	if err != nil {
		return nil, err
	}

	tables := &domain.ReferenceTables{
		Catalog:         doc.Catalog,
		RouteMetrics:    metrics,
		EnRouteStations: doc.EnRouteStations,
		WeatherNotes:    doc.WeatherNotes,
		PopularStations: doc.PopularStations,
		WeatherAlerts:   doc.WeatherAlerts,
		LiveSeed:        doc.LiveSeed,
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("static: invalid reference tables: %w", err)
	}

	return tables, nil
}

// MustLoad returns the embedded tables and panics if they are broken.
// Intended for tests and CLI helpers that cannot proceed without them.
func MustLoad() *domain.ReferenceTables {
	tables, err := NewRepository().LoadTables(context.Background())
	if err != nil {
		panic(err)
	}
	return tables
}
