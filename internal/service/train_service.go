package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"

	"github.com/railtracker/backend/internal/cache"
	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/synth"
	"github.com/railtracker/backend/internal/telemetry"
)

// View selects how much of each listed train a response carries
type View string

const (
	ViewBasic    View = "basic"
	ViewDetailed View = "detailed"
)

// ParseView maps a query value onto a view; empty means detailed
func ParseView(value string) (View, error) {
	switch View(value) {
	case "", ViewDetailed:
		return ViewDetailed, nil
	case ViewBasic:
		return ViewBasic, nil
	default:
		return "", fmt.Errorf("service: unknown view %q", value)
	}
}

func (v View) groups() []string {
	if v == ViewBasic {
		return []string{"basic"}
	}
	return []string{"basic", "detailed"}
}

// TrainService answers route searches
type TrainService struct {
	tables  *domain.ReferenceTables
	cache   cache.SearchCache
	metrics *telemetry.Metrics
}

// NewTrainService creates a new train service over loaded reference tables
func NewTrainService(tables *domain.ReferenceTables, searchCache cache.SearchCache, metrics *telemetry.Metrics) *TrainService {
	if searchCache == nil {
		searchCache = cache.NoopSearchCache{}
	}

	return &TrainService{
		tables:  tables,
		cache:   searchCache,
		metrics: metrics,
	}
}

// Search returns the listing for a route. Results are a pure function of the route and
// the reference tables, so a cached copy is always equivalent to a fresh one.
func (s *TrainService) Search(ctx context.Context, route domain.Route) (domain.SearchResult, error) {
	if !route.IsComplete() {
		return domain.SearchResult{}, ErrIncompleteRoute
	}

	cached, ok, err := s.cache.Get(ctx, route)
	if err != nil {
		log.Warn().Err(err).Str("from", route.From).Str("to", route.To).Msg("Search cache unavailable")
	}
	if ok {
		s.observe("cache", *cached)
		return *cached, nil
	}

	result := synth.Generate(s.tables, route)

	if err := s.cache.Set(ctx, result); err != nil {
		log.Warn().Err(err).Str("from", route.From).Str("to", route.To).Msg("Failed to cache search result")
	}

	s.observe("generated", result)
	return result, nil
}

func (s *TrainService) observe(source string, result domain.SearchResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchesTotal.WithLabelValues(source).Inc()
	s.metrics.SearchTrainsListed.Observe(float64(len(result.Trains)))
}

// PopularStations returns the station labels offered for selection
func (s *TrainService) PopularStations() []string {
	return slices.Clone(s.tables.PopularStations)
}

// Present reduces a search result to the fields of the requested view
func Present(result domain.SearchResult, view View) (interface{}, error) {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: view.groups(),
	}, result)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reduce search result: %w", err)
	}
	return reduced, nil
}
