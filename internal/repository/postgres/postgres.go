package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository"
	"github.com/railtracker/backend/internal/repository/static"
)

var _ domain.ReferenceRepository = (*PostgresRepository)(nil)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository implements domain.ReferenceRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadTables reads every reference table from PostgreSQL
func (r *PostgresRepository) LoadTables(ctx context.Context) (*domain.ReferenceTables, error) {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := r.loadRoutes(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := repository.BuildRouteMetrics(routes)
	if err != nil {
		return nil, err
	}

	enRoute, err := r.loadStrings(ctx, "SELECT name FROM en_route_stations ORDER BY position")
	if err != nil {
		return nil, err
	}

	notes, err := r.loadWeatherNotes(ctx)
	if err != nil {
		return nil, err
	}

	popular, err := r.loadStrings(ctx, "SELECT name FROM popular_stations ORDER BY position")
	if err != nil {
		return nil, err
	}

	alerts, err := r.loadWeatherAlerts(ctx)
	if err != nil {
		return nil, err
	}

	seed, err := r.loadLiveSeed(ctx)
	if err != nil {
		return nil, err
	}

	tables := &domain.ReferenceTables{
		Catalog:         catalog,
		RouteMetrics:    metrics,
		EnRouteStations: enRoute,
		WeatherNotes:    notes,
		PopularStations: popular,
		WeatherAlerts:   alerts,
		LiveSeed:        seed,
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("postgres: invalid reference tables: %w", err)
	}

	return tables, nil
}

func (r *PostgresRepository) loadCatalog(ctx context.Context) ([]domain.TrainCatalogEntry, error) {
	query := `
		SELECT number, name, class, price, amenities
		FROM train_catalog
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query train catalog: %w", err)
	}
	defer rows.Close()

	var results []domain.TrainCatalogEntry
	for rows.Next() {
		var e domain.TrainCatalogEntry
		if err := rows.Scan(&e.Number, &e.Name, &e.Class, &e.Price, &e.Amenities); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan catalog row: %w", err)
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

func (r *PostgresRepository) loadRoutes(ctx context.Context) ([]repository.RouteRecord, error) {
	query := `
		SELECT from_station, to_station, distance_km, duration, bidirectional
		FROM route_metrics
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query route metrics: %w", err)
	}
	defer rows.Close()

	var results []repository.RouteRecord
	for rows.Next() {
		var rec repository.RouteRecord
		if err := rows.Scan(&rec.From, &rec.To, &rec.DistanceKm, &rec.Duration, &rec.Bidirectional); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan route row: %w", err)
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

func (r *PostgresRepository) loadWeatherNotes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT note FROM weather_notes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query weather notes: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var note *string
		if err := rows.Scan(&note); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan weather note: %w", err)
		}
		// NULL is the "no impact" slot
		if note == nil {
			results = append(results, "")
		} else {
			results = append(results, *note)
		}
	}

	return results, rows.Err()
}

func (r *PostgresRepository) loadWeatherAlerts(ctx context.Context) ([]domain.WeatherAlert, error) {
	query := `
		SELECT id, station, condition, severity, impact, delay_estimate
		FROM weather_alerts
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query weather alerts: %w", err)
	}
	defer rows.Close()

	var results []domain.WeatherAlert
	for rows.Next() {
		var a domain.WeatherAlert
		err := rows.Scan(&a.ID, &a.Station, &a.Condition, &a.Severity, &a.Impact, &a.DelayEstimate)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan weather alert: %w", err)
		}
		results = append(results, a)
	}

	return results, rows.Err()
}

func (r *PostgresRepository) loadLiveSeed(ctx context.Context) ([]domain.LiveTrain, error) {
	query := `
		SELECT id, number, name, current_station, next_station, status, progress, estimated_arrival
		FROM live_seed
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query live seed: %w", err)
	}
	defer rows.Close()

	var results []domain.LiveTrain
	for rows.Next() {
		var t domain.LiveTrain
		err := rows.Scan(
			&t.ID, &t.Number, &t.Name, &t.CurrentStation, &t.NextStation,
			&t.Status, &t.Progress, &t.EstimatedArrival,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan live seed row: %w", err)
		}
		results = append(results, t)
	}

	return results, rows.Err()
}

func (r *PostgresRepository) loadStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query %q: %w", query, err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan %q: %w", query, err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

// Seed creates the schema and replaces every reference table with the document's contents
func (r *PostgresRepository) Seed(ctx context.Context, doc *static.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}

	for _, table := range []string{
		"train_catalog", "route_metrics", "en_route_stations", "weather_notes",
		"popular_stations", "weather_alerts", "live_seed",
	} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("postgres: failed to clear %s: %w", table, err)
		}
	}

	batch := &pgx.Batch{}
	for i, e := range doc.Catalog {
		batch.Queue(
			"INSERT INTO train_catalog (position, number, name, class, price, amenities) VALUES ($1, $2, $3, $4, $5, $6)",
			i, e.Number, e.Name, e.Class, e.Price, e.Amenities,
		)
	}
	for _, rec := range doc.Routes {
		batch.Queue(
			"INSERT INTO route_metrics (from_station, to_station, distance_km, duration, bidirectional) VALUES ($1, $2, $3, $4, $5)",
			rec.From, rec.To, rec.DistanceKm, rec.Duration, rec.Bidirectional,
		)
	}
	for i, name := range doc.EnRouteStations {
		batch.Queue("INSERT INTO en_route_stations (position, name) VALUES ($1, $2)", i, name)
	}
	for i, note := range doc.WeatherNotes {
		var value *string
		if note != "" {
			value = &note
		}
		batch.Queue("INSERT INTO weather_notes (position, note) VALUES ($1, $2)", i, value)
	}
	for i, name := range doc.PopularStations {
		batch.Queue("INSERT INTO popular_stations (position, name) VALUES ($1, $2)", i, name)
	}
	for _, a := range doc.WeatherAlerts {
		batch.Queue(
			"INSERT INTO weather_alerts (id, station, condition, severity, impact, delay_estimate) VALUES ($1, $2, $3, $4, $5, $6)",
			a.ID, a.Station, string(a.Condition), string(a.Severity), a.Impact, a.DelayEstimate,
		)
	}
	for _, t := range doc.LiveSeed {
		batch.Queue(
			`INSERT INTO live_seed (id, number, name, current_station, next_station, status, progress, estimated_arrival)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, t.Number, t.Name, t.CurrentStation, t.NextStation, string(t.Status), t.Progress, t.EstimatedArrival,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to insert reference rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit seed: %w", err)
	}

	return nil
}
