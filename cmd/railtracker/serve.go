package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/railtracker/backend/internal/cache"
	"github.com/railtracker/backend/internal/config"
	"github.com/railtracker/backend/internal/delivery/http"
	"github.com/railtracker/backend/internal/events"
	"github.com/railtracker/backend/internal/livefeed"
	"github.com/railtracker/backend/internal/redisclient"
	"github.com/railtracker/backend/internal/repository/postgres"
	"github.com/railtracker/backend/internal/repository/static"
	"github.com/railtracker/backend/internal/service"
	"github.com/railtracker/backend/internal/telemetry"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, overrides PORT",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML file applied over the environment",
				EnvVars: []string{"RAILTRACKER_CONFIG"},
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, 15*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	var referenceRepo service.ReferenceRepository = static.NewRepository()
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, 10*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("Could not connect to database, using embedded reference tables")
		} else {
			defer pool.Close()
			log.Info().Msg("Connected to PostgreSQL")
			referenceRepo = postgres.NewPostgresRepository(pool)
		}
	}

	tables, err := referenceRepo.LoadTables(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load reference tables, using embedded reference tables")
		referenceRepo = static.NewRepository()
		if tables, err = referenceRepo.LoadTables(ctx); err != nil {
			return err
		}
	}

	// Optional Redis: search cache and live update events
	var (
		searchCache cache.SearchCache = cache.NoopSearchCache{}
		publisher   events.Publisher  = events.NoopPublisher{}
		cacheHealth http.HealthChecker
	)
	if cfg.RedisAddress != "" {
		conn, err := redisclient.Connect(ctx, redisclient.Options{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDatabase,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Could not connect to Redis, running without cache and live events")
		} else {
			defer conn.Close()
			searchCache = cache.NewRedisSearchCache(conn.Client, cfg.CacheTTL.Duration)
			cacheHealth = conn

			queuePublisher, err := events.NewQueuePublisher(conn.Queues, cfg.EventsQueue)
			if err != nil {
				log.Warn().Err(err).Msg("Could not open live events queue")
			} else {
				publisher = queuePublisher
			}
		}
	}

	// Dependency Injection: Services
	metrics := telemetry.NewMetrics()
	trainSvc := service.NewTrainService(tables, searchCache, metrics)
	weatherSvc := service.NewWeatherService(tables)
	routeMapSvc := service.NewRouteMapService(trainSvc)
	dashboardSvc := service.NewDashboardService(trainSvc, weatherSvc)
	liveSvc := service.NewLiveService(tables, publisher, metrics, livefeed.WithPeriod(cfg.LiveTickPeriod.Duration))

	app := http.NewApp(http.Dependencies{
		Trains:         trainSvc,
		Weather:        weatherSvc,
		RouteMap:       routeMapSvc,
		Dashboard:      dashboardSvc,
		Live:           liveSvc,
		Metrics:        metrics,
		ReferenceStore: referenceRepo,
		Cache:          cacheHealth,
	})

	listen := c.String("listen")
	if listen == "" {
		listen = ":" + cfg.Port
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("listen", listen).Str("env", cfg.Env).Int("catalog", len(tables.Catalog)).Msg("Server starting")
		if err := app.Listen(listen); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	liveSvc.Close()
	log.Info().Msg("Server exited gracefully")

	return nil
}
