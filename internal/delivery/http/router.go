package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp creates the Fiber app with middleware and every route registered
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "RailTracker API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware; the logger wraps recover so panics are logged as 500s
	app.Use(NewLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	SetupRoutes(app, NewHandler(deps))

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	return app
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/stations", handler.GetStations)
		api.Get("/search", handler.Search)
		api.Get("/weather/alerts", handler.GetWeatherAlerts)
		api.Get("/routes/map", handler.GetRouteMap)
		api.Get("/dashboard", handler.GetDashboard)

		// Live-progress sessions
		live := api.Group("/live/sessions")
		live.Post("/", handler.StartLiveSession)
		live.Get("/:id", handler.GetLiveSession)
		live.Put("/:id", handler.ChangeLiveRoute)
		live.Delete("/:id", handler.StopLiveSession)
		live.Get("/:id/gtfs-rt", handler.GetLiveSessionFeed)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
