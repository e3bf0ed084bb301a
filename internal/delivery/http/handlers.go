package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/livefeed"
	"github.com/railtracker/backend/internal/service"
	"github.com/railtracker/backend/internal/telemetry"
)

const healthTimeout = 2 * time.Second

// HealthChecker is anything /health can check
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the services the handlers call
type Dependencies struct {
	Trains    *service.TrainService
	Weather   *service.WeatherService
	RouteMap  *service.RouteMapService
	Dashboard *service.DashboardService
	Live      *service.LiveService
	Metrics   *telemetry.Metrics

	// ReferenceStore is always checked; Cache is checked when set
	ReferenceStore HealthChecker
	Cache          HealthChecker
}

// Handler contains all HTTP handlers
type Handler struct {
	deps Dependencies
}

// NewHandler creates a new handler
func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

type routeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r routeRequest) route() domain.Route {
	return domain.Route{From: r.From, To: r.To}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := "ok"
	components := fiber.Map{
		"reference_store": checkHealth(ctx, h.deps.ReferenceStore),
		"cache":           "disabled",
	}
	if components["reference_store"] != "ok" {
		status = "degraded"
	}
	if h.deps.Cache != nil {
		components["cache"] = checkHealth(ctx, h.deps.Cache)
		if components["cache"] != "ok" {
			status = "degraded"
		}
	}

	return c.JSON(fiber.Map{
		"status":     status,
		"service":    "railtracker-backend",
		"version":    telemetry.Version,
		"components": components,
	})
}

func checkHealth(ctx context.Context, checker HealthChecker) string {
	if checker == nil {
		return "disabled"
	}
	if err := checker.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		return "unavailable"
	}
	return "ok"
}

// GetStations returns the popular station labels
func (h *Handler) GetStations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.deps.Trains.PopularStations(),
	})
}

// Search returns the synthesized listing for a route
func (h *Handler) Search(c *fiber.Ctx) error {
	route, err := queryRoute(c)
	if err != nil {
		return err
	}

	view, err := service.ParseView(c.Query("view"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "view must be basic or detailed")
	}

	result, err := h.deps.Trains.Search(c.UserContext(), route)
	if err != nil {
		return toFiberError(err, "Failed to search trains")
	}

	reduced, err := service.Present(result, view)
	if err != nil {
		return toFiberError(err, "Failed to render search result")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reduced,
	})
}

// GetWeatherAlerts returns weather alerts along a route
func (h *Handler) GetWeatherAlerts(c *fiber.Ctx) error {
	route, err := queryRoute(c)
	if err != nil {
		return err
	}

	alerts, err := h.deps.Weather.AlertsForRoute(c.UserContext(), route)
	if err != nil {
		return toFiberError(err, "Failed to fetch weather alerts")
	}

	return c.JSON(domain.WeatherAlertsResponse{
		Data:    alerts,
		Success: true,
	})
}

// GetRouteMap returns the route visualization markers
func (h *Handler) GetRouteMap(c *fiber.Ctx) error {
	route, err := queryRoute(c)
	if err != nil {
		return err
	}

	routeMap, err := h.deps.RouteMap.GetRouteMap(c.UserContext(), route)
	if err != nil {
		return toFiberError(err, "Failed to build route map")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    routeMap,
	})
}

// GetDashboard returns every panel for a route
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	route, err := queryRoute(c)
	if err != nil {
		return err
	}

	data, err := h.deps.Dashboard.GetDashboard(c.UserContext(), route)
	if err != nil {
		return toFiberError(err, "Failed to fetch dashboard data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// StartLiveSession opens a live-progress session for a route
func (h *Handler) StartLiveSession(c *fiber.Ctx) error {
	route, err := bodyRoute(c)
	if err != nil {
		return err
	}

	session, err := h.deps.Live.Start(c.UserContext(), route)
	if err != nil {
		return toFiberError(err, "Failed to start live session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// ChangeLiveRoute restarts a session's feed for a new route
func (h *Handler) ChangeLiveRoute(c *fiber.Ctx) error {
	route, err := bodyRoute(c)
	if err != nil {
		return err
	}

	session, err := h.deps.Live.ChangeRoute(c.UserContext(), c.Params("id"), route)
	if err != nil {
		return toFiberError(err, "Failed to change live route")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// GetLiveSession returns the current snapshot of a session
func (h *Handler) GetLiveSession(c *fiber.Ctx) error {
	session, err := h.deps.Live.Snapshot(c.Params("id"))
	if err != nil {
		return toFiberError(err, "Failed to read live session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// GetLiveSessionFeed returns the current snapshot as a GTFS-Realtime feed
func (h *Handler) GetLiveSessionFeed(c *fiber.Ctx) error {
	session, err := h.deps.Live.Snapshot(c.Params("id"))
	if err != nil {
		return toFiberError(err, "Failed to read live session")
	}

	body, err := livefeed.MarshalFeed(session.Trains, time.Now())
	if err != nil {
		return toFiberError(err, "Failed to encode live feed")
	}

	c.Set(fiber.HeaderContentType, "application/x-protobuf")
	return c.Send(body)
}

// StopLiveSession ends a session
func (h *Handler) StopLiveSession(c *fiber.Ctx) error {
	if err := h.deps.Live.Stop(c.Params("id")); err != nil {
		return toFiberError(err, "Failed to stop live session")
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// queryRoute reads from/to query parameters and rejects a blank end
func queryRoute(c *fiber.Ctx) (domain.Route, error) {
	route := domain.Route{From: c.Query("from"), To: c.Query("to")}
	return route, requireStations(route)
}

// bodyRoute reads a {from,to} JSON body and rejects a blank end
func bodyRoute(c *fiber.Ctx) (domain.Route, error) {
	var req routeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Route{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	route := req.route()
	return route, requireStations(route)
}

func requireStations(route domain.Route) error {
	if strings.TrimSpace(route.From) == "" || strings.TrimSpace(route.To) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "from and to are required")
	}
	return nil
}

func toFiberError(err error, message string) error {
	switch {
	case errors.Is(err, service.ErrIncompleteRoute):
		return fiber.NewError(fiber.StatusBadRequest, "from and to are required")
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Live session not found")
	default:
		log.Error().Err(err).Msg(message)
		return fiber.NewError(fiber.StatusInternalServerError, message)
	}
}
