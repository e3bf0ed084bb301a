package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/pkg/utils"
)

// defaultRouteKm stands in when the first train's distance has no leading number
const defaultRouteKm = 1000

// RouteMapService lays listed trains out along the route line
type RouteMapService struct {
	trainSvc *TrainService
}

// NewRouteMapService creates a new route map service
func NewRouteMapService(trainSvc *TrainService) *RouteMapService {
	return &RouteMapService{trainSvc: trainSvc}
}

// GetRouteMap searches the route and builds its map
func (s *RouteMapService) GetRouteMap(ctx context.Context, route domain.Route) (domain.RouteMap, error) {
	result, err := s.trainSvc.Search(ctx, route)
	if err != nil {
		return domain.RouteMap{}, err
	}
	return BuildRouteMap(result), nil
}

// BuildRouteMap spaces n trains evenly between the two ends: marker i sits at
// (i+1)*100/(n+1) percent. Every marker after the first carries the distance to the one
// before it, scaled from the first train's route distance.
func BuildRouteMap(result domain.SearchResult) domain.RouteMap {
	n := len(result.Trains)
	spacing := 100 / float64(n+1)

	routeKm := defaultRouteKm
	if n > 0 {
		routeKm = leadingInt(result.Trains[0].Distance, defaultRouteKm)
	}

	markers := make([]domain.RouteMarker, 0, n)
	for i, train := range result.Trains {
		marker := domain.RouteMarker{
			Label:           fmt.Sprintf("T%d", i+1),
			TrainNumber:     train.Number,
			TrainName:       train.Name,
			Status:          train.Status,
			StatusLabel:     statusLabel(train.Status),
			PositionPercent: float64(i+1) * spacing,
		}
		if i > 0 {
			gap := int(utils.RoundTo(spacing*float64(routeKm)/100, 0))
			marker.GapFromPreviousKm = &gap
		}
		markers = append(markers, marker)
	}

	return domain.RouteMap{
		Route:   result.Route,
		Markers: markers,
	}
}

func statusLabel(status domain.TrainStatus) string {
	if status == domain.StatusOnTime {
		return "On Time"
	}
	s := string(status)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// leadingInt reads the integer at the start of s ("1384 km" -> 1384), or returns fallback
func leadingInt(s string, fallback int) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}
