package repository

import (
	"testing"

	iso8601 "github.com/senseyeio/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"PT15H50M":   "15h 50m",
		"PT27H45M":   "27h 45m",
		"P1DT10H30M": "34h 30m",
		"PT8H":       "8h 0m",
	}

	for input, expected := range cases {
		period, err := iso8601.ParseISO8601(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, FormatDuration(period), input)
	}
}

func TestBuildRouteMetrics(t *testing.T) {
	table, err := BuildRouteMetrics([]RouteRecord{
		{From: "New Delhi (NDLS)", To: "Mumbai Central (BCT)", DistanceKm: 1384, Duration: "PT15H50M", Bidirectional: true},
		{From: "Pune Junction (PUNE)", To: "Agra Cantt (AGC)", DistanceKm: 1200, Duration: "PT20H", Bidirectional: false},
	})
	require.NoError(t, err)

	assert.Equal(t, "1384 km", table["New Delhi (NDLS) → Mumbai Central (BCT)"].Distance)
	assert.Equal(t, "15h 50m", table["Mumbai Central (BCT) → New Delhi (NDLS)"].Duration)
	assert.Contains(t, table, "Pune Junction (PUNE) → Agra Cantt (AGC)")
	assert.NotContains(t, table, "Agra Cantt (AGC) → Pune Junction (PUNE)")
}

func TestBuildRouteMetricsRejectsBadDuration(t *testing.T) {
	_, err := BuildRouteMetrics([]RouteRecord{{From: "A", To: "B", DistanceKm: 1, Duration: "15h 50m"}})
	assert.Error(t, err)
}
