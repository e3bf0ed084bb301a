package service

import (
	"errors"

	"github.com/railtracker/backend/internal/domain"
)

// ReferenceRepository is re-exported from domain for convenience
type ReferenceRepository = domain.ReferenceRepository

var (
	// ErrSessionNotFound is returned for a live session id that is unknown or already stopped
	ErrSessionNotFound = errors.New("service: live session not found")

	// ErrIncompleteRoute is returned when a search is missing either station
	ErrIncompleteRoute = errors.New("service: both stations are required")
)
