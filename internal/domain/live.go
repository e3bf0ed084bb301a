package domain

import "time"

// LiveStatus is the state of a train in the live-progress feed
type LiveStatus string

const (
	LiveMoving     LiveStatus = "moving"
	LiveStationary LiveStatus = "stationary"
	LiveDelayed    LiveStatus = "delayed"
	LiveRunning    LiveStatus = "running"
	LiveCancelled  LiveStatus = "cancelled"
)

// MaxProgress is the saturation point of a live train's progress
const MaxProgress = 100.0

// LiveTrain is one entry of the simulated live-progress feed
type LiveTrain struct {
	ID               string     `json:"id" yaml:"id"`
	Number           string     `json:"number" yaml:"number"`
	Name             string     `json:"name" yaml:"name"`
	CurrentStation   string     `json:"currentStation" yaml:"current_station"`
	NextStation      string     `json:"nextStation" yaml:"next_station"`
	Status           LiveStatus `json:"status" yaml:"status"`
	Progress         float64    `json:"progress" yaml:"progress"`
	EstimatedArrival string     `json:"estimatedArrival" yaml:"estimated_arrival"`
}

// LiveSession is a viewer's live tracking session for one route
type LiveSession struct {
	ID        string      `json:"id"`
	Route     Route       `json:"route"`
	Trains    []LiveTrain `json:"trains"`
	StartedAt time.Time   `json:"startedAt"`
}
