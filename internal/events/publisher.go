package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"

	"github.com/railtracker/backend/internal/domain"
)

// LiveUpdate is published after every tick of a live session's feed
type LiveUpdate struct {
	SessionID string             `json:"sessionId"`
	Route     domain.Route       `json:"route"`
	Trains    []domain.LiveTrain `json:"trains"`
	Tick      uint64             `json:"tick"`
	Timestamp time.Time          `json:"timestamp"`
}

// Publisher sends live updates to whoever listens downstream
type Publisher interface {
	PublishLiveUpdate(ctx context.Context, update LiveUpdate) error
}

// byteQueue is the part of rmq.Queue the publisher needs
type byteQueue interface {
	PublishBytes(payload ...[]byte) error
}

// QueuePublisher publishes live updates onto an rmq queue
type QueuePublisher struct {
	queue byteQueue
}

// NewQueuePublisher opens the named queue on the connection
func NewQueuePublisher(connection rmq.Connection, queueName string) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("events: failed to open queue %s: %w", queueName, err)
	}

	return &QueuePublisher{queue: queue}, nil
}

// PublishLiveUpdate encodes the update as JSON and pushes it onto the queue
func (p *QueuePublisher) PublishLiveUpdate(ctx context.Context, update LiveUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("events: failed to encode live update: %w", err)
	}

	if err := p.queue.PublishBytes(payload); err != nil {
		return fmt.Errorf("events: failed to publish live update: %w", err)
	}

	return nil
}

// NoopPublisher drops every update
type NoopPublisher struct{}

func (NoopPublisher) PublishLiveUpdate(ctx context.Context, update LiveUpdate) error {
	return nil
}
