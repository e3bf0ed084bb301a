package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/events"
	"github.com/railtracker/backend/internal/livefeed"
	"github.com/railtracker/backend/internal/repository/static"
	"github.com/railtracker/backend/internal/telemetry"
)

type recordingPublisher struct {
	mu      sync.Mutex
	updates []events.LiveUpdate
	err     error
}

func (p *recordingPublisher) PublishLiveUpdate(ctx context.Context, update events.LiveUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

func (p *recordingPublisher) last() events.LiveUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updates[len(p.updates)-1]
}

var delhiToAgra = domain.Route{From: "New Delhi (NDLS)", To: "Agra Cantt (AGC)"}

func TestLiveSessionLifecycle(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, telemetry.NewMetrics(), livefeed.WithPeriod(time.Hour))
	defer svc.Close()

	session, err := svc.Start(context.Background(), delhiToAgra)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, delhiToAgra, session.Route)
	require.Len(t, session.Trains, 4)
	assert.Equal(t, 68.0, session.Trains[0].Progress)
	assert.Equal(t, 1, svc.ActiveSessions())

	snapshot, err := svc.Snapshot(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Trains, snapshot.Trains)

	changed, err := svc.ChangeRoute(context.Background(), session.ID, delhiToMumbai)
	require.NoError(t, err)
	assert.Equal(t, session.ID, changed.ID)
	assert.Equal(t, delhiToMumbai, changed.Route)
	assert.Equal(t, 1, svc.ActiveSessions())

	require.NoError(t, svc.Stop(session.ID))
	assert.Equal(t, 0, svc.ActiveSessions())

	_, err = svc.Snapshot(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Stop(session.ID), ErrSessionNotFound)
}

func TestLiveSessionUnknownID(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, nil)
	defer svc.Close()

	_, err := svc.ChangeRoute(context.Background(), "missing", delhiToAgra)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLiveSessionVisibleWhileChangingRoute(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, telemetry.NewMetrics(), livefeed.WithPeriod(time.Millisecond))
	defer svc.Close()

	session, err := svc.Start(context.Background(), delhiToAgra)
	require.NoError(t, err)

	done := make(chan struct{})
	var misses atomic.Int64
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, err := svc.Snapshot(session.ID); err != nil {
					misses.Add(1)
				}
			}
		}()
	}

	routes := []domain.Route{delhiToMumbai, delhiToAgra}
	for i := range 500 {
		_, err := svc.ChangeRoute(context.Background(), session.ID, routes[i%2])
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	assert.Zero(t, misses.Load())
	assert.Equal(t, 1, svc.ActiveSessions())
}

func TestLiveSessionStopRacingChangeRoute(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, nil, livefeed.WithPeriod(time.Millisecond))
	defer svc.Close()

	for range 200 {
		session, err := svc.Start(context.Background(), delhiToAgra)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		var stopErr, changeErr error
		go func() {
			defer wg.Done()
			_, changeErr = svc.ChangeRoute(context.Background(), session.ID, delhiToMumbai)
		}()
		go func() {
			defer wg.Done()
			stopErr = svc.Stop(session.ID)
		}()
		wg.Wait()

		// Stop always finds the session; a route change that loses the race reports it gone
		require.NoError(t, stopErr)
		if changeErr != nil {
			require.ErrorIs(t, changeErr, ErrSessionNotFound)
		}
		_, err = svc.Snapshot(session.ID)
		require.ErrorIs(t, err, ErrSessionNotFound)
	}
	assert.Equal(t, 0, svc.ActiveSessions())
}

func TestLiveSessionRejectsIncompleteRoute(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, nil)
	defer svc.Close()

	_, err := svc.Start(context.Background(), domain.Route{From: "New Delhi (NDLS)"})
	assert.ErrorIs(t, err, ErrIncompleteRoute)
}

func TestLiveSessionPublishesTicks(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewLiveService(static.MustLoad(), publisher, telemetry.NewMetrics(),
		livefeed.WithPeriod(5*time.Millisecond),
		livefeed.WithRandom(func() float64 { return 0.5 }),
	)
	defer svc.Close()

	session, err := svc.Start(context.Background(), delhiToAgra)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return publisher.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	update := publisher.last()
	assert.Equal(t, session.ID, update.SessionID)
	assert.Equal(t, delhiToAgra, update.Route)
	assert.Greater(t, update.Trains[0].Progress, 68.0)
	assert.Equal(t, 45.0, update.Trains[1].Progress)
	assert.Equal(t, 0.0, update.Trains[3].Progress)
}

func TestLiveSessionSurvivesPublishErrors(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("queue down")}
	svc := NewLiveService(static.MustLoad(), publisher, telemetry.NewMetrics(),
		livefeed.WithPeriod(5*time.Millisecond),
	)
	defer svc.Close()

	session, err := svc.Start(context.Background(), delhiToAgra)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return publisher.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	_, err = svc.Snapshot(session.ID)
	assert.NoError(t, err)
}

func TestLiveServiceClose(t *testing.T) {
	svc := NewLiveService(static.MustLoad(), nil, nil, livefeed.WithPeriod(time.Hour))

	for range 3 {
		_, err := svc.Start(context.Background(), delhiToAgra)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, svc.ActiveSessions())

	svc.Close()
	assert.Equal(t, 0, svc.ActiveSessions())
}
