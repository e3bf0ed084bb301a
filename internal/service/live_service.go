package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/events"
	"github.com/railtracker/backend/internal/livefeed"
	"github.com/railtracker/backend/internal/telemetry"
)

const publishTimeout = 2 * time.Second

type liveSession struct {
	id        string
	route     domain.Route
	startedAt time.Time
	tracker   *livefeed.Tracker
}

func (s *liveSession) view() domain.LiveSession {
	return domain.LiveSession{
		ID:        s.id,
		Route:     s.route,
		Trains:    s.tracker.Snapshot(),
		StartedAt: s.startedAt,
	}
}

// LiveService runs one live-progress feed per viewing session.
// Each session owns exactly one ticker, released when the route changes or the session stops.
type LiveService struct {
	seed        []domain.LiveTrain
	publisher   events.Publisher
	metrics     *telemetry.Metrics
	trackerOpts []livefeed.Option

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewLiveService creates a new live service. Tracker options (period, random source)
// apply to every session it starts.
func NewLiveService(
	tables *domain.ReferenceTables,
	publisher events.Publisher,
	metrics *telemetry.Metrics,
	trackerOpts ...livefeed.Option,
) *LiveService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &LiveService{
		seed:        tables.LiveSeed,
		publisher:   publisher,
		metrics:     metrics,
		trackerOpts: trackerOpts,
		ctx:         ctx,
		cancel:      cancel,
		sessions:    make(map[string]*liveSession),
	}
}

// Start opens a session for a route and starts its feed
func (s *LiveService) Start(ctx context.Context, route domain.Route) (domain.LiveSession, error) {
	if !route.IsComplete() {
		return domain.LiveSession{}, ErrIncompleteRoute
	}

	session := s.newSession(uuid.NewString(), route)

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.LiveSessionsActive.Inc()
	}

	log.Debug().Str("session", session.id).Str("from", route.From).Str("to", route.To).Msg("Live session started")

	return session.view(), nil
}

// ChangeRoute restarts a session's feed for a new route. The new feed replaces the old
// one in place, so the session stays visible throughout; the old ticker is stopped after
// the swap.
func (s *LiveService) ChangeRoute(ctx context.Context, id string, route domain.Route) (domain.LiveSession, error) {
	if !route.IsComplete() {
		return domain.LiveSession{}, ErrIncompleteRoute
	}

	s.mu.Lock()
	_, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return domain.LiveSession{}, ErrSessionNotFound
	}

	session := s.newSession(id, route)

	s.mu.Lock()
	old, ok := s.sessions[id]
	if ok {
		s.sessions[id] = session
	}
	s.mu.Unlock()

	if !ok {
		// stopped while the new feed was starting
		session.tracker.Stop()
		return domain.LiveSession{}, ErrSessionNotFound
	}

	old.tracker.Stop()

	log.Debug().Str("session", id).Str("from", route.From).Str("to", route.To).Msg("Live session route changed")

	return session.view(), nil
}

// Snapshot returns the current state of a session's feed
func (s *LiveService) Snapshot(id string) (domain.LiveSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return domain.LiveSession{}, ErrSessionNotFound
	}
	return session.view(), nil
}

// Stop ends a session and releases its ticker
func (s *LiveService) Stop(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.tracker.Stop()

	if s.metrics != nil {
		s.metrics.LiveSessionsActive.Dec()
	}

	log.Debug().Str("session", id).Msg("Live session stopped")
	return nil
}

// ActiveSessions returns the number of running sessions
func (s *LiveService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops every session. Call during graceful shutdown.
func (s *LiveService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*liveSession)
	s.mu.Unlock()

	s.cancel()

	for _, session := range sessions {
		session.tracker.Stop()
		if s.metrics != nil {
			s.metrics.LiveSessionsActive.Dec()
		}
	}
}

func (s *LiveService) newSession(id string, route domain.Route) *liveSession {
	session := &liveSession{
		id:        id,
		route:     route,
		startedAt: time.Now(),
	}

	opts := append(append([]livefeed.Option{}, s.trackerOpts...), livefeed.WithObserver(s.observer(session)))
	session.tracker = livefeed.NewTracker(s.seed, opts...)
	session.tracker.Start(s.ctx)

	return session
}

func (s *LiveService) observer(session *liveSession) livefeed.Observer {
	return func(snapshot []domain.LiveTrain, tick uint64) {
		if s.metrics != nil {
			s.metrics.LiveTicksTotal.Inc()
		}

		ctx, cancel := context.WithTimeout(s.ctx, publishTimeout)
		defer cancel()

		err := s.publisher.PublishLiveUpdate(ctx, events.LiveUpdate{
			SessionID: session.id,
			Route:     session.route,
			Trains:    snapshot,
			Tick:      tick,
			Timestamp: time.Now(),
		})
		if err != nil {
			if s.metrics != nil {
				s.metrics.LiveEventErrors.Inc()
			}
			log.Warn().Err(err).Str("session", session.id).Msg("Failed to publish live update")
		}
	}
}
