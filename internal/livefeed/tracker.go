// Package livefeed simulates the live-progress feed shown for a tracked route.
package livefeed

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/pkg/utils"
)

// DefaultPeriod is how often a feed ticks unless configured otherwise
const DefaultPeriod = 3 * time.Second

// MaxStep bounds the progress a moving train gains per tick: Δ ∈ [0, MaxStep)
const MaxStep = 5.0

// Observer is told about every snapshot a tracker publishes
type Observer func(snapshot []domain.LiveTrain, tick uint64)

// Option configures a Tracker
type Option func(*Tracker)

// WithPeriod sets the tick period
func WithPeriod(period time.Duration) Option {
	return func(t *Tracker) {
		if period > 0 {
			t.period = period
		}
	}
}

// WithRandom replaces the source of per-tick progress; it must return values in [0, 1)
func WithRandom(random func() float64) Option {
	return func(t *Tracker) {
		t.random = random
	}
}

// WithObserver registers a callback run after every tick
func WithObserver(observer Observer) Option {
	return func(t *Tracker) {
		t.observer = observer
	}
}

// Tracker owns one live feed. The tick loop is the only writer; readers load the
// current snapshot without locking. Snapshots are never modified once published.
type Tracker struct {
	period   time.Duration
	random   func() float64
	observer Observer

	snapshot atomic.Pointer[[]domain.LiveTrain]
	ticks    atomic.Uint64
	tickMu   sync.Mutex

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewTracker creates a stopped tracker seeded with a copy of trains
func NewTracker(seed []domain.LiveTrain, opts ...Option) *Tracker {
	t := &Tracker{
		period: DefaultPeriod,
		random: rand.Float64,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	initial := slices.Clone(seed)
	t.snapshot.Store(&initial)

	return t
}

// Snapshot returns a copy of the current feed
func (t *Tracker) Snapshot() []domain.LiveTrain {
	return slices.Clone(*t.snapshot.Load())
}

// Ticks returns how many ticks have been applied
func (t *Tracker) Ticks() uint64 {
	return t.ticks.Load()
}

// Period returns the tick period
func (t *Tracker) Period() time.Duration {
	return t.period
}

// Tick advances the feed once and publishes the new snapshot
func (t *Tracker) Tick() []domain.LiveTrain {
	t.tickMu.Lock()
	next := Advance(*t.snapshot.Load(), t.random)
	t.snapshot.Store(&next)
	tick := t.ticks.Add(1)
	t.tickMu.Unlock()

	if t.observer != nil {
		t.observer(slices.Clone(next), tick)
	}

	return slices.Clone(next)
}

// Advance returns the feed after one tick. Only moving trains progress, by
// random()*MaxStep, saturating at domain.MaxProgress. The input is not modified.
func Advance(trains []domain.LiveTrain, random func() float64) []domain.LiveTrain {
	next := make([]domain.LiveTrain, len(trains))
	for i, train := range trains {
		if train.Status == domain.LiveMoving {
			train.Progress = utils.Clamp(train.Progress+random()*MaxStep, 0, domain.MaxProgress)
		}
		next[i] = train
	}
	return next
}

// Run ticks every period until ctx is cancelled
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Start runs the tick loop in the background. Calling it again has no effect.
func (t *Tracker) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		t.cancel = cancel

		go func() {
			defer close(t.done)
			_ = t.Run(runCtx)
		}()
	})
}

// Stop cancels the tick loop and waits for it to exit. Safe to call more than once,
// and on a tracker that was never started.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		started := true
		t.startOnce.Do(func() { started = false })
		if !started {
			close(t.done)
			return
		}
		t.cancel()
	})
	<-t.done
}

// DisplayProgress rounds progress to the whole percent shown on a progress bar
func DisplayProgress(progress float64) int {
	return int(utils.RoundTo(progress, 0))
}
