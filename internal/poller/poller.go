package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/metrics"
)

const (
	defaultInterval = 30 * time.Second
	unhealthyAfter  = 3
)

// Revalidator refreshes a cached collection from its source of truth.
type Revalidator interface {
	Revalidate(ctx context.Context) error
}

// Poller revalidates its target on an interval, and on demand through Kick, so the
// displayed list converges on server state even without local mutations.
type Poller struct {
	target   Revalidator
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time
	kick     chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	closed  bool
	health  Health
}

// Health summarises recent revalidation cycles.
type Health struct {
	Failures int
	LastErr  error
	LastRun  time.Time
	LastOK   time.Time
}

// Healthy is true once a cycle has succeeded and fewer than three have failed since.
func (h Health) Healthy() bool {
	return !h.LastOK.IsZero() && h.Failures < unhealthyAfter
}

// New constructs a Poller. A non-positive interval falls back to 30s.
func New(target Revalidator, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		target:   target,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the loop. The first revalidation happens on the first tick or
// Kick; callers load the target themselves. Start after Stop does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil || p.closed {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.stopped = make(chan struct{})
	go p.loop(ctx, p.stopped)
}

func (p *Poller) loop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
	for {
		select {
		case <-ctx.Done():
			logging.Info(p.logger, "poller stopped")
			return
		case <-ticker.C:
			p.cycle(ctx)
		case <-p.kick:
			p.cycle(ctx)
		}
	}
}

// Kick asks for a revalidation ahead of the next tick. Kicks made while one is
// already queued are merged.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Stop ends the loop and waits for a running cycle to return, or for ctx to end.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, stopped := p.cancel, p.stopped
	p.closed = true
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) cycle(ctx context.Context) {
	start := p.now()
	err := p.target.Revalidate(ctx)
	elapsed := p.now().Sub(start)
	p.metrics.RecordPollerCycle(elapsed, err)

	p.mu.Lock()
	p.health.LastRun = start
	if err != nil {
		p.health.Failures++
		p.health.LastErr = err
	} else {
		p.health.Failures = 0
		p.health.LastErr = nil
		p.health.LastOK = start
	}
	p.mu.Unlock()

	if err != nil {
		logging.Error(p.logger, "poller revalidate failed", err, slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()))
		return
	}
	logging.Debug(p.logger, "poller revalidated teams", logging.FieldDurationMS, elapsed.Milliseconds())
}

// Health returns the outcome of recent cycles.
func (p *Poller) Health() Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.health
}
