package teamsapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/takumi3488/football-ical/internal/logging"
)

const (
	readyInitialInterval = 100 * time.Millisecond
	readyMaxInterval     = 2 * time.Second
	defaultReadyWait     = 15 * time.Second
)

// HealthChecker is satisfied by Client.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// WaitReady polls the health endpoint with exponential backoff until it answers,
// maxWait elapses, or ctx is cancelled. It only gates startup; loads and mutations
// are never retried.
func WaitReady(ctx context.Context, checker HealthChecker, maxWait time.Duration, logger *slog.Logger) error {
	if maxWait <= 0 {
		maxWait = defaultReadyWait
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = readyInitialInterval
	b.MaxInterval = readyMaxInterval
	b.MaxElapsedTime = maxWait

	attempt := 0
	op := func() error {
		attempt++
		return checker.Health(ctx)
	}
	notify := func(err error, next time.Duration) {
		logging.Warn(logger, "teams api not ready",
			"attempt", attempt,
			"retry_in_ms", next.Milliseconds(),
			"error", err,
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("teamsapi: server not ready after %d attempts: %w", attempt, err)
	}
	logging.Debug(logger, "teams api ready", "attempts", attempt)
	return nil
}
