package teamsapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/metrics"
)

// instrumentedRemote wraps a Remote with per-call logging and metrics.
type instrumentedRemote struct {
	inner   Remote
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewInstrumentedRemote wraps inner so every call is timed, logged and recorded.
// A nil logger or recorder disables that side.
func NewInstrumentedRemote(inner Remote, logger *slog.Logger, recorder *metrics.Recorder) Remote {
	return &instrumentedRemote{inner: inner, logger: logger, metrics: recorder}
}

func (r *instrumentedRemote) ListTeams(ctx context.Context) (teams.Collection, error) {
	start := time.Now()
	list, err := r.inner.ListTeams(ctx)
	r.observe(ctx, OpList, start, err, slog.Int(logging.FieldCount, len(list)))
	return list, err
}

func (r *instrumentedRemote) CreateTeam(ctx context.Context, url string) error {
	start := time.Now()
	err := r.inner.CreateTeam(ctx, url)
	r.observe(ctx, OpCreate, start, err, slog.String("url", url))
	return err
}

func (r *instrumentedRemote) FlipStatus(ctx context.Context, id int64, enabled bool) error {
	start := time.Now()
	err := r.inner.FlipStatus(ctx, id, enabled)
	r.observe(ctx, OpFlip, start, err, slog.Int64(logging.FieldTeamID, id), slog.Bool("enabled", enabled))
	return err
}

func (r *instrumentedRemote) observe(ctx context.Context, op string, start time.Time, err error, attrs ...any) {
	elapsed := time.Since(start)
	r.metrics.RecordRemoteCall(op, elapsed, err)

	logger := logging.FromContext(ctx, r.logger)
	if logger == nil {
		return
	}
	attrs = append(attrs,
		slog.String(logging.FieldOp, op),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	if err != nil {
		logger.Warn("teams api call failed", append(attrs, "error", err)...)
		return
	}
	logger.Debug("teams api call", attrs...)
}
