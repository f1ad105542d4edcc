package syncstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/takumi3488/football-ical/internal/cache"
	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/metrics"
	"github.com/takumi3488/football-ical/internal/teamsapi"
)

// Key is the fetch key the team list is cached under.
const Key = "/api/teams"

// Snapshot is the read-only view handed to renderers and subscribers.
type Snapshot = cache.Snapshot[teams.Collection]

// NewCache returns a cache suitable for sharing between stores.
func NewCache() *cache.Cache[teams.Collection] {
	return cache.New(teams.Collection.Clone)
}

// Store is the single owner of the team collection and its sync state.
//
// Visible transitions are applied in the order remote calls complete, not the order
// they were issued: a slow response can overwrite a newer one. Requests are neither
// fenced nor cancelled.
type Store struct {
	remote  teamsapi.Remote
	cache   *cache.Cache[teams.Collection]
	logger  *slog.Logger
	metrics *metrics.Recorder

	inflight sync.WaitGroup
}

// New constructs a Store over remote. A nil cache gets a private one.
func New(remote teamsapi.Remote, c *cache.Cache[teams.Collection], logger *slog.Logger, recorder *metrics.Recorder) *Store {
	if c == nil {
		c = NewCache()
	}
	return &Store{
		remote:  remote,
		cache:   c,
		logger:  logger,
		metrics: recorder,
	}
}

// Snapshot returns the current state of the collection.
func (s *Store) Snapshot() Snapshot {
	return s.cache.Get(Key)
}

// Confirmed returns a copy of the last collection the server confirmed.
func (s *Store) Confirmed() teams.Collection {
	return s.cache.Get(Key).Confirmed
}

// Subscribe calls fn with a snapshot after every confirmed or predicted transition.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.cache.Subscribe(Key, cache.Listener[teams.Collection](fn))
}

// Load fetches the authoritative collection. On failure the store moves to the
// error state and a *LoadError is returned; nothing from the failed fetch is kept.
func (s *Store) Load(ctx context.Context) error {
	s.cache.BeginLoad(Key)
	list, err := s.remote.ListTeams(ctx)
	if err != nil {
		loadErr := &LoadError{Err: err}
		s.cache.Fail(Key, loadErr)
		logging.Error(s.logger, "team list load failed", err, slog.String(logging.FieldKey, Key))
		return loadErr
	}
	s.cache.Replace(Key, list)
	return nil
}

// Revalidate marks the cached collection stale and fetches it again.
func (s *Store) Revalidate(ctx context.Context) error {
	s.cache.Invalidate(Key)
	return s.Load(ctx)
}

// SubmitCreate registers url on the server and then re-fetches the list, whether or
// not the create succeeded. No prediction is shown for creates.
func (s *Store) SubmitCreate(ctx context.Context, url string) *Pending {
	if url == "" {
		s.metrics.RecordMutation(OpCreate, metrics.OutcomeRejected)
		return resolved(&MutationError{Op: OpCreate, Err: ErrEmptyURL})
	}

	p := newPending()
	s.cache.BeginMutation(Key)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		var err error
		createErr := s.remote.CreateTeam(ctx, url)
		loadErr := s.Load(ctx)
		switch {
		case createErr != nil:
			err = &MutationError{Op: OpCreate, Err: createErr}
			s.metrics.RecordMutation(OpCreate, metrics.OutcomeRolledBack)
			logging.Warn(s.logger, "team create failed", slog.String("url", url), "error", createErr)
		case loadErr != nil:
			err = loadErr
			s.metrics.RecordMutation(OpCreate, metrics.OutcomeCommitted)
		default:
			s.metrics.RecordMutation(OpCreate, metrics.OutcomeCommitted)
		}

		s.cache.EndMutation(Key)
		p.resolve(err)
	}()
	return p
}

// SubmitToggle publishes optimistic as the visible collection before returning, then
// asks the server to set the team's enabled flag to the value it has in optimistic.
// On success the server's list replaces the prediction; on any failure the collection
// confirmed at submission time is restored exactly and a *MutationError is reported.
func (s *Store) SubmitToggle(ctx context.Context, id int64, optimistic teams.Collection) *Pending {
	target, ok := optimistic.Find(id)
	if !ok {
		s.metrics.RecordMutation(OpToggle, metrics.OutcomeRejected)
		return resolved(&MutationError{Op: OpToggle, TeamID: id, Err: ErrUnknownTeam})
	}

	previous, token := s.cache.Predict(Key, optimistic)
	p := newPending()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		list, err := s.flip(ctx, id, target.Enabled)
		if err != nil {
			s.cache.Rollback(Key, token, previous)
			s.metrics.RecordMutation(OpToggle, metrics.OutcomeRolledBack)
			logging.Warn(s.logger, "team toggle rolled back",
				slog.Int64(logging.FieldTeamID, id),
				slog.Bool("enabled", target.Enabled),
				"error", err,
			)
			p.resolve(&MutationError{Op: OpToggle, TeamID: id, Err: err})
			return
		}

		s.cache.Settle(Key, token, list)
		s.metrics.RecordMutation(OpToggle, metrics.OutcomeCommitted)
		p.resolve(nil)
	}()
	return p
}

func (s *Store) flip(ctx context.Context, id int64, enabled bool) (teams.Collection, error) {
	if err := s.remote.FlipStatus(ctx, id, enabled); err != nil {
		return nil, err
	}
	return s.remote.ListTeams(ctx)
}

// Wait blocks until every submitted mutation has resolved.
func (s *Store) Wait() {
	s.inflight.Wait()
}
