package coordinator

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/syncstore"
)

// Store is the part of the collection store the coordinator drives.
type Store interface {
	Confirmed() teams.Collection
	SubmitCreate(ctx context.Context, url string) *syncstore.Pending
	SubmitToggle(ctx context.Context, id int64, optimistic teams.Collection) *syncstore.Pending
}

// Coordinator turns user intents into store mutations. It holds no collection state
// and never waits for a round-trip: failures are logged and handed to OnError.
type Coordinator struct {
	store  Store
	logger *slog.Logger

	// OnError receives every failed mutation. Set it before the first intent.
	OnError func(error)

	inflight sync.WaitGroup
}

func New(store Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

// OnCreateSubmit submits the form's trimmed url and resets the form as soon as the
// create is dispatched.
func (c *Coordinator) OnCreateSubmit(ctx context.Context, form Form) *syncstore.Pending {
	url := strings.TrimSpace(form.Get(FieldURL))
	p := c.store.SubmitCreate(ctx, url)
	if url != "" {
		form.Reset()
	}
	c.watch(p)
	return p
}

// OnToggleClick predicts team's enabled flag negated against the confirmed collection
// and submits the prediction.
func (c *Coordinator) OnToggleClick(ctx context.Context, team teams.Team) *syncstore.Pending {
	predicted, _ := c.store.Confirmed().Toggled(team.ID)
	p := c.store.SubmitToggle(ctx, team.ID, predicted)
	c.watch(p)
	return p
}

// Wait blocks until every dispatched intent has resolved and its error, if any, has
// been reported.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

func (c *Coordinator) watch(p *syncstore.Pending) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		<-p.Done()
		err := p.Err()
		if err == nil {
			return
		}
		logging.Warn(c.logger, "mutation failed", "error", err)
		if c.OnError != nil {
			c.OnError(err)
		}
	}()
}
