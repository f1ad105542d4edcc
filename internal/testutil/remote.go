package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// ErrRemoteDown is the default failure injected by FakeRemote.
var ErrRemoteDown = errors.New("remote unavailable")

// FakeRemote is an in-memory teams server. It applies creates and flips to its own
// list, can fail the next call of an operation, and can hold flips of a team until
// released so tests control completion order.
type FakeRemote struct {
	mu       sync.Mutex
	teams    teams.Collection
	nextID   int64
	failNext map[string][]error
	gates    map[int64]chan struct{}
	calls    []string
}

// NewFakeRemote returns a FakeRemote seeded with initial.
func NewFakeRemote(initial teams.Collection) *FakeRemote {
	var maxID int64
	for _, t := range initial {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return &FakeRemote{
		teams:    initial.Clone(),
		nextID:   maxID,
		failNext: make(map[string][]error),
		gates:    make(map[int64]chan struct{}),
	}
}

// FailNext makes the next call of op ("list", "create", "flip") return err.
func (f *FakeRemote) FailNext(op string, err error) {
	if err == nil {
		err = ErrRemoteDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = append(f.failNext[op], err)
}

// HoldFlip blocks flips of id until the returned release func is called.
func (f *FakeRemote) HoldFlip(id int64) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[id] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Teams returns a copy of the server-side list.
func (f *FakeRemote) Teams() teams.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams.Clone()
}

// Calls returns the operations received so far, in arrival order.
func (f *FakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeRemote) ListTeams(ctx context.Context) (teams.Collection, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return nil, err
	}
	return f.Teams(), nil
}

func (f *FakeRemote) CreateTeam(ctx context.Context, url string) error {
	if err := f.enter(ctx, "create"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.teams = append(f.teams, teams.Team{
		ID:      f.nextID,
		URL:     url,
		Name:    fmt.Sprintf("Team %d", f.nextID),
		Enabled: true,
	})
	return nil
}

func (f *FakeRemote) FlipStatus(ctx context.Context, id int64, enabled bool) error {
	f.mu.Lock()
	gate := f.gates[id]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := f.enter(ctx, "flip"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next, ok := f.teams.WithEnabled(id, enabled)
	if !ok {
		return fmt.Errorf("team %d not found", id)
	}
	f.teams = next
	return nil
}

func (f *FakeRemote) enter(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if queue := f.failNext[op]; len(queue) > 0 {
		f.failNext[op] = queue[1:]
		return queue[0]
	}
	return nil
}
