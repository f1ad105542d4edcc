package repository

import (
	"context"
	"sync"

	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// Memory keeps a thread-safe team list in memory.
type Memory struct {
	mu     sync.RWMutex
	teams  teams.Collection
	nextID int64
}

// NewMemory constructs an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{teams: teams.Collection{}}
}

// List returns a copy of the stored teams.
func (m *Memory) List(context.Context) (teams.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.teams.Clone(), nil
}

func (m *Memory) ListEnabled(ctx context.Context) (teams.Collection, error) {
	all, _ := m.List(ctx)
	return enabledOnly(all), nil
}

func (m *Memory) Create(_ context.Context, url, name string) (teams.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := teams.Team{ID: m.nextID, URL: url, Name: name, Enabled: true}
	m.teams = append(m.teams, t)
	return t, nil
}

func (m *Memory) SetEnabled(_ context.Context, id int64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := m.teams.WithEnabled(id, enabled)
	if !ok {
		return ErrNotFound
	}
	m.teams = next
	return nil
}

func (m *Memory) Flip(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := m.teams.Toggled(id)
	if !ok {
		return ErrNotFound
	}
	m.teams = next
	return nil
}

func (m *Memory) Close() {}
