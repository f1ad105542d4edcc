// Package repository persists the reference server's team list.
package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// ErrNotFound is returned when no team has the requested id.
var ErrNotFound = errors.New("team not found")

// Repository stores teams in insertion order.
type Repository interface {
	List(ctx context.Context) (teams.Collection, error)
	// ListEnabled returns only the teams whose calendar is published.
	ListEnabled(ctx context.Context) (teams.Collection, error)
	// Create stores a new, enabled team.
	Create(ctx context.Context, url, name string) (teams.Team, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	Flip(ctx context.Context, id int64) error
	Close()
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*Postgres)(nil)
)

// Open returns a Postgres repository when cfg names a database and an in-memory one otherwise.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Repository, error) {
	if cfg.URL == "" {
		return NewMemory(), nil
	}
	pg, err := OpenPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func enabledOnly(all teams.Collection) teams.Collection {
	out := make(teams.Collection, 0, len(all))
	for _, t := range all {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}
