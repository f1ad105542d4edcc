package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
)

const (
	connectTimeout  = 5 * time.Second
	pingMaxElapsed  = 15 * time.Second
	pingMaxInterval = 2 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS teams (
    id      SERIAL PRIMARY KEY,
    url     TEXT    NOT NULL,
    name    TEXT    NOT NULL,
    enabled BOOLEAN NOT NULL DEFAULT TRUE
)`

// Postgres stores teams in a PostgreSQL table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to cfg.URL, waits until the database answers pings and
// creates the teams table when it is missing.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := ping(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func ping(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = pingMaxInterval
	b.MaxElapsedTime = pingMaxElapsed

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return pool.Ping(pingCtx)
	}
	notify := func(err error, next time.Duration) {
		logging.Warn(logger, "failed to ping database",
			slog.Int("attempt", attempt),
			slog.Int64("retry_in_ms", next.Milliseconds()),
			"error", err,
		)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("failed to ping pool: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) (teams.Collection, error) {
	return p.query(ctx, `SELECT id, url, name, enabled FROM teams ORDER BY id`)
}

func (p *Postgres) ListEnabled(ctx context.Context) (teams.Collection, error) {
	return p.query(ctx, `SELECT id, url, name, enabled FROM teams WHERE enabled ORDER BY id`)
}

func (p *Postgres) query(ctx context.Context, sql string) (teams.Collection, error) {
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (teams.Team, error) {
		var t teams.Team
		err := row.Scan(&t.ID, &t.URL, &t.Name, &t.Enabled)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return teams.Collection(out), nil
}

func (p *Postgres) Create(ctx context.Context, url, name string) (teams.Team, error) {
	t := teams.Team{URL: url, Name: name, Enabled: true}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO teams (url, name, enabled) VALUES ($1, $2, $3) RETURNING id`,
		url, name, t.Enabled,
	).Scan(&t.ID)
	if err != nil {
		return teams.Team{}, fmt.Errorf("failed to create team: %w", err)
	}
	return t, nil
}

func (p *Postgres) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return p.exec(ctx, `UPDATE teams SET enabled = $2 WHERE id = $1`, id, enabled)
}

func (p *Postgres) Flip(ctx context.Context, id int64) error {
	return p.exec(ctx, `UPDATE teams SET enabled = NOT enabled WHERE id = $1`, id)
}

func (p *Postgres) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Truncate removes every team and resets the id sequence.
func (p *Postgres) Truncate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `TRUNCATE teams RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate teams: %w", err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
