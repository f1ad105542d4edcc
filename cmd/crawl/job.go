package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/takumi3488/football-ical/internal/calendar"
	"github.com/takumi3488/football-ical/internal/crawler"
	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
)

type teamLister interface {
	ListEnabled(ctx context.Context) (teams.Collection, error)
}

type scheduleReader interface {
	Schedule(ctx context.Context, scheduleURL string) (crawler.Schedule, error)
}

// job crawls every enabled team and renders one merged calendar.
type job struct {
	teams       teamLister
	schedules   scheduleReader
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// collect fetches every enabled team's schedule. The first failure cancels the
// remaining fetches and fails the whole run.
func (j job) collect(ctx context.Context) ([]calendar.Event, error) {
	enabled, err := j.teams.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled teams: %w", err)
	}

	perTeam := make([][]calendar.Event, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	if j.concurrency > 0 {
		g.SetLimit(j.concurrency)
	}
	for i, team := range enabled {
		i, team := i, team
		g.Go(func() error {
			s, err := j.schedules.Schedule(gctx, team.URL)
			if err != nil {
				return fmt.Errorf("team %d (%s): %w", team.ID, team.URL, err)
			}
			logging.Debug(j.logger, "team schedule read",
				slog.Int64("team_id", team.ID),
				slog.String("name", s.Name),
				slog.Int("events", len(s.Events)),
			)
			perTeam[i] = s.Events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := calendar.Merge(perTeam...)
	logging.Info(j.logger, "schedules crawled", slog.Int("teams", len(enabled)), slog.Int("events", len(events)))
	return events, nil
}

func (j job) render(ctx context.Context, w io.Writer) error {
	events, err := j.collect(ctx)
	if err != nil {
		return err
	}
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	return calendar.Write(w, events, now())
}

// publish renders the calendar to stdout when output is "-" and to the named file
// otherwise. A failed run leaves an existing file untouched.
func publish(ctx context.Context, j job, output string, stdout io.Writer) error {
	if output == "-" {
		return j.render(ctx, stdout)
	}
	if err := writeFileAtomic(output, func(w io.Writer) error { return j.render(ctx, w) }); err != nil {
		return err
	}
	logging.Info(j.logger, "calendar written", slog.String("path", output))
	return nil
}

func writeFileAtomic(path string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
