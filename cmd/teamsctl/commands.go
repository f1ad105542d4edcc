package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/coordinator"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/metrics"
	"github.com/takumi3488/football-ical/internal/poller"
	"github.com/takumi3488/football-ical/internal/render"
	"github.com/takumi3488/football-ical/internal/syncstore"
	"github.com/takumi3488/football-ical/internal/teamsapi"
)

// session is one client run: a store loaded from the API and a coordinator in front of it.
type session struct {
	store       *syncstore.Store
	coordinator *coordinator.Coordinator
	recorder    *metrics.Recorder
	logger      *slog.Logger
}

func run(ctx context.Context, opts options, cfg config.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	switch opts.command {
	case "list", "add", "toggle", "watch":
	default:
		return errUsage
	}

	client := teamsapi.NewClient(teamsapi.Config{BaseURL: opts.baseURL, Timeout: cfg.API.Timeout})
	if !opts.skipWait {
		if err := teamsapi.WaitReady(ctx, client, cfg.API.ReadyTimeout, logger); err != nil {
			return err
		}
	}

	recorder := metrics.NewRecorder()
	remote := teamsapi.NewInstrumentedRemote(client, logger, recorder)
	store := syncstore.New(remote, syncstore.NewCache(), logger, recorder)
	s := &session{
		store:       store,
		coordinator: coordinator.New(store, logger),
		recorder:    recorder,
		logger:      logger,
	}

	switch opts.command {
	case "list":
		return s.list(ctx, out)
	case "add":
		return s.add(ctx, opts.args, out)
	case "toggle":
		return s.toggle(ctx, opts.args, out)
	default:
		return s.watch(ctx, opts.interval, in, out)
	}
}

func (s *session) list(ctx context.Context, out io.Writer) error {
	if err := s.store.Load(ctx); err != nil {
		return err
	}
	return render.Table(out, s.store.Snapshot())
}

func (s *session) add(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := s.store.Load(ctx); err != nil {
		return err
	}

	form := coordinator.NewInputForm(map[string]string{coordinator.FieldURL: args[0]})
	if err := s.coordinator.OnCreateSubmit(ctx, form).Wait(ctx); err != nil {
		return err
	}
	return render.Table(out, s.store.Snapshot())
}

func (s *session) toggle(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid team id %q", args[0])
	}
	if err := s.store.Load(ctx); err != nil {
		return err
	}

	team, ok := s.store.Confirmed().Find(id)
	if !ok {
		return fmt.Errorf("team %d not found", id)
	}

	pending := s.coordinator.OnToggleClick(ctx, team)
	if err := render.Table(out, s.store.Snapshot()); err != nil {
		return err
	}
	if err := pending.Wait(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return render.Table(out, s.store.Snapshot())
}

// watch prints a table for every settled snapshot until ctx is cancelled. Each line
// read from in forces a revalidation.
func (s *session) watch(ctx context.Context, interval time.Duration, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	printed := 0
	unsubscribe := s.store.Subscribe(func(snap syncstore.Snapshot) {
		if snap.Err == nil && (!snap.Ready() || snap.Validating || snap.Stale) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if printed > 0 {
			fmt.Fprintln(out)
		}
		printed++
		if err := render.Table(out, snap); err != nil {
			logging.Warn(s.logger, "render failed", "error", err)
		}
	})
	defer unsubscribe()

	if err := s.store.Load(ctx); err != nil {
		logging.Warn(s.logger, "initial load failed", "error", err)
	}

	p := poller.New(s.store, s.logger, s.recorder, interval)
	p.Start(ctx)
	if in != nil {
		// The reader stays blocked in Scan after ctx ends until in yields another line,
		// is closed, or the process exits. It returns on the first line read after ctx
		// ends, and a Kick that races Stop is dropped by the stopped poller.
		go func() {
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				default:
					p.Kick()
				}
			}
		}()
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return p.Stop(stopCtx)
}
