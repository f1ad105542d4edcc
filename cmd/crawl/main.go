package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/crawler"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/repository"
)

const appVersion = "dev"

type options struct {
	output      string
	concurrency int
}

func main() {
	if os.Getenv("SKIP_CRAWL_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "crawl",
		Version: appVersion,
	})

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logging.Error(logger, "open repository", err)
		os.Exit(1)
	}
	defer repo.Close()

	j := job{
		teams:       repo,
		schedules:   crawler.New(&http.Client{Timeout: cfg.API.Timeout}, logger),
		concurrency: opts.concurrency,
		logger:      logger,
	}
	if err := publish(ctx, j, opts.output, os.Stdout); err != nil {
		logging.Error(logger, "crawl failed", err)
		repo.Close()
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: crawl [-out PATH] [-concurrency N]")
		fs.PrintDefaults()
	}

	opts := options{}
	fs.StringVar(&opts.output, "out", cfg.Calendar.Output, `calendar file to write, or "-" for stdout`)
	fs.IntVar(&opts.concurrency, "concurrency", cfg.Calendar.Concurrency, "schedule pages fetched at once")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return options{}, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	return opts, nil
}
