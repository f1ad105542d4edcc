package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/logging"
)

const appVersion = "dev"

type options struct {
	command  string
	args     []string
	baseURL  string
	interval time.Duration
	skipWait bool
}

var errUsage = errors.New("usage")

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "teamsctl",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if err := run(ctx, opts, cfg, logger, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "teamsctl: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("teamsctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	opts := options{}
	fs.StringVar(&opts.baseURL, "api", cfg.API.BaseURL, "teams API base URL")
	fs.DurationVar(&opts.interval, "interval", cfg.PollInterval, "revalidation interval for watch")
	fs.BoolVar(&opts.skipWait, "no-wait", false, "skip waiting for the API health check")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	rest := fs.Args()
	if len(rest) > 0 {
		opts.command = rest[0]
		opts.args = rest[1:]
	}
	return opts, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: teamsctl [-api URL] [-interval D] [-no-wait] <command>

commands:
  list          print the team list
  add URL       register a team page
  toggle ID     flip a team's enabled flag
  watch         print the list whenever it changes; press Enter to refresh
`)
}
