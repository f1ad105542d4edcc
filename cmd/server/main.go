package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/takumi3488/football-ical/internal/config"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "teams-server",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server startup failed", err)
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
