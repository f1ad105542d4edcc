package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/takumi3488/football-ical/internal/http/handlers"
	"github.com/takumi3488/football-ical/internal/http/middleware"
	"github.com/takumi3488/football-ical/internal/metrics"
)

// NewRouter registers the teams API under /api.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.Use(chimiddleware.Recoverer)
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.Get("/teams", handler.ListTeams)
		r.Post("/teams", handler.CreateTeam)
		r.Patch("/teams/{id}/flip_status", handler.FlipStatus)
	})
	return r
}
