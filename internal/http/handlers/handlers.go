package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/takumi3488/football-ical/internal/crawler"
	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/logging"
	"github.com/takumi3488/football-ical/internal/repository"
)

const maxBodyBytes = 1 << 16

type createTeamRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

type flipStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// Handler serves the teams REST resource.
type Handler struct {
	repo     repository.Repository
	resolver crawler.Resolver
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs a Handler. A nil resolver stores submitted URLs as given.
func NewHandler(repo repository.Repository, resolver crawler.Resolver, validate *validator.Validate, logger *slog.Logger) *Handler {
	if resolver == nil {
		resolver = crawler.Passthrough{}
	}
	if validate == nil {
		validate = validator.New()
	}
	return &Handler{
		repo:     repo,
		resolver: resolver,
		validate: validate,
		logger:   logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// ListTeams returns every team in insertion order.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "list teams failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list teams", h.logger)
		return
	}
	if list == nil {
		list = teams.Collection{}
	}
	writeJSON(w, http.StatusOK, list, h.logger)
}

// CreateTeam resolves the submitted page and stores the team enabled.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation error: "+err.Error(), h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	resolved, err := h.resolver.Resolve(r.Context(), req.URL)
	if err != nil {
		logging.Warn(logger, "team page resolve failed", slog.String("url", req.URL), "error", err)
		if errors.Is(err, crawler.ErrUnsupportedURL) || errors.Is(err, crawler.ErrNoTeamName) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
			return
		}
		writeError(w, r, http.StatusBadGateway, "team page unavailable", h.logger)
		return
	}

	team, err := h.repo.Create(r.Context(), resolved.ScheduleURL, resolved.Name)
	if err != nil {
		logging.Error(logger, "create team failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to create team", h.logger)
		return
	}
	logging.Info(logger, "team created", slog.Int64(logging.FieldTeamID, team.ID), slog.String("name", team.Name))
	writeJSON(w, http.StatusCreated, team, h.logger)
}

// FlipStatus sets a team's enabled flag to the requested value, or negates it when
// the request has no body.
func (h *Handler) FlipStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid team id", h.logger)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if len(bytes.TrimSpace(body)) == 0 {
		err = h.repo.Flip(r.Context(), id)
	} else {
		var req flipStatusRequest
		if decodeErr := json.Unmarshal(body, &req); decodeErr != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}
		if validateErr := h.validate.Struct(&req); validateErr != nil {
			writeError(w, r, http.StatusBadRequest, "validation error: "+validateErr.Error(), h.logger)
			return
		}
		err = h.repo.SetEnabled(r.Context(), id, *req.Enabled)
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "team not found", h.logger)
	case err != nil:
		logging.Error(loggerFromContext(r, h.logger), "update team failed", err, slog.Int64(logging.FieldTeamID, id))
		writeError(w, r, http.StatusInternalServerError, "failed to update team", h.logger)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// NotFound answers unknown routes with a JSON error.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}
