package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takumi3488/football-ical/internal/crawler"
	"github.com/takumi3488/football-ical/internal/domain/teams"
	"github.com/takumi3488/football-ical/internal/repository"
	"github.com/takumi3488/football-ical/internal/testutil"
)

type stubResolver struct {
	result crawler.Result
	err    error
}

func (s stubResolver) Resolve(context.Context, string) (crawler.Result, error) {
	return s.result, s.err
}

type failingRepo struct {
	repository.Memory
	err error
}

func (f *failingRepo) List(context.Context) (teams.Collection, error) { return nil, f.err }

func (f *failingRepo) SetEnabled(context.Context, int64, bool) error { return f.err }

func newRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", h.Health)
	r.Get("/api/teams", h.ListTeams)
	r.Post("/api/teams", h.CreateTeam)
	r.Patch("/api/teams/{id}/flip_status", h.FlipStatus)
	return r
}

func seeded(t *testing.T, names ...string) *repository.Memory {
	t.Helper()
	repo := repository.NewMemory()
	for _, name := range names {
		_, err := repo.Create(context.Background(), "https://example.com/"+name, name)
		require.NoError(t, err)
	}
	return repo
}

func TestHealth(t *testing.T) {
	h := NewHandler(repository.NewMemory(), nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodGet, "/api/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(repository.NewMemory(), nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, "shutting down", resp.Error)
}

func TestListTeamsEmptyIsArray(t *testing.T) {
	h := NewHandler(repository.NewMemory(), nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodGet, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestListTeamsReturnsInsertionOrder(t *testing.T) {
	h := NewHandler(seeded(t, "A", "B"), nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodGet, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var got teams.Collection
	testutil.DecodeJSON(t, rr, &got)
	require.Len(t, got, 2)
	assert.Equal(t, teams.Team{ID: 1, URL: "https://example.com/A", Name: "A", Enabled: true}, got[0])
	assert.Equal(t, "B", got[1].Name)
}

func TestListTeamsRepositoryFailure(t *testing.T) {
	h := NewHandler(&failingRepo{err: errors.New("db down")}, nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodGet, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestCreateTeamStoresResolvedTeam(t *testing.T) {
	repo := repository.NewMemory()
	resolver := stubResolver{result: crawler.Result{ScheduleURL: "https://x/teams/1/schedule", Name: "Kashima"}}
	h := NewHandler(repo, resolver, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodPost, "/api/teams", strings.NewReader(`{"url":"https://x/team/1"}`))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	all, _ := repo.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, "Kashima", all[0].Name)
	assert.Equal(t, "https://x/teams/1/schedule", all[0].URL)
	assert.True(t, all[0].Enabled)
}

func TestCreateTeamValidation(t *testing.T) {
	h := NewHandler(repository.NewMemory(), nil, nil, nil)

	cases := map[string]string{
		"malformed": `{"url":`,
		"missing":   `{}`,
		"empty":     `{"url":""}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := testutil.Serve(newRoutes(h), http.MethodPost, "/api/teams", strings.NewReader(body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestCreateTeamResolveFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported", crawler.ErrUnsupportedURL, http.StatusUnprocessableEntity},
		{"no name", crawler.ErrNoTeamName, http.StatusUnprocessableEntity},
		{"upstream", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewMemory()
			h := NewHandler(repo, stubResolver{err: tc.err}, nil, nil)

			rr := testutil.Serve(newRoutes(h), http.MethodPost, "/api/teams", strings.NewReader(`{"url":"v"}`))
			testutil.AssertStatus(t, rr, tc.want)

			all, _ := repo.List(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestFlipStatusSetsRequestedValue(t *testing.T) {
	repo := seeded(t, "A")
	h := NewHandler(repo, nil, nil, nil)

	for _, body := range []string{`{"enabled":false}`, `{"enabled":false}`} {
		rr := testutil.Serve(newRoutes(h), http.MethodPatch, "/api/teams/1/flip_status", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	}

	all, _ := repo.List(context.Background())
	assert.False(t, all[0].Enabled)
}

func TestFlipStatusWithoutBodyNegates(t *testing.T) {
	repo := seeded(t, "A")
	h := NewHandler(repo, nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodPatch, "/api/teams/1/flip_status", nil)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	all, _ := repo.List(context.Background())
	assert.False(t, all[0].Enabled)
}

func TestFlipStatusErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown id", "/api/teams/9/flip_status", `{"enabled":true}`, http.StatusNotFound},
		{"unknown id without body", "/api/teams/9/flip_status", "", http.StatusNotFound},
		{"bad id", "/api/teams/abc/flip_status", `{"enabled":true}`, http.StatusBadRequest},
		{"zero id", "/api/teams/0/flip_status", `{"enabled":true}`, http.StatusBadRequest},
		{"malformed body", "/api/teams/1/flip_status", `{"enabled":`, http.StatusBadRequest},
		{"missing enabled", "/api/teams/1/flip_status", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(seeded(t, "A"), nil, nil, nil)
			rr := testutil.Serve(newRoutes(h), http.MethodPatch, tc.path, strings.NewReader(tc.body))
			testutil.AssertStatus(t, rr, tc.want)
		})
	}
}

func TestFlipStatusRepositoryFailure(t *testing.T) {
	h := NewHandler(&failingRepo{err: errors.New("db down")}, nil, nil, nil)

	rr := testutil.Serve(newRoutes(h), http.MethodPatch, "/api/teams/1/flip_status", strings.NewReader(`{"enabled":true}`))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}
