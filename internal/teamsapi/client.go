package teamsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// Config controls how the client reaches the teams API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the teams REST API.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

// NewClient constructs a teams API client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// ListTeams fetches the authoritative team list. Any non-2xx status or undecodable
// body is an error; a partial list is never returned.
func (c *Client) ListTeams(ctx context.Context) (teams.Collection, error) {
	resp, err := c.do(ctx, http.MethodGet, teamsPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The body must be exactly one JSON array: null and trailing data are rejected.
	dec := json.NewDecoder(resp.Body)
	var payload teams.Collection
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: expected array, got null", ErrMalformedBody)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedBody)
	}
	return payload, nil
}

// CreateTeam registers a new team by URL.
func (c *Client) CreateTeam(ctx context.Context, url string) error {
	return c.send(ctx, http.MethodPost, teamsPath, createTeamRequest{URL: url})
}

// FlipStatus asks the server to set the team's enabled flag to the desired value.
func (c *Client) FlipStatus(ctx context.Context, id int64, enabled bool) error {
	path := teamsPath + "/" + strconv.FormatInt(id, 10) + "/flip_status"
	return c.send(ctx, http.MethodPatch, path, flipStatusRequest{Enabled: enabled})
}

// Health reports whether the server answers its health endpoint with a 2xx status.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("teamsapi: encode %s %s: %w", method, path, err)
	}
	resp, err := c.do(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// do executes the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("teamsapi: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teamsapi: %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()
}
