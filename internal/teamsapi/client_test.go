package teamsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListTeamsDecodesCollection(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet || req.URL.Path != "/api/teams" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[{"id":1,"url":"u","name":"N","enabled":false},{"id":2,"url":"v","name":"M","enabled":true}]`), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com/", HTTPClient: &http.Client{Transport: rt}})

	list, err := client.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].Name != "M" || !list[1].Enabled {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestListTeamsEmptyArrayIsNotNil(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "[]\n"), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	list, err := client.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestListTeamsRejectsBodiesThatAreNotOneArray(t *testing.T) {
	bodies := map[string]string{
		"null":             `null`,
		"trailing garbage": `[{"id":1,"url":"u","name":"N","enabled":true}] trailing-garbage`,
		"truncated second": `[{"id":1}]{"x":`,
		"second array":     `[][]`,
		"object":           `{"id":1}`,
	}
	for name, body := range bodies {
		body := body
		rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})
		client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

		list, err := client.ListTeams(context.Background())
		if !errors.Is(err, ErrMalformedBody) {
			t.Fatalf("%s: expected malformed body error, got list=%+v err=%v", name, list, err)
		}
		if list != nil {
			t.Fatalf("%s: expected no partial list, got %+v", name, list)
		}
	}
}

func TestListTeamsHandlesNon2xx(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "boom"), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	_, err := client.ListTeams(context.Background())
	statusErr, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "boom" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestListTeamsHandlesMalformedBody(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{bad json`), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if _, err := client.ListTeams(context.Background()); !errors.Is(err, ErrMalformedBody) {
		t.Fatalf("expected malformed body error, got %v", err)
	}
}

func TestListTeamsWrapsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if _, err := client.ListTeams(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestCreateTeamPostsURL(t *testing.T) {
	var captured createTeamRequest
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/teams" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected json content type, got %s", ct)
		}
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"url":"ignored"}`), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if err := client.CreateTeam(context.Background(), "https://example.com/team/1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if captured.URL != "https://example.com/team/1" {
		t.Fatalf("unexpected body %+v", captured)
	}
}

func TestFlipStatusPatchesDesiredValue(t *testing.T) {
	var captured flipStatusRequest
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPatch || req.URL.Path != "/api/teams/42/flip_status" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Header: make(http.Header)}, nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if err := client.FlipStatus(context.Background(), 42, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !captured.Enabled {
		t.Fatal("expected enabled=true in body")
	}
}

func TestFlipStatusServerError(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error":"db down"}`), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	err := client.FlipStatus(context.Background(), 1, true)
	statusErr, ok := AsStatusError(err)
	if !ok || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 status error, got %v", err)
	}
	if !strings.Contains(err.Error(), "PATCH /api/teams/1/flip_status") {
		t.Fatalf("expected method and path in message, got %q", err.Error())
	}
}

func TestHealthReportsStatus(t *testing.T) {
	status := http.StatusServiceUnavailable
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/health" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(status, "OK"), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected error for 503")
	}
	status = http.StatusOK
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
}

func TestNewClientSetsDefaultHTTPClient(t *testing.T) {
	c := NewClient(Config{})
	httpClient, ok := c.httpClient.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client")
	}
	if httpClient.Timeout == 0 {
		t.Fatalf("expected timeout to be set on default http client")
	}
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", c.baseURL)
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}
