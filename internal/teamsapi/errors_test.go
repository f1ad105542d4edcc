package teamsapi

import (
	"fmt"
	"testing"
)

func TestStatusErrorString(t *testing.T) {
	err := &StatusError{Method: "GET", Path: "/api/teams", StatusCode: 500, Body: "boom"}
	if got := err.Error(); got != "teamsapi: GET /api/teams: unexpected status 500: boom" {
		t.Fatalf("unexpected message %q", got)
	}

	wrapped := fmt.Errorf("load: %w", err)
	se, ok := AsStatusError(wrapped)
	if !ok || se.StatusCode != 500 {
		t.Fatalf("expected to unwrap status error")
	}

	noBody := &StatusError{Method: "GET", Path: "/api/teams", StatusCode: 404}
	if got := noBody.Error(); got != "teamsapi: GET /api/teams: unexpected status 404" {
		t.Fatalf("unexpected message %q", got)
	}
}
