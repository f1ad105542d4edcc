package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksRemoteCallsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRemoteCall("list", 10*time.Millisecond, nil)
	rec.RecordRemoteCall("list", 15*time.Millisecond, errors.New("boom"))

	if got := rec.RemoteCalls("list"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.RemoteErrors("list"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.Snapshot("list")
	if snap.Calls != 2 || snap.Errors != 1 || snap.LastCallLatency != 15*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := rec.Snapshot("flip"); got != (Snapshot{}) {
		t.Fatalf("expected empty snapshot for unknown op, got %+v", got)
	}
}

func TestRecorderTracksMutationOutcomes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordMutation("toggle", OutcomeCommitted)
	rec.RecordMutation("toggle", OutcomeRolledBack)
	rec.RecordMutation("toggle", OutcomeRolledBack)
	rec.RecordMutation("create", OutcomeRejected)

	if got := rec.Mutations("toggle"); got.Committed != 1 || got.RolledBack != 2 {
		t.Fatalf("unexpected toggle outcomes %+v", got)
	}
	if got := rec.Mutations("create"); got.Rejected != 1 {
		t.Fatalf("unexpected create outcomes %+v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordRemoteCall("list", time.Millisecond, nil)
	rec.RecordMutation("toggle", OutcomeCommitted)
	rec.RecordHTTPRequest("GET", "/api/teams", 200, time.Millisecond)
	rec.RecordPollerCycle(time.Millisecond, nil)
	if rec.RemoteCalls("list") != 0 {
		t.Fatal("expected zero calls from nil recorder")
	}
}
