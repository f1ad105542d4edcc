package cache

import (
	"errors"
	"sync"
	"testing"
)

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}
	out := make([]int, len(v))
	copy(out, v)
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGetUnknownKeyIsAbsent(t *testing.T) {
	c := New[[]int](cloneInts)
	snap := c.Get("/k")
	if snap.Status != StatusAbsent || snap.Key != "/k" {
		t.Fatalf("expected absent snapshot, got %+v", snap)
	}
}

func TestLoadLifecycle(t *testing.T) {
	c := New[[]int](cloneInts)
	var seen []Status
	unsub := c.Subscribe("/k", func(s Snapshot[[]int]) { seen = append(seen, s.Status) })
	defer unsub()

	c.BeginLoad("/k")
	c.Replace("/k", []int{1, 2})

	if len(seen) != 2 || seen[0] != StatusLoading || seen[1] != StatusReady {
		t.Fatalf("expected loading then ready, got %v", seen)
	}
	if got := c.Get("/k").Data; !equalInts(got, []int{1, 2}) {
		t.Fatalf("unexpected data %v", got)
	}
}

func TestBeginLoadOnReadyEntryValidates(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/k", []int{1})
	c.BeginLoad("/k")

	snap := c.Get("/k")
	if snap.Status != StatusReady || !snap.Validating {
		t.Fatalf("expected ready+validating, got %+v", snap)
	}
	if !equalInts(snap.Data, []int{1}) {
		t.Fatalf("expected data kept while validating, got %v", snap.Data)
	}
}

func TestFailMovesToError(t *testing.T) {
	c := New[[]int](cloneInts)
	c.BeginLoad("/k")
	boom := errors.New("boom")
	c.Fail("/k", boom)

	snap := c.Get("/k")
	if snap.Status != StatusError || !errors.Is(snap.Err, boom) {
		t.Fatalf("expected error status, got %+v", snap)
	}

	c.BeginLoad("/k")
	if snap := c.Get("/k"); snap.Status != StatusLoading || snap.Err != nil {
		t.Fatalf("expected reload to clear error, got %+v", snap)
	}
}

func TestPredictOverlaysUntilSettled(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/k", []int{0})

	rollback, token := c.Predict("/k", []int{1})
	if !equalInts(rollback, []int{0}) {
		t.Fatalf("expected rollback to confirmed value, got %v", rollback)
	}
	snap := c.Get("/k")
	if !snap.Predicted || !equalInts(snap.Data, []int{1}) || !equalInts(snap.Confirmed, []int{0}) {
		t.Fatalf("expected prediction visible over confirmed, got %+v", snap)
	}
	if snap.Mutating != 1 {
		t.Fatalf("expected one mutation in flight, got %d", snap.Mutating)
	}

	c.Settle("/k", token, []int{2})
	snap = c.Get("/k")
	if snap.Predicted || !equalInts(snap.Data, []int{2}) || snap.Mutating != 0 {
		t.Fatalf("expected settled authoritative value, got %+v", snap)
	}
}

func TestRollbackRestoresPrevious(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/k", []int{0})

	rollback, token := c.Predict("/k", []int{1})
	c.Rollback("/k", token, rollback)

	snap := c.Get("/k")
	if snap.Predicted || !equalInts(snap.Data, []int{0}) {
		t.Fatalf("expected rollback to previous value, got %+v", snap)
	}
}

func TestReplaceKeepsPendingPrediction(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/k", []int{0})
	_, token := c.Predict("/k", []int{1})

	c.Replace("/k", []int{5})
	snap := c.Get("/k")
	if !snap.Predicted || !equalInts(snap.Data, []int{1}) || !equalInts(snap.Confirmed, []int{5}) {
		t.Fatalf("expected prediction to stay visible over revalidated data, got %+v", snap)
	}

	c.Settle("/k", token, []int{1})
	if snap := c.Get("/k"); snap.Predicted {
		t.Fatalf("expected overlay cleared after settle, got %+v", snap)
	}
}

func TestSettleOfOlderMutationKeepsNewerOverlay(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/k", []int{0, 0})
	_, first := c.Predict("/k", []int{1, 0})
	_, second := c.Predict("/k", []int{0, 1})

	c.Settle("/k", first, []int{1, 0})
	snap := c.Get("/k")
	if !snap.Predicted || !equalInts(snap.Data, []int{0, 1}) {
		t.Fatalf("expected newer prediction still visible, got %+v", snap)
	}

	c.Settle("/k", second, []int{1, 1})
	snap = c.Get("/k")
	if snap.Predicted || !equalInts(snap.Data, []int{1, 1}) || snap.Mutating != 0 {
		t.Fatalf("expected final authoritative value, got %+v", snap)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	c := New[[]int](cloneInts)
	input := []int{1}
	c.Replace("/k", input)
	input[0] = 99

	snap := c.Get("/k")
	snap.Data[0] = 42
	if got := c.Get("/k").Data; !equalInts(got, []int{1}) {
		t.Fatalf("expected cache isolated from caller slices, got %v", got)
	}
}

func TestSubscribersReceiveEveryTransitionInOrder(t *testing.T) {
	c := New[[]int](cloneInts)
	var versions []uint64
	unsub := c.Subscribe("/k", func(s Snapshot[[]int]) { versions = append(versions, s.Version) })
	defer unsub()

	c.BeginLoad("/k")
	c.Replace("/k", []int{1})
	c.Invalidate("/k")

	if len(versions) != 3 {
		t.Fatalf("expected 3 notifications, got %v", versions)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] != versions[i-1]+1 {
			t.Fatalf("expected consecutive versions, got %v", versions)
		}
	}
	if !c.Get("/k").Stale {
		t.Fatal("expected entry to be stale after invalidate")
	}
}

func TestLastUnsubscribeTearsDownEntry(t *testing.T) {
	c := New[[]int](cloneInts)
	unsubA := c.Subscribe("/k", func(Snapshot[[]int]) {})
	unsubB := c.Subscribe("/k", func(Snapshot[[]int]) {})
	c.Replace("/k", []int{1})

	unsubA()
	unsubA()
	if c.Subscribers("/k") != 1 {
		t.Fatalf("expected one subscriber left, got %d", c.Subscribers("/k"))
	}
	if c.Get("/k").Status != StatusReady {
		t.Fatal("expected entry kept while a subscriber remains")
	}

	unsubB()
	if c.Get("/k").Status != StatusAbsent {
		t.Fatal("expected entry torn down after last unsubscribe")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New[[]int](cloneInts)
	c.Replace("/a", []int{1})
	c.Fail("/b", errors.New("boom"))

	if c.Get("/a").Status != StatusReady || c.Get("/b").Status != StatusError {
		t.Fatalf("expected independent entries, got a=%s b=%s", c.Get("/a").Status, c.Get("/b").Status)
	}
}

func TestListenerMayReadCache(t *testing.T) {
	c := New[[]int](cloneInts)
	var got Status
	unsub := c.Subscribe("/k", func(s Snapshot[[]int]) { got = c.Get("/k").Status })
	defer unsub()

	c.Replace("/k", []int{1})
	if got != StatusReady {
		t.Fatalf("expected listener to read current state, got %s", got)
	}
}

func TestConcurrentWritersPublishSerially(t *testing.T) {
	c := New[[]int](cloneInts)
	var (
		mu       sync.Mutex
		versions []uint64
	)
	unsub := c.Subscribe("/k", func(s Snapshot[[]int]) {
		mu.Lock()
		versions = append(versions, s.Version)
		mu.Unlock()
	})
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Replace("/k", []int{i})
		}(i)
	}
	wg.Wait()

	if len(versions) != 50 {
		t.Fatalf("expected 50 notifications, got %d", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Fatalf("expected strictly increasing versions, got %v", versions)
		}
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusAbsent:  "absent",
		StatusLoading: "loading",
		StatusReady:   "ready",
		StatusError:   "error",
		Status(99):    "unknown",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Fatalf("expected %s, got %s", want, s.String())
		}
	}
}
