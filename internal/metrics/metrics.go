package metrics

import (
	"sync"
	"time"
)

// Mutation outcomes recorded by RecordMutation.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
)

type remoteStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

type mutationStats struct {
	committed  int
	rolledBack int
	rejected   int
}

// Recorder captures lightweight, in-memory metrics about remote calls and mutations.
// When telemetry is enabled the same events are forwarded to OpenTelemetry instruments.
type Recorder struct {
	mu        sync.Mutex
	remote    map[string]*remoteStats
	mutations map[string]*mutationStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		remote:    make(map[string]*remoteStats),
		mutations: make(map[string]*mutationStats),
		otel:      otel,
	}
}

// RecordRemoteCall increments counters for a teams API call and stores the last observed latency.
func (r *Recorder) RecordRemoteCall(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.remote[op]
	if !ok {
		stats = &remoteStats{}
		r.remote[op] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRemoteCall(op, duration, err)
	}
}

// RecordMutation tracks how an optimistic mutation of the given kind ended.
func (r *Recorder) RecordMutation(kind, outcome string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.mutations[kind]
	if !ok {
		stats = &mutationStats{}
		r.mutations[kind] = stats
	}
	switch outcome {
	case OutcomeCommitted:
		stats.committed++
	case OutcomeRolledBack:
		stats.rolledBack++
	case OutcomeRejected:
		stats.rejected++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordMutation(kind, outcome)
	}
}

// Snapshot is a copy of the current stats for one remote operation.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

// MutationSnapshot is a copy of the outcome counters for one mutation kind.
type MutationSnapshot struct {
	Committed  int
	RolledBack int
	Rejected   int
}

// Snapshot returns a copy of the current stats for the remote operation.
func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.remote[op]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// Mutations returns a copy of the outcome counters for the mutation kind.
func (r *Recorder) Mutations(kind string) MutationSnapshot {
	if r == nil {
		return MutationSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.mutations[kind]
	if !ok || stats == nil {
		return MutationSnapshot{}
	}
	return MutationSnapshot{
		Committed:  stats.committed,
		RolledBack: stats.rolledBack,
		Rejected:   stats.rejected,
	}
}

// RemoteCalls returns the total attempts recorded for an operation.
func (r *Recorder) RemoteCalls(op string) int {
	return r.Snapshot(op).Calls
}

// RemoteErrors returns the failed attempts recorded for an operation.
func (r *Recorder) RemoteErrors(op string) int {
	return r.Snapshot(op).Errors
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks revalidation cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}
