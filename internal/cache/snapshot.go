package cache

// Snapshot is a read-only copy of one cache entry.
type Snapshot[T any] struct {
	Key    string
	Status Status
	// Data is what should be displayed: the prediction overlay while one is
	// installed, the confirmed value otherwise.
	Data      T
	Confirmed T
	// Predicted is true while Data is an unconfirmed prediction.
	Predicted  bool
	Validating bool
	Mutating   int
	Stale      bool
	Err        error
	// Version increases by one on every transition of the entry.
	Version uint64
}

// Ready reports whether the entry holds a confirmed value that can be rendered.
func (s Snapshot[T]) Ready() bool {
	return s.Status == StatusReady
}

// Listener receives a snapshot after every transition of the subscribed key.
type Listener[T any] func(Snapshot[T])
