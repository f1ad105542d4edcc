package cache

import "sync"

// Cache holds fetched values keyed by fetch key, together with their load state and
// an optional prediction overlay. An entry is created on first Subscribe (or first
// write) and torn down when its last subscriber unsubscribes.
//
// Every transition is published to the key's listeners before the next transition
// starts, so listeners observe transitions in the order they were applied.
// Listeners may read the cache but must not call its writers.
type Cache[T any] struct {
	// emitMu serializes write-and-publish sequences; mu guards entries.
	emitMu sync.Mutex
	mu     sync.RWMutex

	entries map[string]*entry[T]
	nextID  uint64
	clone   func(T) T
}

type entry[T any] struct {
	status     Status
	confirmed  T
	prediction T
	predicted  bool
	// overlay identifies the mutation whose prediction is installed.
	overlay    uint64
	validating bool
	mutating   int
	stale      bool
	err        error
	version    uint64

	listeners []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// New constructs an empty cache. clone must return a copy of a value that shares no
// mutable state with the original; nil means values are copied by assignment.
func New[T any](clone func(T) T) *Cache[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Cache[T]{
		entries: make(map[string]*entry[T]),
		clone:   clone,
	}
}

// Subscribe registers fn for transitions of key and returns the function that removes it.
// Removing the last listener drops the entry and its data.
func (c *Cache[T]) Subscribe(key string, fn Listener[T]) (unsubscribe func()) {
	c.mu.Lock()
	e := c.ensure(key)
	c.nextID++
	id := c.nextID
	e.listeners = append(e.listeners, subscription[T]{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(key, id) })
	}
}

func (c *Cache[T]) unsubscribe(key string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	for i, sub := range e.listeners {
		if sub.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			break
		}
	}
	if len(e.listeners) == 0 {
		delete(c.entries, key)
	}
}

// Subscribers returns the number of listeners registered for key.
func (c *Cache[T]) Subscribers(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok {
		return len(e.listeners)
	}
	return 0
}

// Get returns the current snapshot of key. Unknown keys report StatusAbsent.
func (c *Cache[T]) Get(key string) Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot[T]{Key: key, Status: StatusAbsent}
	}
	return c.snapshot(key, e)
}

// BeginLoad marks a fetch of key as started: absent or failed entries become
// loading, ready entries keep their data and are flagged as validating.
func (c *Cache[T]) BeginLoad(key string) {
	c.update(key, func(e *entry[T]) {
		if e.status == StatusReady {
			e.validating = true
			return
		}
		e.status = StatusLoading
		e.err = nil
	})
}

// Replace installs v as the authoritative value of key. A prediction overlay that
// belongs to an in-flight mutation stays visible until that mutation settles.
func (c *Cache[T]) Replace(key string, v T) {
	c.update(key, func(e *entry[T]) {
		e.status = StatusReady
		e.confirmed = c.clone(v)
		e.validating = false
		e.stale = false
		e.err = nil
	})
}

// Fail records a failed fetch of key. The whole entry moves to StatusError; no part of
// the failed response is published.
func (c *Cache[T]) Fail(key string, err error) {
	c.update(key, func(e *entry[T]) {
		e.status = StatusError
		e.validating = false
		e.err = err
	})
}

// Invalidate marks key as stale without discarding its data.
func (c *Cache[T]) Invalidate(key string) {
	c.update(key, func(e *entry[T]) {
		e.stale = true
	})
}

// BeginMutation counts a mutation of key that publishes no prediction.
func (c *Cache[T]) BeginMutation(key string) {
	c.update(key, func(e *entry[T]) {
		e.mutating++
	})
}

// EndMutation ends a mutation started with BeginMutation.
func (c *Cache[T]) EndMutation(key string) {
	c.update(key, func(e *entry[T]) {
		if e.mutating > 0 {
			e.mutating--
		}
	})
}

// Predict installs v as the visible prediction of key, replacing any earlier overlay.
// It returns the confirmed value to roll back to and a token that identifies the
// mutation in Settle and Rollback.
func (c *Cache[T]) Predict(key string, v T) (rollback T, token uint64) {
	c.update(key, func(e *entry[T]) {
		c.nextID++
		token = c.nextID
		rollback = c.clone(e.confirmed)
		e.prediction = c.clone(v)
		e.predicted = true
		e.overlay = token
		e.mutating++
	})
	return rollback, token
}

// Settle ends the mutation identified by token with the authoritative value v.
func (c *Cache[T]) Settle(key string, token uint64, v T) {
	c.update(key, func(e *entry[T]) {
		e.status = StatusReady
		e.confirmed = c.clone(v)
		e.err = nil
		e.stale = false
		c.endOverlay(e, token)
	})
}

// Rollback ends the mutation identified by token by restoring previous exactly.
func (c *Cache[T]) Rollback(key string, token uint64, previous T) {
	c.update(key, func(e *entry[T]) {
		e.confirmed = c.clone(previous)
		c.endOverlay(e, token)
	})
}

func (c *Cache[T]) endOverlay(e *entry[T], token uint64) {
	if e.mutating > 0 {
		e.mutating--
	}
	if e.predicted && e.overlay == token {
		var zero T
		e.prediction = zero
		e.predicted = false
		e.overlay = 0
	}
}

// update applies fn to key's entry and publishes the resulting snapshot.
func (c *Cache[T]) update(key string, fn func(e *entry[T])) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	e := c.ensure(key)
	fn(e)
	e.version++
	listeners := make([]Listener[T], 0, len(e.listeners))
	for _, sub := range e.listeners {
		listeners = append(listeners, sub.fn)
	}
	var snaps []Snapshot[T]
	for range listeners {
		snaps = append(snaps, c.snapshot(key, e))
	}
	c.mu.Unlock()

	for i, fn := range listeners {
		fn(snaps[i])
	}
}

func (c *Cache[T]) ensure(key string) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}
	return e
}

// snapshot copies e; callers hold mu.
func (c *Cache[T]) snapshot(key string, e *entry[T]) Snapshot[T] {
	snap := Snapshot[T]{
		Key:        key,
		Status:     e.status,
		Confirmed:  c.clone(e.confirmed),
		Predicted:  e.predicted,
		Validating: e.validating,
		Mutating:   e.mutating,
		Stale:      e.stale,
		Err:        e.err,
		Version:    e.version,
	}
	if e.predicted {
		snap.Data = c.clone(e.prediction)
	} else {
		snap.Data = c.clone(e.confirmed)
	}
	return snap
}
