package state

import (
	"context"
	"sync"
)

// Store guards a Status and notifies watchers when it changes.
type Store struct {
	mu      sync.Mutex
	status  Status
	changed chan struct{}
}

// NewStore creates a store holding the initial status.
func NewStore() *Store {
	return &Store{status: Initial(), changed: make(chan struct{})}
}

// Snapshot returns a copy of the current status.
func (st *Store) Snapshot() Status {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.status
}

// Changed returns a channel that is closed on the next accepted event.
func (st *Store) Changed() <-chan struct{} {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.changed
}

// Dispatch applies e and returns the resulting status.
func (st *Store) Dispatch(e Event) (Status, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dispatchLocked(e)
}

// StartLoad applies LoadStarted and returns the token of the new load.
func (st *Store) StartLoad() uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, _ := st.dispatchLocked(LoadStarted{})
	return s.latestLoad
}

// Complete applies done, or cancelled if ctx has been cancelled. The check
// and the update happen under one lock, so a cancelled operation never
// applies its result. A nil cancelled event makes cancellation a no-op.
func (st *Store) Complete(ctx context.Context, done, cancelled Event) (Status, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if ctx.Err() != nil {
		return st.dispatchLocked(cancelled)
	}
	return st.dispatchLocked(done)
}

func (st *Store) dispatchLocked(e Event) (Status, bool) {
	next, ok := Apply(st.status, e)
	if !ok {
		return st.status, false
	}
	st.status = next
	close(st.changed)
	st.changed = make(chan struct{})
	return st.status, true
}
