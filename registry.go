package taskqueue

import (
	"bytes"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// registry tracks items that have left the pending sequence and are
// currently executing, keyed by item id.
//
// When both locks are needed, Queue.mu is always acquired before
// registry.mu.
type registry struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*CancelHandle
}

func newRegistry() *registry {
	return &registry{items: make(map[uuid.UUID]*CancelHandle)}
}

// Register records id as running. A stale entry for the same id is
// overwritten.
func (r *registry) Register(id uuid.UUID, h *CancelHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = h
}

// Unregister removes id; it is a no-op if id is not running.
func (r *registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Cancel requests cancellation of a running item and keeps it registered.
func (r *registry) Cancel(id uuid.UUID) bool {
	r.mu.RLock()
	h, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	h.Cancel()
	return true
}

// CancelAndRemove requests cancellation of a running item and drops it
// from the registry.
func (r *registry) CancelAndRemove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[id]
	if !ok {
		return false
	}
	h.Cancel()
	delete(r.items, id)
	return true
}

// List returns a snapshot of running ids in byte order.
func (r *registry) List() []uuid.UUID {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
