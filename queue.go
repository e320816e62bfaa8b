package taskqueue

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Queue is a thread-safe FIFO of cancellable work items.
//
// Any number of goroutines may Enqueue, inspect, cancel, remove or run
// items by id concurrently. Normally a single Dispatcher drains the queue
// through Dequeue.
type Queue struct {
	mu      sync.Mutex
	ready   *sync.Cond // signalled when an item is pushed or the queue closes
	pending *fifoQueue
	closed  bool

	running *registry
	opts    Options
}

// NewQueue creates an empty queue. Zero Options are valid.
func NewQueue(opts Options) *Queue {
	opts.FillDefaults()
	q := &Queue{
		pending: newFifoQueue(opts.InitialCapacity),
		running: newRegistry(),
		opts:    opts,
	}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends fn to the tail of the queue and returns its id without
// waiting for execution.
func (q *Queue) Enqueue(fn WorkFunc, description string) (uuid.UUID, error) {
	if fn == nil {
		return uuid.Nil, ErrInvalidArgument
	}
	it := Item{
		ID:          uuid.New(),
		Description: description,
		Fn:          fn,
		Handle:      newCancelHandle(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		it.Handle.Cancel()
		return uuid.Nil, ErrClosed
	}
	q.pending.Push(it)
	q.opts.Metrics.IncQueued()
	q.ready.Signal()
	return it.ID, nil
}

// Dequeue blocks until an item is available and removes the head of the
// queue. If ctx ends first it returns an error matching both ErrCancelled
// and ctx.Err(), and nothing is removed.
//
// The returned item is not tracked as running; callers that execute it
// themselves own its lifecycle.
func (q *Queue) Dequeue(ctx context.Context) (Item, error) {
	return q.take(ctx, false)
}

// take implements Dequeue. With markRunning set the item is registered as
// running before the pending lock is released.
func (q *Queue) take(ctx context.Context, markRunning bool) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, cancelledErr(err)
	}
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.ready.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.pending.Len() == 0 {
		if q.closed {
			return Item{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return Item{}, cancelledErr(err)
		}
		q.ready.Wait()
	}

	it, _ := q.pending.Pop()
	q.opts.Metrics.DecQueued()
	if markRunning {
		q.running.Register(it.ID, it.Handle)
	}
	return it, nil
}

// Pending returns a snapshot of queued items in dispatch order.
func (q *Queue) Pending() []PendingItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]PendingItem, 0, q.pending.Len())
	q.pending.Range(func(it Item) bool {
		out = append(out, PendingItem{
			ID:          it.ID,
			Description: it.Description,
			Cancelled:   it.Handle.Cancelled(),
		})
		return true
	})
	return out
}

// Running returns a snapshot of the ids currently executing.
func (q *Queue) Running() []uuid.UUID {
	return q.running.List()
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// Cancel requests cancellation of the item with the given id, whether it
// is still pending or already running. A pending item stays in the queue
// and is dispatched in its turn with a cancelled context.
func (q *Queue) Cancel(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if it, ok := q.pending.Find(id); ok {
		it.Handle.Cancel()
		return true
	}
	return q.running.Cancel(id)
}

// Remove drops a pending item without running it. The order of the other
// pending items is preserved.
func (q *Queue) Remove(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	it, ok := q.pending.Remove(id)
	if !ok {
		return false
	}
	it.Handle.Cancel()
	q.opts.Metrics.DecQueued()
	return true
}

// CancelRunning cancels a running item and stops tracking it. Any pending
// reference with the same id is dropped as well. The executable keeps
// running until it observes the cancellation.
func (q *Queue) CancelRunning(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running.CancelAndRemove(id) {
		return false
	}
	if _, ok := q.pending.Remove(id); ok {
		q.opts.Metrics.DecQueued()
	}
	return true
}

// ExecuteNow runs a pending item synchronously on the calling goroutine,
// bypassing FIFO order and the Dispatcher. It reports false if no pending
// item has that id. The returned error is the item's execution failure,
// if any, as an *ExecError.
//
// The item context is derived from ctx and from the item's handle.
func (q *Queue) ExecuteNow(ctx context.Context, id uuid.UUID) (bool, error) {
	q.mu.Lock()
	it, ok := q.pending.Remove(id)
	if ok {
		q.opts.Metrics.DecQueued()
		q.running.Register(it.ID, it.Handle)
	}
	q.mu.Unlock()
	if !ok {
		return false, nil
	}

	defer q.running.Unregister(it.ID)
	err := execute(ctx, it)
	q.observe(ctx, it, err)
	return true, err
}

// Close stops accepting new items and wakes every blocked Dequeue.
// Items already pending can still be dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.ready.Broadcast()
}

// Stats returns the metrics snapshot if the queue was configured with
// AtomicMetrics; ok is false otherwise.
func (q *Queue) Stats() (MetricsSnapshot, bool) {
	m, ok := q.opts.Metrics.(*AtomicMetrics)
	if !ok {
		return MetricsSnapshot{}, false
	}
	s := m.Snapshot()
	s.Running = q.running.Len()
	return s, true
}
