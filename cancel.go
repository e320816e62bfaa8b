package taskqueue

import (
	"context"
)

// CancelHandle owns the cancellation state of one item.
//
// Cancellation is irreversible and idempotent.
type CancelHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newCancelHandle() *CancelHandle {
	ctx, cancel := context.WithCancel(context.Background())
	return &CancelHandle{ctx: ctx, cancel: cancel}
}

// Cancel requests cancellation of the item.
func (h *CancelHandle) Cancel() { h.cancel() }

// Cancelled reports whether Cancel has been called.
func (h *CancelHandle) Cancelled() bool { return h.ctx.Err() != nil }

// Done is closed once the handle is cancelled.
func (h *CancelHandle) Done() <-chan struct{} { return h.ctx.Done() }

// Context derives a context from parent that is also cancelled when the
// handle is cancelled. context.Cause reports ErrItemCancelled in that case.
//
// The returned CancelFunc must be called once the context is no longer used.
func (h *CancelHandle) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	if h.Cancelled() {
		cancel(ErrItemCancelled)
		return ctx, func() {}
	}
	stop := context.AfterFunc(h.ctx, func() { cancel(ErrItemCancelled) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
