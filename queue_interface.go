package taskqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidArgument is returned when Enqueue receives a nil WorkFunc.
	ErrInvalidArgument = errors.New("queue: invalid argument: work func is nil")

	// ErrCancelled is returned by Dequeue when its context ends before an
	// item becomes available. It is joined with the context error.
	ErrCancelled = errors.New("queue: dequeue cancelled")

	// ErrClosed is returned by Enqueue after Close, and by Dequeue once the
	// queue is closed and drained.
	ErrClosed = errors.New("queue: queue is closed")

	// ErrItemCancelled is the cancellation cause seen by an executable
	// whose own handle was cancelled.
	ErrItemCancelled = errors.New("queue: item cancelled")
)

// WorkFunc is the deferred computation carried by an item.
//
// The context is cancelled when the item is cancelled by id or when the
// caller running the item (usually the Dispatcher) is stopped.
type WorkFunc func(ctx context.Context) error

// Item is a single unit of work stored in the queue.
//
// All fields are set by Enqueue and never change afterwards.
type Item struct {
	ID          uuid.UUID
	Description string
	Fn          WorkFunc
	Handle      *CancelHandle
}

// PendingItem is the read-only view of a queued item returned by Pending.
type PendingItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Cancelled   bool      `json:"cancelled"`
}

// ExecError describes a failed execution of an item.
type ExecError struct {
	ID          uuid.UUID
	Description string
	Err         error

	// Panic holds the recovered value when the executable panicked.
	Panic any
}

func (e *ExecError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("queue: item %s (%s) panicked: %v", e.ID, e.Description, e.Panic)
	}
	return fmt.Sprintf("queue: item %s (%s) failed: %v", e.ID, e.Description, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

func cancelledErr(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
