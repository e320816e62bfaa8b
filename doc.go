// Package taskqueue provides an in-memory, cancellable work queue
// drained by a single background dispatcher.
//
// # Design goals
//
// The package is designed around the following principles:
//
//   - Strict FIFO dispatch for everything that is not addressed by id
//   - Every queued item can be cancelled, removed or run out of order
//   - No wake-up is ever lost and no stale wake-up is ever produced
//   - One failing item never stops the dispatcher
//
// # Architecture overview
//
// The queue is composed of four small pieces:
//
//  1. Pending sequence (fifoQueue)
//     A growable circular buffer holding items in insertion order.
//     Items can be removed from the middle without reordering the rest.
//
//  2. Queue
//     Guards the pending sequence with a single mutex and a condition
//     variable. Availability is always derived from the real pending
//     length, so out-of-band removals need no extra bookkeeping.
//
//  3. Running registry
//     Maps item ids to their cancel handles for as long as the item
//     executes, so callers can stop in-flight work by id.
//
//  4. Dispatcher
//     Blocks on the queue, executes the head item with a context that is
//     cancelled by either the item handle or the dispatcher itself, and
//     reports failures instead of propagating them.
//
// # Item lifecycle
//
//	Enqueue -> pending -> (Dispatcher | ExecuteNow) -> running -> done
//	              |                                      |
//	              +-> Remove ---> done                   +-> CancelRunning -> done
//
// An item is in exactly one of those locations at any time. The dispatcher
// moves an item from pending to running inside one critical section. Items
// taken with a bare Dequeue are handed over to the caller and are not
// tracked as running.
//
// # Locking
//
// Two mutexes exist: the pending mutex and the registry mutex. When both
// are needed they are always taken in that order. No executable ever runs
// while either lock is held.
//
// # Cancellation
//
// Cancelling an item is a request. The executable receives a context and
// is expected to observe it and return promptly; the queue never preempts
// running code. A cancelled item that is still pending stays in place and
// is dispatched in its turn with an already cancelled context.
//
// # Error handling
//
// The package distinguishes between:
//
//   - ErrInvalidArgument: Enqueue called with a nil function
//   - ErrCancelled: a blocked Dequeue gave up because its context ended
//   - *ExecError: an executable returned an error or panicked
//
// Execution failures are reported through Options.OnItemError and the
// configured MetricsPolicy. Lookup misses are reported as false, not as
// errors.
package taskqueue
