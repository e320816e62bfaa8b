package taskqueue

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cachePad is used to prevent false sharing between hot fields.
type cachePad = cpu.CacheLinePad

// MetricsPolicy defines hooks used by the queue to report queueing and
// execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncQueued increments the pending items gauge.
	IncQueued()

	// DecQueued decrements the pending items gauge. It is called for every
	// item leaving the pending sequence, whatever the reason.
	DecQueued()

	// IncExecuted counts an execution that returned nil.
	IncExecuted()

	// IncFailed counts an execution that returned an error or panicked.
	IncFailed()

	// IncCancelled counts an execution that ended after cancellation.
	IncCancelled()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	queued atomic.Int64
	_      cachePad

	executed  atomic.Uint64
	failed    atomic.Uint64
	cancelled atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of AtomicMetrics.
type MetricsSnapshot struct {
	Queued    int64  `json:"queued"`
	Running   int    `json:"running"`
	Executed  uint64 `json:"executed"`
	Failed    uint64 `json:"failed"`
	Cancelled uint64 `json:"cancelled"`
}

func (m *AtomicMetrics) IncQueued()    { m.queued.Add(1) }
func (m *AtomicMetrics) DecQueued()    { m.queued.Add(-1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }
func (m *AtomicMetrics) IncCancelled() { m.cancelled.Add(1) }

// Queued returns the current number of pending items.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// Executed returns the number of successful executions.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Snapshot copies all counters. Counters are read independently, so the
// snapshot is not atomic as a whole.
func (m *AtomicMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Queued:    m.queued.Load(),
		Executed:  m.executed.Load(),
		Failed:    m.failed.Load(),
		Cancelled: m.cancelled.Load(),
	}
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncQueued()    {}
func (m *NoopMetrics) DecQueued()    {}
func (m *NoopMetrics) IncExecuted()  {}
func (m *NoopMetrics) IncFailed()    {}
func (m *NoopMetrics) IncCancelled() {}
