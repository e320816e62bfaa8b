package taskqueue

import (
	"time"
)

// Options configure a Queue.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// InitialCapacity is the initial size of the pending buffer.
	InitialCapacity int

	// Metrics receives queue and execution counters. Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnItemError is called for every failed execution, from the goroutine
	// that ran the item.
	OnItemError func(error)
}

func (o *Options) FillDefaults() {
	if o.InitialCapacity <= 0 {
		o.InitialCapacity = initialFifoCapacity
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}

// DispatcherOptions configure a Dispatcher.
type DispatcherOptions struct {
	// Retry controls in-place re-execution of failing items.
	Retry RetryPolicy

	// ItemTimeout bounds a single attempt. Zero means no timeout.
	ItemTimeout time.Duration

	// PinCPU locks the dispatcher goroutine to an OS thread bound to CPU.
	// Only supported on Linux.
	PinCPU bool
	CPU    int

	// OnInternalError is called for dispatcher failures unrelated to items.
	OnInternalError func(error)
}

func (o *DispatcherOptions) FillDefaults() {
	o.Retry.fillDefaults()
	if o.ItemTimeout < 0 {
		o.ItemTimeout = 0
	}
	if o.CPU < 0 {
		o.CPU = 0
	}
}
