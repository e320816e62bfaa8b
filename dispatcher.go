package taskqueue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

var (
	ErrDispatcherRunning = errors.New("dispatcher: already running")
	ErrDispatcherStopped = errors.New("dispatcher: not running")
)

// Dispatcher is the single consumer of a Queue. It executes items one at
// a time in FIFO order and isolates their failures.
type Dispatcher struct {
	q    *Queue
	opts DispatcherOptions

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(q *Queue, opts DispatcherOptions) *Dispatcher {
	opts.FillDefaults()
	return &Dispatcher{q: q, opts: opts}
}

// Run drains the queue until ctx is cancelled or the queue is closed and
// empty. Item contexts are derived from ctx, so cancelling ctx also
// cancels the item in flight.
func (d *Dispatcher) Run(ctx context.Context) error {
	logger := lg.FromContext(ctx)

	if d.opts.PinCPU {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(d.opts.CPU); err != nil {
			logger.Warn("cpu pinning failed", lg.Int("cpu", d.opts.CPU), lg.Any("error", err))
			d.reportInternalError(err)
		}
	}

	logger.Info("Dispatcher started")
	for {
		it, err := d.q.take(ctx, true)
		if err != nil {
			logger.Info("Dispatcher stopped", lg.Any("reason", err))
			if errors.Is(err, ErrCancelled) || errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		d.process(ctx, it)
	}
}

// process runs one item that take already registered as running.
func (d *Dispatcher) process(ctx context.Context, it Item) {
	defer d.q.running.Unregister(it.ID)

	lg.FromContext(ctx).Info("Dispatcher processing item",
		lg.String("item", it.ID.String()),
		lg.String("description", it.Description),
	)
	err := d.executeWithRetry(ctx, it)
	d.q.observe(ctx, it, err)
}

func (d *Dispatcher) executeWithRetry(ctx context.Context, it Item) error {
	pol := d.opts.Retry
	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; ; attempt++ {
		err := d.attempt(ctx, it)
		if err == nil || attempt >= pol.Attempts || wasCancelled(it, err) {
			return err
		}

		delay := bo.Next()
		lg.FromContext(ctx).Warn("item attempt failed; backing off",
			lg.String("item", it.ID.String()),
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-it.Handle.Done():
			timer.Stop()
			return err
		case <-ctx.Done():
			timer.Stop()
			return err
		}
	}
}

func (d *Dispatcher) attempt(ctx context.Context, it Item) error {
	if d.opts.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.ItemTimeout)
		defer cancel()
	}
	return execute(ctx, it)
}

// Start runs the dispatcher in a new goroutine.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		return ErrDispatcherRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel, d.done = cancel, done
	go func() {
		defer close(done)
		if err := d.Run(runCtx); err != nil {
			d.reportInternalError(err)
		}
	}()
	return nil
}

// Stop cancels a dispatcher started with Start and waits for the item in
// flight to return, or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()
	if done == nil {
		return ErrDispatcherStopped
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
