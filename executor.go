package taskqueue

import (
	"context"
	"errors"
	"fmt"

	lg "github.com/Andrej220/go-utils/zlog"
)

// execute runs a single item with a context derived from ctx and the
// item's handle. Panics are recovered and returned as *ExecError.
func execute(ctx context.Context, it Item) (err error) {
	runCtx, cancel := it.Handle.Context(ctx)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = &ExecError{
				ID:          it.ID,
				Description: it.Description,
				Err:         fmt.Errorf("panic: %v", r),
				Panic:       r,
			}
		}
	}()

	if e := it.Fn(runCtx); e != nil {
		return &ExecError{ID: it.ID, Description: it.Description, Err: e}
	}
	return nil
}

// wasCancelled reports whether err is the result of a cancellation, of the
// item itself or of the context it ran under.
func wasCancelled(it Item, err error) bool {
	return it.Handle.Cancelled() || errors.Is(err, context.Canceled) || errors.Is(err, ErrItemCancelled)
}

// observe logs the outcome of an execution and feeds metrics and the
// error handler. It never propagates err.
func (q *Queue) observe(ctx context.Context, it Item, err error) {
	logger := lg.FromContext(ctx).With(
		lg.String("item", it.ID.String()),
		lg.String("description", it.Description),
	)

	switch {
	case err == nil:
		q.opts.Metrics.IncExecuted()
		logger.Info("Item finished")
	case wasCancelled(it, err):
		q.opts.Metrics.IncCancelled()
		logger.Info("Item canceled", lg.Any("reason", err))
	default:
		q.opts.Metrics.IncFailed()
		logger.Error("Item failed", lg.Any("error", err))
		q.reportItemError(err)
	}
}
