package taskqueue

// reportInternalError reports a dispatcher failure that is not caused by
// an item, such as a failed CPU pinning request.
// If no handler is registered, the error is silently ignored.
func (d *Dispatcher) reportInternalError(e error) {
	if d.opts.OnInternalError != nil {
		d.opts.OnInternalError(e)
	}
}

// reportItemError reports an error returned by an item or produced by
// panic recovery.
//
// Item errors never stop the dispatcher and are not retried beyond the
// configured RetryPolicy.
func (q *Queue) reportItemError(err error) {
	if q.opts.OnItemError != nil {
		q.opts.OnItemError(err)
	}
}
