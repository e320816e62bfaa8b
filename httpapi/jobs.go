package httpapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	tq "github.com/azargarov/taskqueue"
)

// EnqueueRequest describes a built-in job submitted over HTTP.
type EnqueueRequest struct {
	// Kind is one of "sleep" or "fail".
	Kind        string `json:"kind"`
	Description string `json:"description"`

	// Duration is how long a "sleep" job waits, e.g. "1.5s".
	Duration string `json:"duration,omitempty"`

	// Message is the error returned by a "fail" job.
	Message string `json:"message,omitempty"`
}

// workFunc turns a request into an executable item.
func (r EnqueueRequest) workFunc() (tq.WorkFunc, error) {
	switch r.Kind {
	case "sleep":
		d, err := time.ParseDuration(r.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", r.Duration, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("negative duration %q", r.Duration)
		}
		return func(ctx context.Context) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}, nil
	case "fail":
		msg := r.Message
		if msg == "" {
			msg = "job failed"
		}
		return func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return errors.New(msg)
		}, nil
	default:
		return nil, fmt.Errorf("unknown job kind %q", r.Kind)
	}
}
