package taskqueue_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"

	tq "github.com/azargarov/taskqueue"
)

func noop(context.Context) error { return nil }

func newTestQueue(t *testing.T) (*tq.Queue, *tq.AtomicMetrics) {
	t.Helper()

	m := &tq.AtomicMetrics{}
	q := tq.NewQueue(tq.Options{InitialCapacity: 4, Metrics: m})
	t.Cleanup(q.Close)
	return q, m
}

func mustEnqueue(t *testing.T, q *tq.Queue, fn tq.WorkFunc, desc string) uuid.UUID {
	t.Helper()

	id, err := q.Enqueue(fn, desc)
	if err != nil {
		t.Fatalf("enqueue %q: %v", desc, err)
	}
	return id
}

func pendingIDs(q *tq.Queue) []uuid.UUID {
	var ids []uuid.UUID
	for _, p := range q.Pending() {
		ids = append(ids, p.ID)
	}
	return ids
}

func expectIDs(t *testing.T, got, want []uuid.UUID) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("id %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func dequeue(t *testing.T, q *tq.Queue) tq.Item {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	it, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	return it
}
