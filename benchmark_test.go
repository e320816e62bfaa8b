package taskqueue_test

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	tq "github.com/azargarov/taskqueue"
)

type workload struct {
	name string
	fn   tq.WorkFunc
}

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payload")

var workloads = []workload{
	{"empty", noop},
	{"sha256", func(context.Context) error {
		_ = sha256.Sum256(shaData)
		return nil
	}},
	{"cpu", func(context.Context) error {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		_ = x
		return nil
	}},
}

func BenchmarkQueue_EnqueueDequeue(b *testing.B) {
	q := tq.NewQueue(tq.Options{})
	defer q.Close()
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := q.Enqueue(noop, "bench"); err != nil {
			b.Fatalf("enqueue: %v", err)
		}
		if _, err := q.Dequeue(ctx); err != nil {
			b.Fatalf("dequeue: %v", err)
		}
	}
}

func BenchmarkQueue_ParallelEnqueue(b *testing.B) {
	q := tq.NewQueue(tq.Options{})
	defer q.Close()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = q.Enqueue(noop, "bench")
		}
	})
}

func BenchmarkDispatcher(b *testing.B) {
	for _, w := range workloads {
		b.Run(w.name, func(b *testing.B) {
			m := &tq.AtomicMetrics{}
			q := tq.NewQueue(tq.Options{Metrics: m})
			defer q.Close()

			d := tq.NewDispatcher(q, tq.DispatcherOptions{})
			_ = d.Start(context.Background())

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = q.Enqueue(w.fn, w.name)
			}
			deadline := time.Now().Add(time.Minute)
			for m.Executed() < uint64(b.N) && time.Now().Before(deadline) {
				time.Sleep(50 * time.Microsecond)
			}
			b.StopTimer()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = d.Stop(ctx)
		})
	}
}
