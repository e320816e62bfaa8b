package taskqueue

import (
	"testing"

	"github.com/google/uuid"
)

func mkItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: uuid.New(), Description: string(rune('a' + i%26)), Handle: newCancelHandle()}
	}
	return items
}

func drain(t *testing.T, q *fifoQueue) []uuid.UUID {
	t.Helper()
	var out []uuid.UUID
	for {
		it, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, it.ID)
	}
}

func expectOrder(t *testing.T, got []uuid.UUID, want []Item) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i].ID {
			t.Fatalf("FIFO order broken at %d: expected %s, got %s", i, want[i].ID, got[i])
		}
	}
}

func TestFifoGrow_NoWrap(t *testing.T) {
	capacity := 4
	q := newFifoQueue(capacity)
	items := mkItems(5)

	for _, it := range items {
		q.Push(it)
	}

	if q.capacity <= capacity {
		t.Fatalf("grow() didn't increase capacity, got %d", q.capacity)
	}
	if q.Len() != 5 {
		t.Fatalf("after grow: expected size=5, got %d", q.Len())
	}
	expectOrder(t, drain(t, q), items)
}

func TestFifoGrow_WithWrap(t *testing.T) {
	q := newFifoQueue(4)
	items := mkItems(6)

	q.Push(items[0])
	q.Push(items[1])
	q.Push(items[2])

	it, _ := q.Pop()
	if it.ID != items[0].ID {
		t.Fatalf("expected to pop first item")
	}

	// tail wraps around; the third push finds the buffer full
	q.Push(items[3])
	q.Push(items[4])
	q.Push(items[5])

	if q.capacity <= 4 {
		t.Fatalf("grow() didn't increase capacity")
	}
	expectOrder(t, drain(t, q), items[1:])
}

func TestFifoPop_Empty(t *testing.T) {
	q := newFifoQueue(0)
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue returned true")
	}
	if q.capacity != initialFifoCapacity {
		t.Fatalf("expected default capacity %d, got %d", initialFifoCapacity, q.capacity)
	}
}

func TestFifoRemove_PreservesOrder(t *testing.T) {
	tests := []struct {
		name   string
		remove int
	}{
		{"head", 0},
		{"middle", 2},
		{"tail", 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := newFifoQueue(8)
			items := mkItems(5)
			for _, it := range items {
				q.Push(it)
			}

			got, ok := q.Remove(items[tc.remove].ID)
			if !ok || got.ID != items[tc.remove].ID {
				t.Fatalf("Remove(%d) = %v, %v", tc.remove, got.ID, ok)
			}

			want := append(append([]Item{}, items[:tc.remove]...), items[tc.remove+1:]...)
			expectOrder(t, drain(t, q), want)
		})
	}
}

func TestFifoRemove_AcrossWrap(t *testing.T) {
	q := newFifoQueue(4)
	items := mkItems(6)

	q.Push(items[0])
	q.Push(items[1])
	q.Push(items[2])
	q.Pop()
	q.Pop()
	// head=2: items[2] at 2, items[3] at 3, items[4] at 0, items[5] at 1
	q.Push(items[3])
	q.Push(items[4])
	q.Push(items[5])
	if q.capacity != 4 {
		t.Fatalf("unexpected grow, capacity %d", q.capacity)
	}

	if _, ok := q.Remove(items[3].ID); !ok {
		t.Fatal("Remove returned false")
	}
	q.Push(items[0]) // reuse the freed slot

	expectOrder(t, drain(t, q), []Item{items[2], items[4], items[5], items[0]})
}

func TestFifoRemove_Missing(t *testing.T) {
	q := newFifoQueue(4)
	items := mkItems(2)
	q.Push(items[0])
	q.Push(items[1])

	if _, ok := q.Remove(uuid.New()); ok {
		t.Fatal("Remove of unknown id returned true")
	}
	if q.Len() != 2 {
		t.Fatalf("queue changed on miss, len=%d", q.Len())
	}
}

func TestFifoFind(t *testing.T) {
	q := newFifoQueue(4)
	items := mkItems(3)
	for _, it := range items {
		q.Push(it)
	}

	got, ok := q.Find(items[1].ID)
	if !ok || got.Description != items[1].Description {
		t.Fatalf("Find returned %v, %v", got, ok)
	}
	if q.Len() != 3 {
		t.Fatalf("Find must not remove, len=%d", q.Len())
	}
}
