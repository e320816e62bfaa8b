// fifo_queue.go
package taskqueue

import "github.com/google/uuid"

const (
	initialFifoCapacity = 64
)

// fifoQueue is the pending sequence: a growable first-in-first-out
// circular buffer of items.
//
// Besides Push and Pop it supports lookup and removal by id. Removal
// shifts the items behind the removed one, so the relative order of the
// remaining items never changes.
//
// fifoQueue is not safe for concurrent use; Queue guards it.
type fifoQueue struct {
	buf        []Item // circular buffer
	head, tail int    // read/write indices
	size       int    // number of items currently buffered
	capacity   int
}

// newFifoQueue creates a FIFO queue with the given initial capacity.
// The buffer doubles whenever a Push finds it full.
func newFifoQueue(cap int) *fifoQueue {
	if cap <= 0 {
		cap = initialFifoCapacity
	}
	return &fifoQueue{
		buf:      make([]Item, cap),
		capacity: cap,
	}
}

// Len returns the number of items currently waiting in the queue.
func (q *fifoQueue) Len() int { return q.size }

// Push inserts an item at the tail.
func (q *fifoQueue) Push(it Item) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = it
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest item.
//
// If the queue is empty, returns zero-value Item and false.
func (q *fifoQueue) Pop() (Item, bool) {
	if q.size == 0 {
		return Item{}, false
	}
	it := q.buf[q.head]
	q.buf[q.head] = Item{}
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return it, true
}

// Find returns the queued item with the given id.
func (q *fifoQueue) Find(id uuid.UUID) (Item, bool) {
	if k := q.indexOf(id); k >= 0 {
		return q.at(k), true
	}
	return Item{}, false
}

// Remove takes the item with the given id out of the queue.
func (q *fifoQueue) Remove(id uuid.UUID) (Item, bool) {
	k := q.indexOf(id)
	if k < 0 {
		return Item{}, false
	}
	return q.removeAt(k), true
}

// Range calls fn for every item from head to tail until fn returns false.
func (q *fifoQueue) Range(fn func(it Item) bool) {
	for k := 0; k < q.size; k++ {
		if !fn(q.at(k)) {
			return
		}
	}
}

// at returns the item at logical position k, 0 being the head.
func (q *fifoQueue) at(k int) Item {
	return q.buf[(q.head+k)%q.capacity]
}

func (q *fifoQueue) indexOf(id uuid.UUID) int {
	for k := 0; k < q.size; k++ {
		if q.at(k).ID == id {
			return k
		}
	}
	return -1
}

// removeAt removes the item at logical position k and closes the gap by
// moving every later item one slot towards the head.
func (q *fifoQueue) removeAt(k int) Item {
	it := q.at(k)
	for i := k; i < q.size-1; i++ {
		cur := (q.head + i) % q.capacity
		next := (q.head + i + 1) % q.capacity
		q.buf[cur] = q.buf[next]
	}
	q.tail--
	if q.tail < 0 {
		q.tail = q.capacity - 1
	}
	q.buf[q.tail] = Item{}
	q.size--
	return it
}

// grow doubles the buffer and unwraps it so that head is at index 0.
func (q *fifoQueue) grow() {
	buf := make([]Item, q.capacity*2)
	for k := 0; k < q.size; k++ {
		buf[k] = q.at(k)
	}
	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = len(buf)
}
