package queue

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab/lock"
)

type boundedNode[T any] struct {
	value T
	next  *boundedNode[T]
}

// BoundedQueue is a fixed-capacity FIFO queue with separate enqueue and
// dequeue mutexes, each paired with its own condition variable ("not
// full" and "not empty"). A transition that the *other* side is waiting on
// — empty going to size 1, or full going to capacity-1 — must be signaled
// while holding the other side's mutex, or the waiter could check its
// predicate, see it still false, and go to sleep in the gap right after
// the signal fires, losing the wakeup permanently. Crucially, that signal
// is sent only after releasing this side's own mutex: never nest the two
// mutexes, or an enqueue and a dequeue racing to cross-signal each other
// could deadlock on opposite lock orders.
type BoundedQueue[T any] struct {
	capacity     int64
	size         atomic.Int64
	enqMu, deqMu lock.TTASLock
	notFull      lock.ConditionVariable
	notEmpty     lock.ConditionVariable
	head, tail   *boundedNode[T]
}

// NewBoundedQueue creates an empty BoundedQueue with the given capacity.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity <= 0 {
		panic("queue: BoundedQueue capacity must be positive")
	}
	sentinel := &boundedNode[T]{}
	return &BoundedQueue[T]{capacity: int64(capacity), head: sentinel, tail: sentinel}
}

// Enqueue blocks while the queue is at capacity, then appends value.
func (q *BoundedQueue[T]) Enqueue(value T) {
	mustWakeDequeuers := false
	q.enqMu.Lock()
	for q.size.Load() == q.capacity {
		q.notFull.Wait(&q.enqMu)
	}
	node := &boundedNode[T]{value: value}
	q.tail.next = node
	q.tail = node
	if q.size.Add(1) == 1 {
		mustWakeDequeuers = true
	}
	q.enqMu.Unlock()

	if mustWakeDequeuers {
		q.deqMu.Lock()
		q.notEmpty.NotifyAll()
		q.deqMu.Unlock()
	}
}

// Dequeue blocks while the queue is empty, then removes and returns the
// item at the head.
func (q *BoundedQueue[T]) Dequeue() T {
	mustWakeEnqueuers := false
	q.deqMu.Lock()
	for q.head.next == nil {
		q.notEmpty.Wait(&q.deqMu)
	}
	node := q.head.next
	value := node.value
	q.head = node
	if q.size.Add(-1) == q.capacity-1 {
		mustWakeEnqueuers = true
	}
	q.deqMu.Unlock()

	if mustWakeEnqueuers {
		q.enqMu.Lock()
		q.notFull.NotifyAll()
		q.enqMu.Unlock()
	}
	return value
}
