package queue

import "github.com/kelvinbeck/synclab/lock"

// SynchronousQueue is a zero-capacity rendezvous queue: Enqueue does not
// return until a matching Dequeue has consumed the value, and Dequeue does
// not return until a value has been published. It has no internal buffer.
//
// An enqueuing bool latch limits the queue to a single in-flight Enqueue at
// a time — a second concurrent Enqueue call waits for the first to be fully
// consumed before publishing its own value, preserving the invariant that
// at most one item is ever "in the slot" waiting for a dequeuer.
type SynchronousQueue[T any] struct {
	mu        lock.TTASLock
	itemReady lock.ConditionVariable
	slotFree  lock.ConditionVariable
	enqueuing bool
	hasItem   bool
	item      T
}

// Enqueue blocks until a concurrent Dequeue has consumed value.
func (q *SynchronousQueue[T]) Enqueue(value T) {
	q.mu.Lock()
	for q.enqueuing {
		q.slotFree.Wait(&q.mu)
	}
	q.enqueuing = true
	q.item = value
	q.hasItem = true
	q.itemReady.NotifyOne()
	for q.hasItem {
		q.slotFree.Wait(&q.mu)
	}
	q.enqueuing = false
	q.slotFree.NotifyOne()
	q.mu.Unlock()
}

// Dequeue blocks until a value has been published by Enqueue, then
// consumes and returns it.
func (q *SynchronousQueue[T]) Dequeue() T {
	q.mu.Lock()
	for !q.hasItem {
		q.itemReady.Wait(&q.mu)
	}
	value := q.item
	var zero T
	q.item = zero
	q.hasItem = false
	q.slotFree.NotifyAll()
	q.mu.Unlock()
	return value
}
