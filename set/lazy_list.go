package set

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab/lock"
)

type lazyNode[T any] struct {
	key    uint64
	item   T
	next   atomic.Pointer[lazyNode[T]]
	marked atomic.Bool
	mu     lock.TTASLock
}

// LazyList is a sorted set that separates logical deletion from physical
// unlinking: Remove first marks the node dead, then unlinks it, so a
// concurrent Contains never needs to lock anything — it just checks the
// mark. This makes Contains wait-free, unlike the three other lock-based
// variants, at the cost of tolerating marked-but-not-yet-unlinked
// nodes briefly lingering in the list.
//
// Contains walks next with no lock held, so next is an atomic.Pointer: a
// locked Add publishes a new node via Store (release), and the unlocked
// Contains/traverse reads via Load (acquire), so a reader that observes the
// new node also observes every field the publisher wrote before the Store.
type LazyList[T any] struct {
	hash       func(T) uint64
	head, tail *lazyNode[T]
}

// NewLazyList creates an empty LazyList keyed by hash.
func NewLazyList[T any](hash func(T) uint64) *LazyList[T] {
	tail := &lazyNode[T]{key: keyMax}
	head := &lazyNode[T]{key: keyMin}
	head.next.Store(tail)
	return &LazyList[T]{hash: keyFunc(hash), head: head, tail: tail}
}

func (l *LazyList[T]) traverse(key uint64) (pred, curr *lazyNode[T]) {
	pred = l.head
	curr = pred.next.Load()
	for curr.key < key {
		pred = curr
		curr = curr.next.Load()
	}
	return pred, curr
}

func validateLazy[T any](pred, curr *lazyNode[T]) bool {
	return !pred.marked.Load() && !curr.marked.Load() && pred.next.Load() == curr
}

// Add inserts item, returning false if an item with the same key is already
// present.
func (l *LazyList[T]) Add(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.traverse(key)
		pred.mu.Lock()
		curr.mu.Lock()
		if validateLazy(pred, curr) {
			defer pred.mu.Unlock()
			defer curr.mu.Unlock()
			if curr.key == key {
				return false
			}
			node := &lazyNode[T]{key: key, item: item}
			node.next.Store(curr)
			pred.next.Store(node)
			return true
		}
		pred.mu.Unlock()
		curr.mu.Unlock()
	}
}

// Remove deletes the item with the given key, returning false if absent.
// The linearization point is marking curr, not unlinking it.
func (l *LazyList[T]) Remove(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.traverse(key)
		pred.mu.Lock()
		curr.mu.Lock()
		if validateLazy(pred, curr) {
			if curr.key != key {
				pred.mu.Unlock()
				curr.mu.Unlock()
				return false
			}
			curr.marked.Store(true)
			pred.next.Store(curr.next.Load())
			pred.mu.Unlock()
			curr.mu.Unlock()
			return true
		}
		pred.mu.Unlock()
		curr.mu.Unlock()
	}
}

// Contains reports whether an item with the given key is present and not
// (yet) logically deleted. It never takes a lock.
func (l *LazyList[T]) Contains(item T) bool {
	key := l.hash(item)
	curr := l.head
	for curr.key < key {
		curr = curr.next.Load()
	}
	return curr.key == key && !curr.marked.Load()
}
