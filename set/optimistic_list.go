package set

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab/lock"
)

type optimisticNode[T any] struct {
	key  uint64
	item T
	next atomic.Pointer[optimisticNode[T]]
	mu   lock.TTASLock
}

type optimisticGarbage[T any] struct {
	node *optimisticNode[T]
	next *optimisticGarbage[T]
}

// OptimisticList is a sorted set that traverses without locking, only
// locking pred and curr once it thinks it has found the right pair, then
// validates that assumption by rescanning from the head before committing.
// A failed validation just restarts — cheaper than FineList's lock-every-
// hop traversal whenever contention is low, at the cost of wasted work
// when it's not.
//
// traverse and validate read next with no lock held, racing a concurrent
// Add's publish of a freshly-built node. next is therefore an
// atomic.Pointer rather than a plain field: Add's Store is a release, so
// an unlocked reader that observes the new node also observes every field
// written before the Store, never a half-initialized node.
//
// Removed nodes are pushed onto a lock-free garbage list instead of being
// freed immediately, since a concurrent reader may still be mid-traversal
// through one. The garbage list is only actually reclaimed when the list
// itself is discarded (Go's GC will not collect a node that's still
// reachable from the garbage list, so every removed node stays in memory
// until then).
type OptimisticList[T any] struct {
	hash       func(T) uint64
	head, tail *optimisticNode[T]
	garbage    atomic.Pointer[optimisticGarbage[T]]
}

// NewOptimisticList creates an empty OptimisticList keyed by hash.
func NewOptimisticList[T any](hash func(T) uint64) *OptimisticList[T] {
	tail := &optimisticNode[T]{key: keyMax}
	head := &optimisticNode[T]{key: keyMin}
	head.next.Store(tail)
	return &OptimisticList[T]{hash: keyFunc(hash), head: head, tail: tail}
}

func (l *OptimisticList[T]) reclaim(n *optimisticNode[T]) {
	for {
		old := l.garbage.Load()
		g := &optimisticGarbage[T]{node: n, next: old}
		if l.garbage.CompareAndSwap(old, g) {
			return
		}
	}
}

func (l *OptimisticList[T]) traverse(key uint64) (pred, curr *optimisticNode[T]) {
	pred = l.head
	curr = pred.next.Load()
	for curr.key < key {
		pred = curr
		curr = curr.next.Load()
	}
	return pred, curr
}

func (l *OptimisticList[T]) validate(pred, curr *optimisticNode[T]) bool {
	node := l.head
	for node.key <= pred.key {
		if node == pred {
			return pred.next.Load() == curr
		}
		node = node.next.Load()
	}
	return false
}

// Add inserts item, returning false if an item with the same key is already
// present.
func (l *OptimisticList[T]) Add(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.traverse(key)
		pred.mu.Lock()
		curr.mu.Lock()
		if l.validate(pred, curr) {
			defer pred.mu.Unlock()
			defer curr.mu.Unlock()
			if curr.key == key {
				return false
			}
			node := &optimisticNode[T]{key: key, item: item}
			node.next.Store(curr)
			pred.next.Store(node)
			return true
		}
		pred.mu.Unlock()
		curr.mu.Unlock()
	}
}

// Remove deletes the item with the given key, returning false if absent.
func (l *OptimisticList[T]) Remove(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.traverse(key)
		pred.mu.Lock()
		curr.mu.Lock()
		if l.validate(pred, curr) {
			defer pred.mu.Unlock()
			defer curr.mu.Unlock()
			if curr.key != key {
				return false
			}
			pred.next.Store(curr.next.Load())
			l.reclaim(curr)
			return true
		}
		pred.mu.Unlock()
		curr.mu.Unlock()
	}
}

// Contains reports whether an item with the given key is present.
func (l *OptimisticList[T]) Contains(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.traverse(key)
		pred.mu.Lock()
		curr.mu.Lock()
		ok := l.validate(pred, curr)
		found := curr.key == key
		pred.mu.Unlock()
		curr.mu.Unlock()
		if ok {
			return found
		}
	}
}
