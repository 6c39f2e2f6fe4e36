// Package set implements sorted-set data structures backed by a singly
// linked list, ranging from a single coarse-grained mutex up to a fully
// lock-free variant using markable pointers.
package set

import (
	"math"

	"github.com/kelvinbeck/synclab/lock"
)

const (
	keyMin uint64 = 0
	keyMax uint64 = math.MaxUint64
)

// keyFunc wraps a caller-supplied hash so its output can never land on
// keyMin or keyMax, the sentinel keys every list's head/tail node carries.
// Without this, an item hashing to exactly keyMax would be indistinguishable
// from the tail sentinel: Add would report a spurious collision, and
// Contains/Remove would never walk past it.
func keyFunc[T any](hash func(T) uint64) func(T) uint64 {
	return func(item T) uint64 {
		switch h := hash(item); h {
		case keyMin:
			return keyMin + 1
		case keyMax:
			return keyMax - 1
		default:
			return h
		}
	}
}

type coarseNode[T any] struct {
	key  uint64
	item T
	next *coarseNode[T]
}

// CoarseList is a sorted set guarded by a single mutex: every operation
// takes the lock, walks the list once, and releases it. Simple and
// correct, but every operation serializes against every other, including
// two Contains calls that never touch the same node.
type CoarseList[T any] struct {
	hash       func(T) uint64
	mu         lock.TTASLock
	head, tail *coarseNode[T]
}

// NewCoarseList creates an empty CoarseList keyed by hash.
func NewCoarseList[T any](hash func(T) uint64) *CoarseList[T] {
	tail := &coarseNode[T]{key: keyMax}
	head := &coarseNode[T]{key: keyMin, next: tail}
	return &CoarseList[T]{hash: keyFunc(hash), head: head, tail: tail}
}

// Add inserts item, returning false if an item with the same key is already
// present.
func (l *CoarseList[T]) Add(item T) bool {
	key := l.hash(item)
	l.mu.Lock()
	defer l.mu.Unlock()
	pred := l.head
	curr := pred.next
	for curr.key < key {
		pred = curr
		curr = curr.next
	}
	if curr.key == key {
		return false
	}
	pred.next = &coarseNode[T]{key: key, item: item, next: curr}
	return true
}

// Remove deletes the item with the given key, returning false if absent.
func (l *CoarseList[T]) Remove(item T) bool {
	key := l.hash(item)
	l.mu.Lock()
	defer l.mu.Unlock()
	pred := l.head
	curr := pred.next
	for curr.key < key {
		pred = curr
		curr = curr.next
	}
	if curr.key != key {
		return false
	}
	pred.next = curr.next
	return true
}

// Contains reports whether an item with the given key is present.
func (l *CoarseList[T]) Contains(item T) bool {
	key := l.hash(item)
	l.mu.Lock()
	defer l.mu.Unlock()
	curr := l.head.next
	for curr.key < key {
		curr = curr.next
	}
	return curr.key == key
}
