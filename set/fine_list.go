package set

import "github.com/kelvinbeck/synclab/lock"

type fineNode[T any] struct {
	key  uint64
	item T
	next *fineNode[T]
	mu   lock.TTASLock
}

// FineList is a sorted set using hand-over-hand locking: traversal locks
// curr before releasing pred, so only adjacent operations ever contend,
// unlike CoarseList's single lock. Locks are always acquired in list
// (key) order, which rules out deadlock.
type FineList[T any] struct {
	hash       func(T) uint64
	head, tail *fineNode[T]
}

// NewFineList creates an empty FineList keyed by hash.
func NewFineList[T any](hash func(T) uint64) *FineList[T] {
	tail := &fineNode[T]{key: keyMax}
	head := &fineNode[T]{key: keyMin, next: tail}
	return &FineList[T]{hash: keyFunc(hash), head: head, tail: tail}
}

// find locks and returns pred and curr straddling key; the caller owns both
// locks on return and must unlock them.
func (l *FineList[T]) find(key uint64) (pred, curr *fineNode[T]) {
	pred = l.head
	pred.mu.Lock()
	curr = pred.next
	curr.mu.Lock()
	for curr.key < key {
		pred.mu.Unlock()
		pred = curr
		curr = curr.next
		curr.mu.Lock()
	}
	return pred, curr
}

// Add inserts item, returning false if an item with the same key is already
// present.
func (l *FineList[T]) Add(item T) bool {
	key := l.hash(item)
	pred, curr := l.find(key)
	defer pred.mu.Unlock()
	defer curr.mu.Unlock()
	if curr.key == key {
		return false
	}
	pred.next = &fineNode[T]{key: key, item: item, next: curr}
	return true
}

// Remove deletes the item with the given key, returning false if absent.
func (l *FineList[T]) Remove(item T) bool {
	key := l.hash(item)
	pred, curr := l.find(key)
	defer pred.mu.Unlock()
	defer curr.mu.Unlock()
	if curr.key != key {
		return false
	}
	pred.next = curr.next
	return true
}

// Contains reports whether an item with the given key is present.
func (l *FineList[T]) Contains(item T) bool {
	key := l.hash(item)
	pred, curr := l.find(key)
	defer pred.mu.Unlock()
	defer curr.mu.Unlock()
	return curr.key == key
}
