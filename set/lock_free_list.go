package set

import "github.com/kelvinbeck/synclab"

type lockFreeNode[T any] struct {
	key  uint64
	item T
	next synclab.MarkablePointer[lockFreeNode[T]]
}

// LockFreeList is a sorted set with no locks anywhere: deletion is encoded
// by marking a node's own "next" pointer (via MarkablePointer) rather than
// unlinking it directly, so a concurrent inserter racing to link after a
// node mid-deletion fails its CAS instead of resurrecting the deleted node.
// This is the Harris/Michael algorithm.
type LockFreeList[T any] struct {
	hash       func(T) uint64
	head, tail *lockFreeNode[T]
}

// NewLockFreeList creates an empty LockFreeList keyed by hash.
func NewLockFreeList[T any](hash func(T) uint64) *LockFreeList[T] {
	tail := &lockFreeNode[T]{key: keyMax}
	head := &lockFreeNode[T]{key: keyMin}
	head.next.Store(tail, false)
	return &LockFreeList[T]{hash: keyFunc(hash), head: head, tail: tail}
}

// find returns the first unmarked pred/curr pair straddling key, physically
// unlinking any marked (logically deleted) nodes it passes over along the
// way.
func (l *LockFreeList[T]) find(key uint64) (pred, curr *lockFreeNode[T]) {
retry:
	pred = l.head
	curr, _ = pred.next.Load()
	for {
		succ, marked := curr.next.Load()
		for marked {
			if !pred.next.CompareAndSwap(curr, false, succ, false) {
				goto retry
			}
			curr = succ
			succ, marked = curr.next.Load()
		}
		if curr.key >= key {
			return pred, curr
		}
		pred = curr
		curr = succ
	}
}

// Add inserts item, returning false if an item with the same key is already
// present.
func (l *LockFreeList[T]) Add(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.find(key)
		if curr.key == key {
			return false
		}
		node := &lockFreeNode[T]{key: key, item: item}
		node.next.Store(curr, false)
		if pred.next.CompareAndSwap(curr, false, node, false) {
			return true
		}
	}
}

// Remove deletes the item with the given key, returning false if absent.
func (l *LockFreeList[T]) Remove(item T) bool {
	key := l.hash(item)
	for {
		pred, curr := l.find(key)
		if curr.key != key {
			return false
		}
		succ, _ := curr.next.Load()
		if !curr.next.CompareAndSwap(succ, false, succ, true) {
			continue
		}
		pred.next.CompareAndSwap(curr, false, succ, false)
		return true
	}
}

// Contains reports whether an item with the given key is present and not
// marked for deletion. It does not physically unlink marked nodes it
// passes over.
func (l *LockFreeList[T]) Contains(item T) bool {
	key := l.hash(item)
	curr, _ := l.head.next.Load()
	for curr.key < key {
		curr, _ = curr.next.Load()
	}
	_, marked := curr.next.Load()
	return curr.key == key && !marked
}
