// Package reclaim implements hazard-pointer based safe memory reclamation:
// an optional strategy lock-free data structures in this module can be
// configured with instead of leaving retired nodes reachable (and so
// uncollectable) on an internal garbage list until the whole structure is
// closed.
package reclaim

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab"
)

// ThreadContext is a per-goroutine handle into a Domain: it holds the
// reservation slots this goroutine currently protects, and a private
// pending-reclaim list of nodes this goroutine has retired but not yet
// been able to free.
type ThreadContext[T any] struct {
	next         atomic.Pointer[ThreadContext[T]]
	reservations []atomic.Pointer[T]
	pending      []*T
}

// Domain is a hazard-pointer domain shared by every goroutine reclaiming
// nodes from the same lock-free structure. RegisterThread hands out a
// ThreadContext; SchedForReclaim queues a retired node; OpEnd walks the
// calling goroutine's pending list and frees anything no registered
// context (the caller's own included) currently reserves.
type Domain[T any] struct {
	reservationsPerThread int
	head                  atomic.Pointer[ThreadContext[T]]
}

// NewDomain creates a Domain in which each registered ThreadContext gets
// reservationsPerThread hazard-pointer slots.
func NewDomain[T any](reservationsPerThread int) *Domain[T] {
	if reservationsPerThread <= 0 {
		panic("reclaim: reservationsPerThread must be positive")
	}
	return &Domain[T]{reservationsPerThread: reservationsPerThread}
}

// RegisterThread creates a new ThreadContext and links it into the domain's
// thread list via CAS-prepend, so OpEnd's scan of every context's
// reservations always sees it.
func (d *Domain[T]) RegisterThread() *ThreadContext[T] {
	tc := &ThreadContext[T]{reservations: make([]atomic.Pointer[T], d.reservationsPerThread)}
	for {
		head := d.head.Load()
		tc.next.Store(head)
		if d.head.CompareAndSwap(head, tc) {
			return tc
		}
	}
}

// TryReserve records ptr in reservation slot index of tc, protecting it from
// reclamation by any other goroutine until Unreserve is called. Returns
// synclab.ErrExhausted if index is out of range.
func (tc *ThreadContext[T]) TryReserve(index int, ptr *T) error {
	if index < 0 || index >= len(tc.reservations) {
		lg := synclab.Logger()
		lg.Debug().Int("index", index).Int("slots", len(tc.reservations)).
			Msg("reclaim: hazard-pointer reservation slots exhausted")
		return synclab.ErrExhausted
	}
	tc.reservations[index].Store(ptr)
	return nil
}

// Unreserve clears reservation slot index.
func (tc *ThreadContext[T]) Unreserve(index int) {
	tc.reservations[index].Store(nil)
}

// SchedForReclaim queues ptr for reclamation once no ThreadContext in the
// domain reserves it any longer. It does not scan immediately — call OpEnd
// to actually reclaim.
func (tc *ThreadContext[T]) SchedForReclaim(ptr *T) {
	tc.pending = append(tc.pending, ptr)
}

// OpEnd scans tc's pending list against every ThreadContext's reservations
// in d, dropping (making eligible for GC) any pointer no context reserves.
func (d *Domain[T]) OpEnd(tc *ThreadContext[T]) {
	kept := tc.pending[:0]
	for _, ptr := range tc.pending {
		if d.isReserved(ptr) {
			kept = append(kept, ptr)
		}
	}
	tc.pending = kept
}

func (d *Domain[T]) isReserved(ptr *T) bool {
	for cur := d.head.Load(); cur != nil; cur = cur.next.Load() {
		for i := range cur.reservations {
			if cur.reservations[i].Load() == ptr {
				return true
			}
		}
	}
	return false
}
