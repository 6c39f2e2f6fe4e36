// Package stack implements LIFO stack data structures: a lock-free Treiber
// stack with exponential backoff, and an elimination-backoff variant that
// pairs concurrent pushes and pops directly instead of contending on top.
package stack

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/reclaim"
)

type treiberNode[T any] struct {
	value T
	next  *treiberNode[T]
}

type treiberGarbage[T any] struct {
	node *treiberNode[T]
	next *treiberGarbage[T]
}

// TreiberStack is a lock-free LIFO stack: Push and Pop both retry a single
// CAS on top, backing off between attempts to reduce contention on that one
// hot cache line.
//
// By default, retired nodes are kept reachable on an internal garbage list
// (freed only when the stack itself is dropped). Passing WithReclaimDomain
// swaps that for hazard-pointer-protected reclamation: Pop reserves the node
// it is about to unlink before touching it, so a concurrent Pop elsewhere
// can safely free nodes no longer reachable from top.
type TreiberStack[T any] struct {
	top     atomic.Pointer[treiberNode[T]]
	garbage atomic.Pointer[treiberGarbage[T]]
	min     time.Duration
	max     time.Duration
	domain  *reclaim.Domain[treiberNode[T]]
	ctxPool sync.Pool
}

// TreiberOption configures a TreiberStack at construction time.
type TreiberOption[T any] func(*TreiberStack[T])

// WithReclaimDomain switches a TreiberStack from its default internal
// garbage list to hazard-pointer-based reclamation against d. One
// reservation slot per popping goroutine is enough, since Pop only ever
// needs to protect the single node it is unlinking.
func WithReclaimDomain[T any](d *reclaim.Domain[treiberNode[T]]) TreiberOption[T] {
	return func(s *TreiberStack[T]) { s.domain = d }
}

// NewTreiberStack creates an empty TreiberStack whose retry backoff grows
// between min and max.
func NewTreiberStack[T any](min, max time.Duration, opts ...TreiberOption[T]) *TreiberStack[T] {
	s := &TreiberStack[T]{min: min, max: max}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TreiberStack[T]) reclaim(n *treiberNode[T]) {
	if s.domain != nil {
		s.reclaimViaDomain(n)
		return
	}
	for {
		old := s.garbage.Load()
		g := &treiberGarbage[T]{node: n, next: old}
		if s.garbage.CompareAndSwap(old, g) {
			return
		}
	}
}

func (s *TreiberStack[T]) reclaimViaDomain(n *treiberNode[T]) {
	tc := s.acquireCtx()
	tc.SchedForReclaim(n)
	s.domain.OpEnd(tc)
	s.ctxPool.Put(tc)
}

func (s *TreiberStack[T]) acquireCtx() *reclaim.ThreadContext[treiberNode[T]] {
	if v := s.ctxPool.Get(); v != nil {
		return v.(*reclaim.ThreadContext[treiberNode[T]])
	}
	return s.domain.RegisterThread()
}

// Push prepends value onto the stack.
func (s *TreiberStack[T]) Push(value T) {
	node := &treiberNode[T]{value: value}
	b := synclab.NewBackoff(s.min, s.max)
	for {
		top := s.top.Load()
		node.next = top
		if s.top.CompareAndSwap(top, node) {
			return
		}
		b.Wait()
	}
}

// Pop removes and returns the top value, or synclab.ErrEmpty if the stack
// is empty.
func (s *TreiberStack[T]) Pop() (T, error) {
	if s.domain != nil {
		return s.popViaDomain()
	}
	b := synclab.NewBackoff(s.min, s.max)
	for {
		top := s.top.Load()
		if top == nil {
			var zero T
			return zero, synclab.ErrEmpty
		}
		next := top.next
		if s.top.CompareAndSwap(top, next) {
			s.reclaim(top)
			return top.value, nil
		}
		b.Wait()
	}
}

// popViaDomain is Pop's hazard-pointer path: it reserves the candidate top
// node before reading through it, then re-checks top is still the same
// node, so a concurrent Pop can never free a node this goroutine is still
// dereferencing.
func (s *TreiberStack[T]) popViaDomain() (T, error) {
	tc := s.acquireCtx()
	defer s.ctxPool.Put(tc)
	b := synclab.NewBackoff(s.min, s.max)
	for {
		top := s.top.Load()
		if top == nil {
			tc.Unreserve(0)
			var zero T
			return zero, synclab.ErrEmpty
		}
		_ = tc.TryReserve(0, top)
		if s.top.Load() != top {
			continue
		}
		next := top.next
		if s.top.CompareAndSwap(top, next) {
			tc.Unreserve(0)
			s.reclaim(top)
			return top.value, nil
		}
		b.Wait()
	}
}
