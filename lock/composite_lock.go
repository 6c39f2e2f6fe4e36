package lock

import (
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

type compositeState int32

const (
	compositeFree compositeState = iota
	compositeWaiting
	compositeReleased
	compositeAborted
)

// compositeQNode is padded onto its own cache line: nodes are drawn at
// random from a shared array, so two unrelated waiters' nodes landing on
// the same line would otherwise ping-pong every state transition between
// them for no algorithmic reason.
type compositeQNode struct {
	state atomicCompositeState
	pred  *compositeQNode
	_     cpu.CacheLinePad
}

// atomicCompositeState is a thin atomic.Int32 wrapper for compositeState,
// kept as its own type so call sites read as state transitions rather than
// raw integer traffic.
type atomicCompositeState struct{ v atomic.Int32 }

func (s *atomicCompositeState) load() compositeState { return compositeState(s.v.Load()) }
func (s *atomicCompositeState) store(v compositeState) { s.v.Store(int32(v)) }
func (s *atomicCompositeState) compareAndSwap(old, new_ compositeState) bool {
	return s.v.CompareAndSwap(int32(old), int32(new_))
}

// CompositeLock is a bounded-space queue lock: instead of one QNode per
// waiter (unbounded, as in MCSLock/CLHLock), waiters draw from a fixed-size
// array of nodes chosen at random, splicing the chosen node into a
// tagged-pointer queue. This resolves the ABA hazard that node reuse would
// otherwise create the same way TaggedPointer does elsewhere in this
// module: every successful splice bumps the tail's stamp.
//
// Waiting is bounded by an explicit timeout at every stage — acquiring a
// free node, splicing into the queue, and waiting for the predecessor to
// release — matching the timeout granularity of TOLock but with O(1) space
// regardless of contention.
type CompositeLock struct {
	_       rt.NoCopy
	waiting []compositeQNode
	tail    synclab.TaggedPointer[compositeQNode]
	min     time.Duration
	max     time.Duration
}

// NewCompositeLock creates a CompositeLock with size candidate nodes and a
// backoff window of [min, max] used while waiting for a free node.
func NewCompositeLock(size int, min, max time.Duration) *CompositeLock {
	if size <= 0 {
		panic("lock: CompositeLock size must be positive")
	}
	return &CompositeLock{waiting: make([]compositeQNode, size), min: min, max: max}
}

// TryLock attempts to acquire the lock within timeout, returning a token to
// pass to Unlock on success.
func (l *CompositeLock) TryLock(timeout time.Duration) (token any, ok bool) {
	deadline := time.Now().Add(timeout)

	node, ok := l.acquireQNode(deadline)
	if !ok {
		lg := synclab.Logger()
		lg.Debug().Dur("timeout", timeout).Msg("lock: CompositeLock.TryLock timed out acquiring a free node")
		return nil, false
	}
	pred, ok := l.spliceQNode(node, deadline)
	if !ok {
		node.state.store(compositeFree)
		lg := synclab.Logger()
		lg.Debug().Dur("timeout", timeout).Msg("lock: CompositeLock.TryLock timed out splicing into the queue")
		return nil, false
	}
	if !l.waitForPredecessor(pred, node, deadline) {
		lg := synclab.Logger()
		lg.Debug().Dur("timeout", timeout).Msg("lock: CompositeLock.TryLock timed out waiting for its predecessor")
		return nil, false
	}
	return node, true
}

func (l *CompositeLock) acquireQNode(deadline time.Time) (*compositeQNode, bool) {
	idx := rand.Intn(len(l.waiting))
	node := &l.waiting[idx]
	b := synclab.NewBackoff(l.min, l.max)
	for {
		if node.state.compareAndSwap(compositeFree, compositeWaiting) {
			return node, true
		}
		// A released or aborted node that is still the tail has no successor
		// to return it to FREE; take it over by unlinking it from the tail.
		curTail, stamp := l.tail.Load()
		state := node.state.load()
		if curTail == node && (state == compositeReleased || state == compositeAborted) {
			var myPred *compositeQNode
			if state == compositeAborted {
				myPred = node.pred
			}
			if l.tail.CompareAndSwap(curTail, stamp, myPred) {
				node.state.store(compositeWaiting)
				return node, true
			}
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		b.Wait()
	}
}

func (l *CompositeLock) spliceQNode(node *compositeQNode, deadline time.Time) (*compositeQNode, bool) {
	for {
		curTail, stamp := l.tail.Load()
		if time.Now().After(deadline) {
			return nil, false
		}
		if l.tail.CompareAndSwap(curTail, stamp, node) {
			return curTail, true
		}
	}
}

func (l *CompositeLock) waitForPredecessor(pred, node *compositeQNode, deadline time.Time) bool {
	if pred == nil {
		return true
	}
	for {
		state := pred.state.load()
		if state == compositeReleased {
			pred.state.store(compositeFree)
			return true
		}
		if state == compositeAborted {
			next := pred.pred
			pred.state.store(compositeFree)
			pred = next
			if pred == nil {
				return true
			}
			continue
		}
		if time.Now().After(deadline) {
			node.pred = pred
			node.state.store(compositeAborted)
			return false
		}
	}
}

// Unlock releases the lock acquired via the token returned by TryLock.
func (l *CompositeLock) Unlock(token any) {
	node := token.(*compositeQNode)
	node.state.store(compositeReleased)
}
