package lock

import (
	"sync/atomic"
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

// toQNode's pred field carries three meanings, distinguished by value:
//   - nil: this node's owner is still waiting.
//   - toAvailable: the owner released the lock.
//   - anything else: the owner abandoned the attempt; the value is the
//     node to skip to.
type toQNode struct {
	pred atomic.Pointer[toQNode]
}

// toAvailable is a sentinel node meaning "the lock was released here".
var toAvailable = &toQNode{}

// TOLock is a CLH-style queue lock that supports wait-free timeouts, even
// for a thread stuck in the middle of the wait chain: an abandoning thread
// marks its own node so that whoever is waiting on it can splice past.
type TOLock struct {
	_    rt.NoCopy
	tail atomic.Pointer[toQNode]
}

// TryLock attempts to acquire the lock, giving up after timeout elapses.
// On success it returns a token that must be passed to Unlock.
func (l *TOLock) TryLock(timeout time.Duration) (token any, ok bool) {
	deadline := time.Now().Add(timeout)
	node := &toQNode{}
	myPred := l.tail.Swap(node)

	if myPred == nil || myPred.pred.Load() == toAvailable {
		return node, true
	}

	for time.Now().Before(deadline) {
		predPred := myPred.pred.Load()
		if predPred == toAvailable {
			return node, true
		} else if predPred != nil {
			myPred = predPred
		}
	}

	if !l.tail.CompareAndSwap(node, myPred) {
		node.pred.Store(myPred)
	}
	lg := synclab.Logger()
	lg.Debug().Dur("timeout", timeout).Msg("lock: TOLock.TryLock timed out")
	return nil, false
}

// Unlock releases the lock acquired via the token returned by TryLock.
func (l *TOLock) Unlock(token any) {
	node := token.(*toQNode)
	if !l.tail.CompareAndSwap(node, nil) {
		node.pred.Store(toAvailable)
	}
}
