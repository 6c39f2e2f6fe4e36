package lock

import (
	"sync/atomic"
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

// MCSQNode is a caller-owned queue node for MCSLock. Go has no per-goroutine
// storage, so unlike the original thread-local node, each goroutine must
// allocate (or reuse) its own MCSQNode and pass it to Lock/Unlock.
type MCSQNode struct {
	locked atomic.Bool
	next   atomic.Pointer[MCSQNode]
}

// MCSLock is the Mellor-Crummey/Scott queue lock: every waiter spins on a
// field inside its own node rather than on shared state, so a lock handoff
// invalidates only the successor's cache line.
type MCSLock struct {
	_    rt.NoCopy
	tail atomic.Pointer[MCSQNode]
}

// Lock acquires the lock, blocking until it is this node's turn.
func (l *MCSLock) Lock(node *MCSQNode) {
	node.next.Store(nil)
	pred := l.tail.Swap(node)
	if pred == nil {
		return
	}
	node.locked.Store(true)
	pred.next.Store(node)
	b := synclab.NewBackoff(5*time.Microsecond, 25*time.Microsecond)
	for node.locked.Load() {
		b.Wait()
	}
}

// Unlock releases the lock held via node.
func (l *MCSLock) Unlock(node *MCSQNode) {
	if node.next.Load() == nil {
		if l.tail.CompareAndSwap(node, nil) {
			return
		}
		for node.next.Load() == nil {
		}
	}
	succ := node.next.Load()
	succ.locked.Store(false)
	node.next.Store(nil)
}
