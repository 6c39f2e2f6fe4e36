package lock

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab/internal/rt"
)

// CLHQNode is a caller-owned queue node for CLHLock. Instead of thread-local
// node reuse, the goroutine keeps its current node in a *CLHQNode variable
// (typically returned by the previous Unlock, or freshly allocated the
// first time) and threads it through Lock/Unlock explicitly.
type CLHQNode struct {
	locked atomic.Bool
}

// CLHLock is the Craig/Landin/Hagersten queue lock: each waiter spins on its
// predecessor's node rather than a shared flag, giving the same FIFO,
// local-spin properties as MCSLock with a simpler node-recycling story —
// on unlock, a thread adopts its predecessor's node as its own for next time.
type CLHLock struct {
	_    rt.NoCopy
	tail atomic.Pointer[CLHQNode]
}

// NewCLHLock creates a CLHLock with its sentinel tail node already unlocked.
func NewCLHLock() *CLHLock {
	l := &CLHLock{}
	sentinel := &CLHQNode{}
	l.tail.Store(sentinel)
	return l
}

// Lock acquires the lock using myNode as this goroutine's current node,
// returning the predecessor node — pass it as myNode to the next Lock call
// once this critical section is done, or discard it.
func (l *CLHLock) Lock(myNode *CLHQNode) (pred *CLHQNode) {
	myNode.locked.Store(true)
	pred = l.tail.Swap(myNode)
	for pred.locked.Load() {
	}
	return pred
}

// Unlock releases the lock held via myNode.
func (l *CLHLock) Unlock(myNode *CLHQNode) {
	myNode.locked.Store(false)
}
