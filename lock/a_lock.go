package lock

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/kelvinbeck/synclab/internal/rt"
)

// alockSlot is a single "go" flag in an ALock's ring, padded onto its own
// cache line so that one goroutine's spin never invalidates its neighbor's.
type alockSlot struct {
	go_ atomic.Bool
	_   cpu.CacheLinePad
}

// ALock is a simple array-based queue lock: each arriving goroutine claims
// the next ring slot via a shared ticket counter, then spins on that slot's
// own cache line instead of a single shared flag. Callers must not have more
// than size goroutines contend for the lock concurrently.
type ALock struct {
	_     rt.NoCopy
	flags []alockSlot
	tail  atomic.Uint64
	size  uint64
}

// NewALock creates an ALock with the given ring size.
func NewALock(size int) *ALock {
	if size <= 0 {
		panic("lock: ALock size must be positive")
	}
	l := &ALock{flags: make([]alockSlot, size), size: uint64(size)}
	l.flags[0].go_.Store(true)
	return l
}

// Lock blocks until this goroutine's assigned slot is signaled. The caller
// must pass the returned slot to the matching Unlock call — ALock has no
// hidden per-goroutine storage, so the slot index travels with the caller.
func (l *ALock) Lock() (slot uint64) {
	slot = l.tail.Add(1) - 1
	s := slot % l.size
	for !l.flags[s].go_.Load() {
	}
	return slot
}

// Unlock releases the slot acquired by the matching Lock call and signals
// the next slot in the ring.
func (l *ALock) Unlock(slot uint64) {
	s := slot % l.size
	l.flags[s].go_.Store(false)
	l.flags[(s+1)%l.size].go_.Store(true)
}
