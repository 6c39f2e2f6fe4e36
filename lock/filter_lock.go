package lock

import (
	"sync/atomic"

	"github.com/kelvinbeck/synclab/internal/rt"
)

// noVictim marks a level slot as having no recorded last-arriving thread.
const noVictim = ^uint32(0)

// FilterLock is the n-thread generalization of Peterson's lock. Each of the
// n-1 levels admits one fewer contender than the level below, so a thread
// reaching level n-1 has excluded every other thread. Callers identify
// themselves with an index in [0, n).
//
// Every field is read and written with sequentially-consistent atomics
// deliberately: the algorithm's correctness argument depends on total order
// across all threads' level/victim writes, which weaker orderings can break.
type FilterLock struct {
	_      rt.NoCopy
	n      uint32
	level  []atomic.Uint32
	victim []atomic.Uint32
}

// NewFilterLock creates a FilterLock for exactly n contending threads.
func NewFilterLock(n int) *FilterLock {
	if n <= 0 {
		panic("lock: FilterLock n must be positive")
	}
	l := &FilterLock{n: uint32(n), level: make([]atomic.Uint32, n), victim: make([]atomic.Uint32, n)}
	for i := range l.victim {
		l.victim[i].Store(noVictim)
	}
	return l
}

// Lock blocks until thread me has exclusive access. me must be in [0, n).
func (l *FilterLock) Lock(me uint32) {
	for i := uint32(1); i < l.n; i++ {
		l.level[me].Store(i)
		l.victim[i].Store(me)
		for l.conflictAt(me, i) {
		}
	}
}

func (l *FilterLock) conflictAt(me, i uint32) bool {
	if l.victim[i].Load() != me {
		return false
	}
	for k := uint32(0); k < l.n; k++ {
		if k != me && l.level[k].Load() >= i {
			return true
		}
	}
	return false
}

// Unlock releases the lock held by thread me.
func (l *FilterLock) Unlock(me uint32) {
	l.level[me].Store(0)
}
