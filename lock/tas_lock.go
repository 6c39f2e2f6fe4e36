// Package lock collects mutual-exclusion, condition-variable, reader/writer,
// reentrant and semaphore primitives, ranging from a bare test-and-set spin
// lock up to queue-based FIFO locks with bounded-wait timeouts.
package lock

import (
	"github.com/kelvinbeck/synclab/internal/rt"
)

// TASLock is the simplest possible spinlock: threads spin directly on a
// test-and-set of a single flag. Under contention this thrashes the flag's
// cache line — see TTASLock for the usual fix.
type TASLock struct {
	_    rt.NoCopy
	flag atomicFlag
}

// Lock blocks until the flag can be set.
func (l *TASLock) Lock() {
	for l.flag.testAndSet() {
	}
}

// Unlock clears the flag.
func (l *TASLock) Unlock() {
	l.flag.clear()
}
