package lock

import "github.com/kelvinbeck/synclab/internal/rt"

// TTASLock is a test-and-test-and-set spinlock: it spins on a plain read of
// the flag until it observes the flag clear, only then attempting the actual
// test-and-set. This keeps spinning threads reading a cached line instead of
// invalidating each other's caches on every attempt, unlike TASLock.
type TTASLock struct {
	_    rt.NoCopy
	flag atomicFlag
}

// Lock blocks until the flag can be set.
func (l *TTASLock) Lock() {
	for {
		for l.flag.test() {
		}
		if !l.flag.testAndSet() {
			return
		}
	}
}

// Unlock clears the flag.
func (l *TTASLock) Unlock() {
	l.flag.clear()
}
