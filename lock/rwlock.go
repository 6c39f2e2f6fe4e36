package lock

import "github.com/kelvinbeck/synclab/internal/rt"

// RWLock is a simple, unfair reader/writer lock built on a mutex and a
// condition variable: readers wait while a writer holds the lock, writers
// wait while any reader or writer holds it. It gives no starvation
// guarantee for either side — under a steady stream of readers, a waiting
// writer may wait indefinitely. Use FIFORWLock when that matters.
type RWLock struct {
	_             rt.NoCopy
	mu            TTASLock
	cond          ConditionVariable
	numReaders    uint64
	writerEntered bool
}

// RLock blocks while a writer holds the lock, then registers as a reader.
func (l *RWLock) RLock() {
	l.mu.Lock()
	for l.writerEntered {
		l.cond.Wait(&l.mu)
	}
	l.numReaders++
	l.mu.Unlock()
}

// RUnlock releases a reader's hold, notifying a waiting writer if this was
// the last reader.
func (l *RWLock) RUnlock() {
	l.mu.Lock()
	l.numReaders--
	last := l.numReaders == 0
	l.mu.Unlock()
	if last {
		l.cond.NotifyAll()
	}
}

// Lock blocks until no reader or writer holds the lock, then takes it for
// writing.
func (l *RWLock) Lock() {
	l.mu.Lock()
	for l.numReaders > 0 || l.writerEntered {
		l.cond.Wait(&l.mu)
	}
	l.writerEntered = true
	l.mu.Unlock()
}

// Unlock releases the write lock, notifying waiting readers and writers.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	l.writerEntered = false
	l.mu.Unlock()
	l.cond.NotifyAll()
}
