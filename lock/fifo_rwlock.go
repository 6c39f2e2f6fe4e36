package lock

import "github.com/kelvinbeck/synclab/internal/rt"

// FIFORWLock is a writer-preferring reader/writer lock: a writer records its
// presence the instant it arrives, so no reader that shows up after it can
// jump the queue. This trades reader throughput (readers now batch behind
// each writer) for eliminating writer starvation, unlike the plain RWLock.
type FIFORWLock struct {
	_          rt.NoCopy
	mu         TTASLock
	cond       ConditionVariable
	numReaders uint64
	hasWriter  bool
	writing    bool
}

// RLock blocks while a writer has arrived or is active, then registers as a
// reader.
func (l *FIFORWLock) RLock() {
	l.mu.Lock()
	for l.hasWriter {
		l.cond.Wait(&l.mu)
	}
	l.numReaders++
	l.mu.Unlock()
}

// RUnlock releases a reader's hold, notifying waiters if this was the last
// reader.
func (l *FIFORWLock) RUnlock() {
	l.mu.Lock()
	l.numReaders--
	last := l.numReaders == 0
	l.mu.Unlock()
	if last {
		l.cond.NotifyAll()
	}
}

// Lock announces this writer immediately (blocking any reader that arrives
// after it), then waits for in-flight readers and any other writer to
// drain before taking the lock.
func (l *FIFORWLock) Lock() {
	l.mu.Lock()
	for l.hasWriter {
		l.cond.Wait(&l.mu)
	}
	l.hasWriter = true
	for l.numReaders > 0 || l.writing {
		l.cond.Wait(&l.mu)
	}
	l.writing = true
	l.mu.Unlock()
}

// Unlock releases the write lock.
func (l *FIFORWLock) Unlock() {
	l.mu.Lock()
	l.writing = false
	l.hasWriter = false
	l.mu.Unlock()
	l.cond.NotifyAll()
}
