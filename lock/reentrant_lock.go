package lock

import (
	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

// ReentrantLock is a mutex that its current holder may relock without
// deadlocking itself, provided it releases it the same number of times.
//
// Go exposes no public goroutine-id API, so unlike a language with native
// thread identity, callers must supply their own comparable "holder token"
// (a goroutine-local value, a request ID, whatever uniquely identifies the
// calling logical thread across its Lock/Unlock pairs) — the same shape
// this module's Backoff-adjacent primitives take an explicit parameter
// instead of relying on hidden per-thread state.
type ReentrantLock struct {
	_     rt.NoCopy
	mu    TTASLock
	cond  ConditionVariable
	owner any
	held  bool
	count int
}

// Lock acquires the lock for holder, or increments the hold count if holder
// already owns it.
func (l *ReentrantLock) Lock(holder any) {
	l.mu.Lock()
	for l.held && l.owner != holder {
		l.cond.Wait(&l.mu)
	}
	l.owner = holder
	l.held = true
	l.count++
	l.mu.Unlock()
}

// Unlock decrements holder's hold count, releasing the lock entirely when it
// reaches zero. Returns synclab.ErrNotOwner if holder does not currently
// hold the lock.
func (l *ReentrantLock) Unlock(holder any) error {
	l.mu.Lock()
	if !l.held || l.owner != holder {
		l.mu.Unlock()
		return synclab.ErrNotOwner
	}
	l.count--
	var last bool
	if l.count == 0 {
		l.held = false
		l.owner = nil
		last = true
	}
	l.mu.Unlock()
	if last {
		l.cond.NotifyAll()
	}
	return nil
}

// HoldCount reports how many Lock calls the current holder has made without
// a matching Unlock. Returns 0 if the lock is free.
func (l *ReentrantLock) HoldCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
