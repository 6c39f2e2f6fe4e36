package lock

import (
	"time"

	"github.com/kelvinbeck/synclab/internal/rt"
)

// Semaphore is a classic counting semaphore built on a mutex and condition
// variable: Acquire blocks while fewer than n permits are available,
// Release adds permits back and wakes waiters. It gives no ordering
// guarantee among waiters — see FairSemaphore for strict FIFO wakeup.
type Semaphore struct {
	_     rt.NoCopy
	mu    TTASLock
	cond  ConditionVariable
	value int64
}

// NewSemaphore creates a Semaphore initialized with the given number of
// permits.
func NewSemaphore(initial int64) *Semaphore {
	return &Semaphore{value: initial}
}

// Acquire blocks until n permits are available, then takes them.
func (s *Semaphore) Acquire(n int64) {
	s.mu.Lock()
	for s.value < n {
		s.cond.Wait(&s.mu)
	}
	s.value -= n
	s.mu.Unlock()
}

// Release returns n permits, waking waiters that can now proceed.
func (s *Semaphore) Release(n int64) {
	s.mu.Lock()
	s.value += n
	s.mu.Unlock()
	s.cond.NotifyAll()
}

// TryAcquire takes n permits only if they are immediately available.
func (s *Semaphore) TryAcquire(n int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value < n {
		return false
	}
	s.value -= n
	return true
}

// TryAcquireFor is Acquire bounded by a duration; it returns false if the
// duration elapses before n permits become available.
func (s *Semaphore) TryAcquireFor(n int64, d time.Duration) bool {
	deadline := time.Now().Add(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.value < n {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if s.cond.WaitFor(&s.mu, remaining) != nil {
			return false
		}
	}
	s.value -= n
	return true
}

// GetValue returns the current permit count.
func (s *Semaphore) GetValue() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
