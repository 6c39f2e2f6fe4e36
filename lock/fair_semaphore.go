package lock

import (
	"time"

	"github.com/kelvinbeck/synclab/internal/rt"
)

// fairTicket is one waiter's place in a FairSemaphore's queue.
type fairTicket struct {
	n    int64
	prev *fairTicket
	next *fairTicket
}

// FairSemaphore is a counting semaphore with strict FIFO fairness: waiters
// enqueue a ticket in arrival order and are only served once every earlier
// ticket has been served, unlike a plain Semaphore where a goroutine that
// wakes first can steal permits out of arrival order. A waiter that gives
// up on TryAcquireFor unlinks its own ticket, so a slow request at the
// front of the line cannot stall everyone behind it once it abandons.
type FairSemaphore struct {
	_     rt.NoCopy
	mu    TTASLock
	cond  ConditionVariable
	value int64
	head  *fairTicket
	tail  *fairTicket
}

// NewFairSemaphore creates a FairSemaphore initialized with the given
// number of permits.
func NewFairSemaphore(initial int64) *FairSemaphore {
	return &FairSemaphore{value: initial}
}

func (s *FairSemaphore) enqueue(t *fairTicket) {
	if s.tail == nil {
		s.head, s.tail = t, t
		return
	}
	t.prev = s.tail
	s.tail.next = t
	s.tail = t
}

func (s *FairSemaphore) unlink(t *fairTicket) {
	if t.prev != nil {
		t.prev.next = t.next
	} else {
		s.head = t.next
	}
	if t.next != nil {
		t.next.prev = t.prev
	} else {
		s.tail = t.prev
	}
}

func (s *FairSemaphore) canServe(t *fairTicket) bool {
	return s.head == t && s.value >= t.n
}

// Acquire blocks until it is this call's turn and n permits are available.
func (s *FairSemaphore) Acquire(n int64) {
	s.mu.Lock()
	t := &fairTicket{n: n}
	s.enqueue(t)
	for !s.canServe(t) {
		s.cond.Wait(&s.mu)
	}
	s.value -= n
	s.unlink(t)
	s.mu.Unlock()
	s.cond.NotifyAll()
}

// Release returns n permits, waking waiters so the head of the line can
// reevaluate.
func (s *FairSemaphore) Release(n int64) {
	s.mu.Lock()
	s.value += n
	s.mu.Unlock()
	s.cond.NotifyAll()
}

// TryAcquire takes n permits only if the queue is empty and they are
// immediately available, so it never jumps ahead of a waiting Acquire.
func (s *FairSemaphore) TryAcquire(n int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil || s.value < n {
		return false
	}
	s.value -= n
	return true
}

// TryAcquireFor is Acquire bounded by a duration. On timeout it removes its
// own ticket from the queue so later waiters are not blocked by it.
func (s *FairSemaphore) TryAcquireFor(n int64, d time.Duration) bool {
	deadline := time.Now().Add(d)
	s.mu.Lock()
	t := &fairTicket{n: n}
	s.enqueue(t)
	for !s.canServe(t) {
		remaining := time.Until(deadline)
		if remaining <= 0 || s.cond.WaitFor(&s.mu, remaining) != nil {
			s.unlink(t)
			s.mu.Unlock()
			s.cond.NotifyAll()
			return false
		}
	}
	s.value -= n
	s.unlink(t)
	s.mu.Unlock()
	s.cond.NotifyAll()
	return true
}

// GetValue returns the current permit count.
func (s *FairSemaphore) GetValue() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
