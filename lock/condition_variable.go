package lock

import (
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

// Locker is any lock a ConditionVariable can be used with — sync.Mutex and
// every mutual-exclusion type in this package satisfy it.
type Locker interface {
	Lock()
	Unlock()
}

// waiterSignal is a single-use, one-shot wakeup: exactly one notifier ever
// closes it, exactly one waiter ever parks on it. Closing a channel exactly
// once gives Wait and WaitFor a single primitive that both blocks and
// composes with a timer via select.
type waiterSignal struct {
	ch   chan struct{}
	next *waiterSignal
}

func newWaiterSignal() *waiterSignal { return &waiterSignal{ch: make(chan struct{})} }

func (w *waiterSignal) set() { close(w.ch) }

// ConditionVariable is a hand-built condition variable: waiters register a
// single-use signal in an internal list before releasing the associated
// mutex, so a notifier can never race ahead of a not-yet-registered waiter
// and lose a wakeup.
type ConditionVariable struct {
	_    rt.NoCopy
	mu   TTASLock // guards the waiter list only, never held across Wait
	head *waiterSignal
	tail *waiterSignal
}

func (c *ConditionVariable) enqueue(w *waiterSignal) {
	c.mu.Lock()
	if c.tail == nil {
		c.head, c.tail = w, w
	} else {
		c.tail.next = w
		c.tail = w
	}
	c.mu.Unlock()
}

// remove drops w from the waiter list if it is still present, reporting
// whether it found it. Used by WaitFor to reclaim ownership of a signal on
// timeout, avoiding a race with a notifier that pops it concurrently.
func (c *ConditionVariable) remove(w *waiterSignal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	var prev *waiterSignal
	for cur := c.head; cur != nil; cur = cur.next {
		if cur == w {
			if prev == nil {
				c.head = cur.next
			} else {
				prev.next = cur.next
			}
			if cur == c.tail {
				c.tail = prev
			}
			return true
		}
		prev = cur
	}
	return false
}

func (c *ConditionVariable) popOne() *waiterSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.head
	if w == nil {
		return nil
	}
	c.head = w.next
	if c.head == nil {
		c.tail = nil
	}
	w.next = nil
	return w
}

func (c *ConditionVariable) popAll() *waiterSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.head
	c.head, c.tail = nil, nil
	return w
}

// Wait atomically releases mu and blocks until notified, then reacquires mu
// before returning. The caller must hold mu.
func (c *ConditionVariable) Wait(mu Locker) {
	w := newWaiterSignal()
	c.enqueue(w)
	mu.Unlock()
	<-w.ch
	mu.Lock()
}

// WaitFor is Wait bounded by a duration. Returns synclab.ErrTimeout if the
// duration elapses before a notification arrives; the caller holds mu again
// on return either way.
func (c *ConditionVariable) WaitFor(mu Locker, d time.Duration) error {
	w := newWaiterSignal()
	c.enqueue(w)
	mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-w.ch:
		mu.Lock()
		return nil
	case <-timer.C:
		if c.remove(w) {
			mu.Lock()
			return synclab.ErrTimeout
		}
		// A notifier already popped w and is about to (or just did) close
		// it; wait for that close so we don't return before it happens.
		<-w.ch
		mu.Lock()
		return nil
	}
}

// WaitUntil is WaitFor bounded by an absolute deadline instead of a
// duration.
func (c *ConditionVariable) WaitUntil(mu Locker, deadline time.Time) error {
	return c.WaitFor(mu, time.Until(deadline))
}

// WaitFunc waits until pred returns true, reacquiring mu and rechecking pred
// after every wakeup to guard against spurious or stale notifications.
func (c *ConditionVariable) WaitFunc(mu Locker, pred func() bool) {
	for !pred() {
		c.Wait(mu)
	}
}

// NotifyOne wakes at most one waiting goroutine, if any are waiting.
func (c *ConditionVariable) NotifyOne() {
	if w := c.popOne(); w != nil {
		w.set()
	}
}

// NotifyAll wakes every goroutine currently waiting.
func (c *ConditionVariable) NotifyAll() {
	for w := c.popAll(); w != nil; w = w.next {
		w.set()
	}
}
