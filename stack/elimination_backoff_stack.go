package stack

import (
	"math/rand"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/kelvinbeck/synclab"
)

type exchangeState uint64

const (
	exchangeEmpty exchangeState = iota
	exchangeWaiting
	exchangeBusy
)

// exchangeSlot is a stamped pointer whose stamp doubles as the exchanger's
// state, generalizing the same (pointer, generation) indirection this
// module's TaggedPointer uses elsewhere. A pusher offering a value and a
// popper offering nothing rendezvous through exactly one slot.
type exchangeSlot[T any] struct {
	value synclab.TaggedPointer[T]
	_     cpu.CacheLinePad
}

func (s *exchangeSlot[T]) state() exchangeState {
	_, stamp := s.value.Load()
	return exchangeState(stamp % 4)
}

// exchange offers item (nil means "I'm a popper with nothing to offer") and
// returns whatever the other party offered, within timeout. ok is false on
// timeout, in which case the caller should retry the main path instead.
func (s *exchangeSlot[T]) exchange(item *T, timeout time.Duration) (result *T, ok bool) {
	deadline := time.Now().Add(timeout)
	for {
		ptr, stamp := s.value.Load()
		switch exchangeState(stamp % 4) {
		case exchangeEmpty:
			if s.value.CompareAndSwap(ptr, encodeStamp(stamp, exchangeWaiting), item) {
				return s.spinForBusy(item, deadline)
			}
		case exchangeWaiting:
			if s.value.CompareAndSwap(ptr, encodeStamp(stamp, exchangeBusy), item) {
				return ptr, true
			}
		case exchangeBusy:
			// Someone else is mid-handoff; give them a moment.
		}
		if time.Now().After(deadline) {
			return nil, false
		}
	}
}

func (s *exchangeSlot[T]) spinForBusy(mine *T, deadline time.Time) (*T, bool) {
	for time.Now().Before(deadline) {
		ptr, stamp := s.value.Load()
		if exchangeState(stamp%4) == exchangeBusy {
			s.value.Store(nil) // reset to EMPTY (stamp bumps past the BUSY marker)
			return ptr, true
		}
	}
	// Withdraw our offer if nobody showed up.
	ptr, stamp := s.value.Load()
	if exchangeState(stamp%4) == exchangeWaiting && ptr == mine {
		if s.value.CompareAndSwap(ptr, encodeStamp(stamp, exchangeEmpty), nil) {
			return nil, false
		}
	}
	// A partner arrived just as we gave up; take the handoff anyway.
	ptr, stamp = s.value.Load()
	if exchangeState(stamp%4) == exchangeBusy {
		s.value.Store(nil)
		return ptr, true
	}
	return nil, false
}

// encodeStamp folds a new low-order state into an otherwise-incrementing
// stamp, so every transition still bumps the generation TaggedPointer relies
// on for ABA-safety while keeping the low 2 bits as the visible state.
func encodeStamp(prev uint64, s exchangeState) uint64 {
	return (prev - prev%4) + 4 + uint64(s)
}

// EliminationBackoffStack augments TreiberStack with an elimination array:
// when a Push loses the race for top, instead of only backing off and
// retrying, it also tries to hand its value directly to a same-moment Pop
// through a randomly chosen exchanger slot. A successful exchange lets both
// operations return immediately without ever touching top, which is what
// makes this scale better than plain TreiberStack under high contention —
// pushes and pops cancel each other out instead of serializing on one CAS.
type EliminationBackoffStack[T any] struct {
	inner     TreiberStack[T]
	exchanger []exchangeSlot[T]
	timeout   time.Duration
}

// NewEliminationBackoffStack creates an EliminationBackoffStack with the
// given elimination-array size and the same Treiber backoff bounds as
// NewTreiberStack, plus a per-exchange timeout.
func NewEliminationBackoffStack[T any](arraySize int, min, max, exchangeTimeout time.Duration) *EliminationBackoffStack[T] {
	if arraySize <= 0 {
		panic("stack: EliminationBackoffStack arraySize must be positive")
	}
	return &EliminationBackoffStack[T]{
		inner:     *NewTreiberStack[T](min, max),
		exchanger: make([]exchangeSlot[T], arraySize),
		timeout:   exchangeTimeout,
	}
}

func (s *EliminationBackoffStack[T]) randomSlot() *exchangeSlot[T] {
	return &s.exchanger[rand.Intn(len(s.exchanger))]
}

// Push adds value to the stack.
func (s *EliminationBackoffStack[T]) Push(value T) {
	node := &treiberNode[T]{value: value}
	for {
		top := s.inner.top.Load()
		node.next = top
		if s.inner.top.CompareAndSwap(top, node) {
			return
		}
		if partner, ok := s.randomSlot().exchange(&value, s.timeout); ok && partner == nil {
			return
		}
	}
}

// Pop removes and returns the top value, or synclab.ErrEmpty if the stack
// is empty.
func (s *EliminationBackoffStack[T]) Pop() (T, error) {
	for {
		top := s.inner.top.Load()
		if top == nil {
			if partner, ok := s.randomSlot().exchange(nil, s.timeout); ok && partner != nil {
				return *partner, nil
			}
			var zero T
			return zero, synclab.ErrEmpty
		}
		next := top.next
		if s.inner.top.CompareAndSwap(top, next) {
			s.inner.reclaim(top)
			return top.value, nil
		}
		if partner, ok := s.randomSlot().exchange(nil, s.timeout); ok && partner != nil {
			return *partner, nil
		}
	}
}
