package lock

import (
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/rt"
)

// BackoffLock is a TTASLock that inserts an exponential backoff between
// failed test-and-set attempts, trading a little latency for much better
// throughput once several goroutines are spinning on the same flag.
type BackoffLock struct {
	_        rt.NoCopy
	flag     atomicFlag
	min, max time.Duration
}

// NewBackoffLock creates a BackoffLock whose retry delay grows from min up
// to max.
func NewBackoffLock(min, max time.Duration) *BackoffLock {
	return &BackoffLock{min: min, max: max}
}

// Lock blocks until the flag can be set.
func (l *BackoffLock) Lock() {
	b := synclab.NewBackoff(l.min, l.max)
	for {
		for l.flag.test() {
		}
		if !l.flag.testAndSet() {
			return
		}
		b.Wait()
	}
}

// Unlock clears the flag.
func (l *BackoffLock) Unlock() {
	l.flag.clear()
}
