package lock

import "sync/atomic"

// atomicFlag is the Go analogue of std::atomic_flag: a single bit with only
// test, test-and-set, and clear operations, shared by the TAS/TTAS/Backoff
// spinlock family.
type atomicFlag struct {
	v atomic.Bool
}

func (f *atomicFlag) test() bool {
	return f.v.Load()
}

func (f *atomicFlag) testAndSet() bool {
	return f.v.Swap(true)
}

func (f *atomicFlag) clear() {
	f.v.Store(false)
}
