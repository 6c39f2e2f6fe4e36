// Package rt supplies the low-level runtime hooks the rest of this module
// builds on: an adaptive spin/backoff helper and a copy-detection marker.
// None of it is specific to any one lock; every package in this module
// shares it instead of re-declaring the same linkname shims.
package rt

import (
	"time"
	_ "unsafe" // for go:linkname
)

// NoCopy may be embedded in structs that must not be copied after first
// use. It is picked up by `go vet -copylocks`.
//
// See https://golang.org/issues/8005#issuecomment-190753527 for details.
type NoCopy struct{}

// Lock and Unlock are no-ops; their only purpose is to make NoCopy satisfy
// sync.Locker so `go vet -copylocks` flags accidental copies.
func (*NoCopy) Lock()   {}
func (*NoCopy) Unlock() {}

// Delay backs off after a failed spin attempt. It tries a runtime-assisted
// spin first (cheap on a lightly loaded machine) and falls back to a short
// sleep once the runtime decides further spinning isn't worthwhile. *spins
// is the caller's private spin counter, reset to 0 whenever the sleep path
// is taken.
func Delay(spins *int) {
	if trySpin(spins) {
		return
	}
	*spins = 0
	// A short, non-zero sleep is a more effective backoff under heavy
	// contention than a hot Gosched loop. 500us follows Facebook/folly's
	// Sleeper: https://github.com/facebook/folly/blob/main/folly/synchronization/detail/Sleeper.h
	time.Sleep(500 * time.Microsecond)
}

func trySpin(spins *int) bool {
	if runtime_canSpin(*spins) {
		*spins++
		runtime_doSpin()
		return true
	}
	return false
}

//go:linkname runtime_canSpin sync.runtime_canSpin
func runtime_canSpin(i int) bool

//go:linkname runtime_doSpin sync.runtime_doSpin
func runtime_doSpin()
