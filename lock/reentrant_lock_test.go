package lock

import (
	"sync"
	"testing"
)

func TestReentrantLockRelock(t *testing.T) {
	var l ReentrantLock
	holder := "goroutine-A"

	l.Lock(holder)
	l.Lock(holder)
	if l.HoldCount() != 2 {
		t.Fatalf("HoldCount = %d, want 2", l.HoldCount())
	}
	if err := l.Unlock(holder); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if l.HoldCount() != 1 {
		t.Fatalf("HoldCount = %d, want 1", l.HoldCount())
	}
	if err := l.Unlock(holder); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if l.HoldCount() != 0 {
		t.Fatalf("HoldCount = %d, want 0", l.HoldCount())
	}
}

func TestReentrantLockUnlockByNonOwner(t *testing.T) {
	var l ReentrantLock
	l.Lock("A")
	if err := l.Unlock("B"); err == nil {
		t.Fatal("expected ErrNotOwner, got nil")
	}
	l.Unlock("A")
}

func TestReentrantLockExcludesOtherHolders(t *testing.T) {
	var l ReentrantLock
	const n = 100
	var counter int
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(holder int) {
			defer wg.Done()
			l.Lock(holder)
			counter++
			l.Unlock(holder)
		}(i)
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}
