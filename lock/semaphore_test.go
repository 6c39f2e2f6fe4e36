package lock

import (
	"sync"
	"testing"
	"time"
)

func TestSemaphoreAcquireRelease(t *testing.T) {
	s := NewSemaphore(3)
	s.Acquire(3)
	if s.TryAcquire(1) {
		t.Fatal("TryAcquire succeeded with no permits left")
	}
	s.Release(3)
	if s.GetValue() != 3 {
		t.Fatalf("GetValue = %d, want 3", s.GetValue())
	}
}

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	const maxConcurrent = 4
	s := NewSemaphore(maxConcurrent)
	var active, seenMax int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			s.Acquire(1)
			mu.Lock()
			active++
			if active > seenMax {
				seenMax = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			s.Release(1)
		}()
	}
	wg.Wait()
	if seenMax > maxConcurrent {
		t.Fatalf("observed %d concurrent holders, want <= %d", seenMax, maxConcurrent)
	}
}

func TestSemaphoreTryAcquireForTimesOut(t *testing.T) {
	s := NewSemaphore(0)
	if s.TryAcquireFor(1, 10*time.Millisecond) {
		t.Fatal("TryAcquireFor succeeded with no permits ever released")
	}
}
