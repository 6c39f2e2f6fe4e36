package stack

import (
	"sync"
	"testing"
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/stress"
	"github.com/kelvinbeck/synclab/reclaim"
)

func TestTreiberStackLIFO(t *testing.T) {
	s := NewTreiberStack[int](time.Microsecond, 100*time.Microsecond)
	if _, err := s.Pop(); err != synclab.ErrEmpty {
		t.Fatalf("Pop on empty stack = %v, want ErrEmpty", err)
	}
	s.Push(1)
	s.Push(2)
	s.Push(3)
	for _, want := range []int{3, 2, 1} {
		v, err := s.Pop()
		if err != nil || v != want {
			t.Fatalf("Pop() = (%d, %v), want (%d, nil)", v, err, want)
		}
	}
}

func TestTreiberStackConcurrent(t *testing.T) {
	s := NewTreiberStack[int](time.Microsecond, 100*time.Microsecond)
	const workers, perWorker = 8, 200
	err := stress.RunOps(workers, perWorker, func(worker, i int) error {
		s.Push(worker*perWorker + i)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for {
		if _, err := s.Pop(); err != nil {
			break
		}
		count++
	}
	if count != workers*perWorker {
		t.Fatalf("popped %d items, want %d", count, workers*perWorker)
	}
}

func TestTreiberStackWithReclaimDomain(t *testing.T) {
	domain := reclaim.NewDomain[treiberNode[int]](1)
	s := NewTreiberStack[int](time.Microsecond, 100*time.Microsecond, WithReclaimDomain(domain))
	const workers, perWorker = 8, 200
	err := stress.RunOps(workers, perWorker, func(worker, i int) error {
		s.Push(worker*perWorker + i)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for {
		if _, err := s.Pop(); err != nil {
			break
		}
		count++
	}
	if count != workers*perWorker {
		t.Fatalf("popped %d items, want %d", count, workers*perWorker)
	}
}

func TestEliminationBackoffStackLIFOWhenUncontended(t *testing.T) {
	s := NewEliminationBackoffStack[int](4, time.Microsecond, 100*time.Microsecond, 5*time.Millisecond)
	s.Push(1)
	s.Push(2)
	v, err := s.Pop()
	if err != nil || v != 2 {
		t.Fatalf("Pop() = (%d, %v), want (2, nil)", v, err)
	}
}

func TestEliminationBackoffStackConcurrent(t *testing.T) {
	s := NewEliminationBackoffStack[int](8, time.Microsecond, 100*time.Microsecond, 5*time.Millisecond)
	const total = 500
	var wg sync.WaitGroup
	wg.Add(2)
	pushed := make(chan int, total)
	go func() {
		defer wg.Done()
		for i := range total {
			s.Push(i)
			pushed <- i
		}
		close(pushed)
	}()
	popped := 0
	go func() {
		defer wg.Done()
		for range pushed {
		}
		for {
			if _, err := s.Pop(); err != nil {
				break
			}
			popped++
		}
	}()
	wg.Wait()
	if popped != total {
		t.Fatalf("popped %d items, want %d", popped, total)
	}
}
