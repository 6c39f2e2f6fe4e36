package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/kelvinbeck/synclab"
	"github.com/kelvinbeck/synclab/internal/stress"
)

func TestUnboundedQueueFIFO(t *testing.T) {
	q := NewUnboundedQueue[int]()
	if _, err := q.Dequeue(); err != synclab.ErrEmpty {
		t.Fatalf("Dequeue on empty queue = %v, want ErrEmpty", err)
	}
	for i := range 5 {
		q.Enqueue(i)
	}
	for i := range 5 {
		v, err := q.Dequeue()
		if err != nil || v != i {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, nil)", v, err, i)
		}
	}
}

func TestUnboundedQueueConcurrent(t *testing.T) {
	q := NewUnboundedQueue[int]()
	const producers, perProducer = 8, 100
	err := stress.RunOps(producers, perProducer, func(worker, i int) error {
		q.Enqueue(worker*perProducer + i)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for range producers * perProducer {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatal(err)
		}
		seen[v] = true
	}
	if len(seen) != producers*perProducer {
		t.Fatalf("saw %d distinct values, want %d", len(seen), producers*perProducer)
	}
}

func TestBoundedQueueBlocksAtCapacity(t *testing.T) {
	q := NewBoundedQueue[int](2)
	q.Enqueue(1)
	q.Enqueue(2)

	done := make(chan struct{})
	go func() {
		q.Enqueue(3)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Enqueue should have blocked at capacity")
	case <-time.After(20 * time.Millisecond):
	}

	if v := q.Dequeue(); v != 1 {
		t.Fatalf("Dequeue() = %d, want 1", v)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue never unblocked after a Dequeue freed capacity")
	}
}

func TestBoundedQueueProducerConsumer(t *testing.T) {
	q := NewBoundedQueue[int](4)
	const total = 500
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range total {
			q.Enqueue(i)
		}
	}()
	sum := 0
	go func() {
		defer wg.Done()
		for range total {
			sum += q.Dequeue()
		}
	}()
	wg.Wait()
	want := total * (total - 1) / 2
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
}

func TestLockFreeQueueFIFO(t *testing.T) {
	q := NewLockFreeQueue[int]()
	if _, err := q.Dequeue(); err != synclab.ErrEmpty {
		t.Fatalf("Dequeue on empty queue = %v, want ErrEmpty", err)
	}
	for i := range 5 {
		q.Enqueue(i)
	}
	for i := range 5 {
		v, err := q.Dequeue()
		if err != nil || v != i {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, nil)", v, err, i)
		}
	}
}

func TestLockFreeQueueConcurrent(t *testing.T) {
	q := NewLockFreeQueue[int]()
	const producers, perProducer = 8, 200
	err := stress.RunOps(producers, perProducer, func(worker, i int) error {
		q.Enqueue(worker*perProducer + i)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for {
		if _, err := q.Dequeue(); err != nil {
			break
		}
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("dequeued %d items, want %d", count, producers*perProducer)
	}
}

func TestRecycleQueueFIFO(t *testing.T) {
	q := NewRecycleQueue[int]()
	for i := range 5 {
		q.Enqueue(i)
	}
	for i := range 5 {
		v, err := q.Dequeue()
		if err != nil || v != i {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, nil)", v, err, i)
		}
	}
	if _, err := q.Dequeue(); err != synclab.ErrEmpty {
		t.Fatalf("Dequeue on drained queue = %v, want ErrEmpty", err)
	}
}

func TestRecycleQueueReusesNodes(t *testing.T) {
	q := NewRecycleQueue[int]()
	for range 3 {
		q.Enqueue(1)
		if _, err := q.Dequeue(); err != nil {
			t.Fatal(err)
		}
	}
	if ptr, _ := q.free.Load(); ptr == nil {
		t.Fatal("free list is empty after draining the queue, node was not recycled")
	}
}

func TestSynchronousQueueRendezvous(t *testing.T) {
	q := &SynchronousQueue[int]{}
	go func() { q.Enqueue(42) }()
	if v := q.Dequeue(); v != 42 {
		t.Fatalf("Dequeue() = %d, want 42", v)
	}
}

func TestSynchronousQueueSerializesEnqueues(t *testing.T) {
	q := &SynchronousQueue[int]{}
	var wg sync.WaitGroup
	const n = 20
	wg.Add(n)
	for i := range n {
		go func(v int) {
			defer wg.Done()
			q.Enqueue(v)
		}(i)
	}
	seen := make(map[int]bool)
	for range n {
		seen[q.Dequeue()] = true
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("saw %d distinct values, want %d", len(seen), n)
	}
}
