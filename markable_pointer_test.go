package synclab

import "testing"

func TestMarkablePointerLoadStore(t *testing.T) {
	var p MarkablePointer[int]
	ptr, mark := p.Load()
	if ptr != nil || mark {
		t.Fatalf("zero value = (%v, %v), want (nil, false)", ptr, mark)
	}
	v := 5
	p.Store(&v, true)
	ptr, mark = p.Load()
	if ptr != &v || !mark {
		t.Fatalf("Load() = (%v, %v), want (%v, true)", ptr, mark, &v)
	}
}

func TestMarkablePointerAttemptMark(t *testing.T) {
	var p MarkablePointer[int]
	v := 1
	p.Store(&v, false)

	if !p.AttemptMark(&v, true) {
		t.Fatal("AttemptMark failed against the current reference")
	}
	if !p.IsMarked() {
		t.Fatal("IsMarked() = false after successful AttemptMark")
	}
	if p.GetReference() != &v {
		t.Fatal("AttemptMark changed the pointer, it should only touch the mark bit")
	}

	other := 2
	if p.AttemptMark(&other, true) {
		t.Fatal("AttemptMark succeeded against a stale reference")
	}
}

func TestMarkablePointerCompareAndSwap(t *testing.T) {
	var p MarkablePointer[int]
	a, b := 1, 2
	p.Store(&a, false)

	if !p.CompareAndSwap(&a, false, &b, true) {
		t.Fatal("CompareAndSwap failed on matching (ptr, mark)")
	}
	ptr, mark := p.Load()
	if ptr != &b || !mark {
		t.Fatalf("Load() = (%v, %v), want (%v, true)", ptr, mark, &b)
	}
	if p.CompareAndSwap(&a, false, &b, false) {
		t.Fatal("CompareAndSwap succeeded on stale (ptr, mark)")
	}
}
