package reclaim

import "testing"

func TestDomainReserveProtectsFromReclaim(t *testing.T) {
	d := NewDomain[int](2)
	tc := d.RegisterThread()

	val := 42
	if err := tc.TryReserve(0, &val); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}

	tc.SchedForReclaim(&val)
	d.OpEnd(tc)
	if len(tc.pending) != 1 {
		t.Fatal("reserved pointer was reclaimed while still protected")
	}

	tc.Unreserve(0)
	d.OpEnd(tc)
	if len(tc.pending) != 0 {
		t.Fatal("unreserved pointer was not reclaimed")
	}
}

func TestDomainExhaustedSlots(t *testing.T) {
	d := NewDomain[int](1)
	tc := d.RegisterThread()
	v := 1
	if err := tc.TryReserve(0, &v); err != nil {
		t.Fatalf("TryReserve(0): %v", err)
	}
	if err := tc.TryReserve(1, &v); err == nil {
		t.Fatal("TryReserve(1) succeeded on a single-slot context, want ErrExhausted")
	}
}

func TestDomainCrossThreadReservation(t *testing.T) {
	d := NewDomain[int](1)
	writer := d.RegisterThread()
	reader := d.RegisterThread()

	val := 7
	if err := reader.TryReserve(0, &val); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}

	writer.SchedForReclaim(&val)
	d.OpEnd(writer)
	if len(writer.pending) != 1 {
		t.Fatal("another thread's reservation was not honored")
	}

	reader.Unreserve(0)
	d.OpEnd(writer)
	if len(writer.pending) != 0 {
		t.Fatal("pointer not reclaimed after the only reservation was cleared")
	}
}
