package rt

import "testing"

func TestDelayResetsSpinsOnSleepPath(t *testing.T) {
	spins := 1 << 30 // force trySpin to report false immediately
	Delay(&spins)
	if spins != 0 {
		t.Fatalf("spins = %d, want 0 after falling back to sleep", spins)
	}
}
