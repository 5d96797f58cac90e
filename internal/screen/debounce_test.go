package screen

import (
	"testing"
	"time"
)

func TestDebounceGate(t *testing.T) {
	clock := NewManualClock(time.Unix(100, 0))
	g := NewDebounceGate(20*time.Millisecond, clock)

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true}, // first touch always accepted
		{5 * time.Millisecond, false},
		{15 * time.Millisecond, false}, // exactly the window
		{1 * time.Millisecond, true},
		{19 * time.Millisecond, false},
		{2 * time.Millisecond, true}, // rejected touches do not move the window
	}
	for i, s := range steps {
		clock.Advance(s.advance)
		if got := g.Accept(); got != s.want {
			t.Errorf("step %d: Accept = %v, want %v", i, got, s.want)
		}
	}
}

// Two samples less than the window apart yield exactly one accepted touch.
func TestDebounceWithinWindow(t *testing.T) {
	for _, gap := range []time.Duration{0, time.Millisecond, 10 * time.Millisecond, 19 * time.Millisecond} {
		clock := NewManualClock(time.Unix(0, 0))
		g := NewDebounceGate(20*time.Millisecond, clock)
		accepted := 0
		if g.Accept() {
			accepted++
		}
		clock.Advance(gap)
		if g.Accept() {
			accepted++
		}
		if accepted != 1 {
			t.Errorf("gap %v: accepted %d touches, want 1", gap, accepted)
		}
	}
}

func TestDebounceReset(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	g := NewDebounceGate(time.Second, clock)
	g.Accept()
	g.Reset()
	if !g.Accept() {
		t.Error("Accept after Reset rejected")
	}
}

func TestDebounceZeroWindow(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	g := NewDebounceGate(-time.Second, clock)
	if g.Window() != 0 {
		t.Errorf("Window = %v", g.Window())
	}
	g.Accept()
	if g.Accept() {
		t.Error("same instant accepted twice with zero window")
	}
	clock.Advance(time.Nanosecond)
	if !g.Accept() {
		t.Error("later touch rejected with zero window")
	}
}
