package screen

import "time"

// DefaultDebounce is the debounce window used when none is configured.
const DefaultDebounce = 20 * time.Millisecond

// DebounceGate admits a touch only if strictly more than the window has
// elapsed since the last admitted touch. Rejected touches are dropped and
// do not move the window.
type DebounceGate struct {
	window time.Duration
	clock  Clock
	last   time.Time
	seen   bool
}

// NewDebounceGate creates a gate. A nil clock uses the system clock and a
// negative window is treated as zero.
func NewDebounceGate(window time.Duration, clock Clock) *DebounceGate {
	if clock == nil {
		clock = SystemClock{}
	}
	return &DebounceGate{window: max(window, 0), clock: clock}
}

// Window returns the configured debounce window.
func (g *DebounceGate) Window() time.Duration { return g.window }

// Accept reports whether a touch arriving now is a distinct action.
func (g *DebounceGate) Accept() bool {
	now := g.clock.Now()
	if g.seen && now.Sub(g.last) <= g.window {
		return false
	}
	g.last = now
	g.seen = true
	return true
}

// Reset forgets the last accepted touch.
func (g *DebounceGate) Reset() {
	g.seen = false
	g.last = time.Time{}
}
