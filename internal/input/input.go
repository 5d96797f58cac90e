package input

import "sync"

// Reader returns the latest touch point, or (false, 0, 0) when the panel
// is not being touched.
type Reader interface {
	Read() (pressed bool, x, y int)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() (bool, int, int)

// Read calls f.
func (f ReaderFunc) Read() (bool, int, int) { return f() }

// None is a reader that never reports a touch.
var None Reader = ReaderFunc(func() (bool, int, int) { return false, 0, 0 })

// Latch is a thread-safe single-slot reader fed by an event source running
// on another goroutine.
//
// A press that is released before the next Read is still reported once, so
// quick taps between two frames are not lost.
type Latch struct {
	mu      sync.Mutex
	pressed bool
	pending bool
	x, y    int
}

// NewLatch creates an idle latch.
func NewLatch() *Latch {
	return &Latch{}
}

// Set records the current touch state.
func (l *Latch) Set(pressed bool, x, y int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pressed = pressed
	if pressed {
		l.pending = true
		l.x, l.y = x, y
	}
}

// Read implements Reader.
func (l *Latch) Read() (bool, int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.pressed && !l.pending {
		return false, 0, 0
	}
	l.pending = false
	return true, l.x, l.y
}
