package input

import "sync"

// Sample is one scripted touch reading.
type Sample struct {
	Pressed bool
	X, Y    int
}

// Tap is a pressed sample at (x, y).
func Tap(x, y int) Sample { return Sample{Pressed: true, X: x, Y: y} }

// Script replays a fixed sequence of samples, one per Read, then reports
// no touch forever. It drives headless runs and tests.
type Script struct {
	mu      sync.Mutex
	samples []Sample
	pos     int
}

// NewScript creates a script over samples.
func NewScript(samples ...Sample) *Script {
	return &Script{samples: samples}
}

// Read implements Reader.
func (s *Script) Read() (bool, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.samples) {
		return false, 0, 0
	}
	smp := s.samples[s.pos]
	s.pos++
	if !smp.Pressed {
		return false, 0, 0
	}
	return true, smp.X, smp.Y
}

// Remaining returns how many samples have not been read yet.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples) - s.pos
}
