package screen

import (
	"context"
	"errors"
)

// ErrAlreadyRunning is returned when Run is called on a running host.
var ErrAlreadyRunning = errors.New("screen: host already running")

// Screen is one UI context. All methods are called from the frame loop
// goroutine.
type Screen interface {
	// Name identifies the screen in logs.
	Name() string

	// Enter is called once when the screen becomes active. It may call
	// ChangeScreen on the host to redirect immediately.
	Enter(ctx context.Context)

	// Exit is called once when the screen is replaced. It cannot fail.
	Exit()

	// Update advances screen logic by one frame. It may block.
	Update(ctx context.Context)

	// Draw renders the screen.
	Draw()

	// HandleTouch receives a pressed touch sample in panel pixels.
	HandleTouch(x, y int)
}

// Changer performs screen transitions. Screens hold a Changer instead of
// the host itself.
type Changer interface {
	ChangeScreen(next Screen)
}

// ChangerFunc adapts a function to the Changer interface.
type ChangerFunc func(next Screen)

// ChangeScreen calls f.
func (f ChangerFunc) ChangeScreen(next Screen) { f(next) }

// Base provides no-op lifecycle methods for embedding.
type Base struct{}

// Enter does nothing.
func (Base) Enter(context.Context) {}

// Exit does nothing.
func (Base) Exit() {}

// Update does nothing.
func (Base) Update(context.Context) {}

// HandleTouch does nothing.
func (Base) HandleTouch(int, int) {}
