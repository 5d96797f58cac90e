package screen

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dshills/gamemaker/internal/input"
	"github.com/dshills/gamemaker/internal/logging"
)

// Default loop parameters.
const (
	DefaultFPS        = 30
	DefaultStatsEvery = 300
)

// Options configures a Host.
type Options struct {
	// FPS is the target frame rate. Zero means DefaultFPS.
	FPS int

	// Clock paces the loop. Nil means SystemClock.
	Clock Clock

	// Logger receives transition and frame statistics records.
	Logger *logging.Logger

	// StatsEvery is the number of frames between statistics lines. Zero
	// means DefaultStatsEvery; negative disables them.
	StatsEvery int
}

// Host owns the active screen and runs the frame loop.
//
// The host is driven from a single goroutine. ChangeScreen may be called
// from inside any Screen method on that goroutine.
type Host struct {
	active Screen
	input  input.Reader
	clock  Clock
	logger *logging.Logger

	period     time.Duration
	statsEvery int

	// ctx is the context handed to Enter for transitions requested from
	// Screen methods that do not carry one.
	ctx context.Context

	frames    uint64
	lastFrame time.Duration
	last      input.Sample
	running   atomic.Bool
}

// NewHost creates a host reading touches from in.
func NewHost(in input.Reader, opts Options) *Host {
	if in == nil {
		in = input.None
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.StatsEvery == 0 {
		opts.StatsEvery = DefaultStatsEvery
	}
	return &Host{
		input:      in,
		clock:      opts.Clock,
		logger:     logging.OrNull(opts.Logger).WithComponent("host"),
		period:     time.Second / time.Duration(opts.FPS),
		statsEvery: opts.StatsEvery,
		ctx:        context.Background(),
	}
}

// Active returns the active screen, or nil before the first transition.
func (h *Host) Active() Screen { return h.active }

// FramePeriod returns the target duration of one frame.
func (h *Host) FramePeriod() time.Duration { return h.period }

// Frames returns the number of completed loop iterations.
func (h *Host) Frames() uint64 { return h.frames }

// LastFrame returns the measured work time of the last iteration,
// excluding the pacing sleep.
func (h *Host) LastFrame() time.Duration { return h.lastFrame }

// LastSample returns the touch sample read at the start of the current or
// most recent frame.
func (h *Host) LastSample() input.Sample { return h.last }

// Touch returns a reader over LastSample. Reads never advance the
// underlying input, so any number of consumers may poll it each frame.
func (h *Host) Touch() input.Reader {
	return input.ReaderFunc(func() (bool, int, int) {
		return h.last.Pressed, h.last.X, h.last.Y
	})
}

// ChangeScreen exits the active screen, installs next and enters it.
// Enter may itself call ChangeScreen; the host then keeps whatever screen
// is active when the outermost call returns.
func (h *Host) ChangeScreen(next Screen) {
	if next == nil {
		h.logger.Warn("ignoring transition to nil screen")
		return
	}

	from := "none"
	if h.active != nil {
		from = h.active.Name()
	}
	h.logger.Info("screen transition: %s -> %s", from, next.Name())

	if h.active != nil {
		h.logger.Debug("exiting screen %s", from)
		h.active.Exit()
	}
	h.active = next
	h.logger.Debug("entering screen %s", next.Name())
	next.Enter(h.ctx)
}

// Start installs the first screen under ctx without running the loop.
func (h *Host) Start(ctx context.Context, first Screen) {
	h.ctx = ctx
	h.ChangeScreen(first)
}

// Run drives frames until ctx is cancelled and returns ctx.Err(). The
// context is checked only between iterations; a blocking screen stalls
// the loop.
func (h *Host) Run(ctx context.Context) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer h.running.Store(false)

	h.ctx = ctx
	h.logger.Info("frame loop started at %d ms per frame", h.period.Milliseconds())
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("frame loop stopped after %d frames", h.frames)
			return ctx.Err()
		default:
		}
		h.Step(ctx)
	}
}

// RunFrames drives exactly n frames unless ctx is cancelled first.
func (h *Host) RunFrames(ctx context.Context, n int) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer h.running.Store(false)

	h.ctx = ctx
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.Step(ctx)
	}
	return nil
}

// Step runs one frame: input, update, draw, pacing.
func (h *Host) Step(ctx context.Context) {
	start := h.clock.Now()

	pressed, x, y := h.input.Read()
	h.last = input.Sample{Pressed: pressed, X: x, Y: y}
	if pressed && h.active != nil {
		h.logger.Debug("touch at (%d, %d)", x, y)
		h.active.HandleTouch(x, y)
	}
	if h.active != nil {
		h.active.Update(ctx)
	}
	if h.active != nil {
		h.active.Draw()
	}

	elapsed := h.clock.Now().Sub(start)
	h.lastFrame = elapsed
	h.frames++
	if h.statsEvery > 0 && h.frames%uint64(h.statsEvery) == 0 {
		h.logger.Debug("frame %d: %d ms (target %d ms)", h.frames, elapsed.Milliseconds(), h.period.Milliseconds())
	}

	if elapsed < h.period {
		h.clock.Sleep(h.period - elapsed)
	}
}
