package plugin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gamemaker/internal/input"
	"github.com/dshills/gamemaker/internal/logging"
	plua "github.com/dshills/gamemaker/internal/plugin/lua"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// Source provides plugin source text. It is consulted only while the
// runner enters.
type Source interface {
	Fetch(ctx context.Context, name string) (string, error)
	RecordUsage(ctx context.Context, name string) error
}

// Options configures a Runner.
type Options struct {
	// Kind selects naming and overlay labels.
	Kind Kind

	// Name is the storage key of the plugin.
	Name string

	// Source supplies the plugin text.
	Source Source

	// Renderer and Touch are the capability objects handed to the plugin.
	// Touch must be free of read side effects, such as screen.Host.Touch.
	Renderer *render.Renderer
	Touch    input.Reader

	// Screens performs the transition back to the explorer.
	Screens screen.Changer

	// Back builds the explorer screen to return to.
	Back func() screen.Screen

	// Clock drives the debounce gate. Nil means the system clock.
	Clock screen.Clock

	// Debounce is the minimum gap between accepted touches.
	Debounce time.Duration

	// CallBudget bounds every guarded plugin call. Zero disables it.
	CallBudget time.Duration

	Logger *logging.Logger
}

// Runner is the screen that loads one plugin and drives it frame by frame.
//
// Every call into plugin code is guarded. Load, contract, update and draw
// faults move the runner to StateErrored, after which the plugin is never
// invoked again; touch handler faults are logged and ignored.
type Runner struct {
	opts   Options
	logger *logging.Logger
	runID  string
	gate   *screen.DebounceGate
	ctrl   controls

	// ctx is the context Enter ran under; Draw and HandleTouch carry none.
	ctx context.Context

	state    *plua.State
	entry    *Entry
	rendUD   lua.LValue
	runState RunState
	frame    int
	fault    *Fault
}

// New creates a runner. Nothing is loaded until Enter.
func New(opts Options) *Runner {
	if opts.Touch == nil {
		opts.Touch = input.None
	}
	id := uuid.NewString()
	return &Runner{
		opts: opts,
		logger: logging.OrNull(opts.Logger).
			WithComponent("runner").
			WithField("plugin", opts.Name).
			WithField("kind", opts.Kind.String()).
			WithField("run", id),
		runID:    id,
		gate:     screen.NewDebounceGate(opts.Debounce, opts.Clock),
		ctrl:     newControls(opts.Kind),
		ctx:      context.Background(),
		runState: StateLoading,
	}
}

// NewGame creates a runner for the game called name.
func NewGame(name string, opts Options) *Runner {
	opts.Kind = KindGame
	opts.Name = name
	return New(opts)
}

// NewApp creates a runner for the app called name.
func NewApp(name string, opts Options) *Runner {
	opts.Kind = KindApp
	opts.Name = name
	return New(opts)
}

// Name implements screen.Screen.
func (r *Runner) Name() string {
	return fmt.Sprintf("%s-runner(%s)", r.opts.Kind, r.opts.Name)
}

// Kind returns the plugin kind.
func (r *Runner) Kind() Kind { return r.opts.Kind }

// Plugin returns the plugin storage key.
func (r *Runner) Plugin() string { return r.opts.Name }

// RunID returns the identifier attached to this runner's log records.
func (r *Runner) RunID() string { return r.runID }

// State returns the current run state.
func (r *Runner) State() RunState { return r.runState }

// Frame returns the frame counter passed to the last update.
func (r *Runner) Frame() int { return r.frame }

// Fault returns the fatal fault, if any.
func (r *Runner) Fault() *Fault { return r.fault }

// Message returns the stored fault message, or "" when healthy.
func (r *Runner) Message() string {
	if r.fault == nil {
		return ""
	}
	return r.fault.Message()
}

// Shape returns the resolved entry shape and whether one was resolved.
func (r *Runner) Shape() (Shape, bool) {
	if r.entry == nil {
		return 0, false
	}
	return r.entry.Shape, true
}

// Closed reports whether the plugin's Lua state has been released.
func (r *Runner) Closed() bool { return r.state == nil }

// Enter loads the plugin. It always leaves the runner in StateRunning or
// StateErrored.
func (r *Runner) Enter(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.ctx = ctx
	r.runState = StateLoading
	r.frame = 0
	r.fault = nil
	r.gate.Reset()

	if err := r.load(ctx); err != nil {
		r.fail(err)
		return
	}
	r.runState = StateRunning
	r.logger.Info("plugin running (%s shape)", r.entry.Shape)
}

func (r *Runner) load(ctx context.Context) error {
	if r.opts.Source == nil {
		return r.newFault(LoadError, PhaseLoad, errors.New("no plugin source configured"))
	}
	src, err := r.opts.Source.Fetch(ctx, r.opts.Name)
	if err != nil {
		return r.newFault(LoadError, PhaseLoad, err)
	}
	r.logger.Debug("source fetched: %d bytes", len(src))

	if err := r.opts.Source.RecordUsage(ctx, r.opts.Name); err != nil {
		r.logger.Warn("record usage failed: %v", err)
	}

	st, err := plua.NewState(
		plua.WithCallBudget(r.opts.CallBudget),
		plua.WithPrint(func(line string) { r.logger.Debug("print: %s", line) }),
	)
	if err != nil {
		return r.newFault(ContractError, PhaseLoad, err)
	}
	r.state = st

	bridge := plua.NewBridge(st.LuaState())
	r.rendUD = bridge.Renderer(r.opts.Renderer)
	touchUD := bridge.Touch(r.opts.Touch)
	st.SetGlobal("renderer", r.rendUD)
	st.SetGlobal("touch", touchUD)

	if err := st.Load(ctx, r.opts.Name, src); err != nil {
		return r.newFault(ContractError, PhaseLoad, err)
	}

	entry, err := resolveEntry(ctx, st, r.opts.Kind, r.rendUD, touchUD)
	if err != nil {
		return r.newFault(ContractError, PhaseLoad, err)
	}
	r.entry = entry
	return nil
}

// Exit releases the plugin. The runner is not reusable afterwards.
func (r *Runner) Exit() {
	if r.state != nil {
		_ = r.state.Close()
		r.state = nil
	}
	r.entry = nil
	r.logger.Debug("plugin released after %d frames", r.frame)
}

// Update advances the frame counter and calls the plugin's update hook.
// Paused and errored plugins are not updated.
func (r *Runner) Update(ctx context.Context) {
	if r.runState != StateRunning || r.entry == nil {
		return
	}
	r.frame++
	if err := r.entry.call(ctx, r.state, r.entry.update, lua.LNumber(r.frame)); err != nil {
		r.fail(r.newFault(RuntimeFault, PhaseUpdate, err))
	}
}

// Draw renders the frame for the current run state and flushes it.
func (r *Runner) Draw() {
	rd := r.opts.Renderer
	if rd == nil {
		return
	}

	switch r.runState {
	case StateErrored:
		drawError(rd, r.ctrl, r.Message())
	case StatePaused:
		drawPaused(rd, r.ctrl, r.opts.Kind.PausedTitle())
	case StateRunning:
		r.drawPlugin()
		r.ctrl.overlay.Draw(rd)
	default:
		drawLoading(rd)
	}

	if err := rd.Flush(); err != nil {
		r.logger.Warn("flush failed: %v", err)
	}
}

func (r *Runner) drawPlugin() {
	if !r.entry.HasDraw() {
		drawNoInterface(r.opts.Renderer)
		return
	}
	if err := r.entry.call(r.ctx, r.state, r.entry.draw, r.rendUD, lua.LNumber(r.frame)); err != nil {
		r.fail(r.newFault(RuntimeFault, PhaseDraw, err))
	}
}

// HandleTouch routes a touch to host controls first, then to the plugin.
func (r *Runner) HandleTouch(x, y int) {
	if !r.gate.Accept() {
		return
	}

	switch r.runState {
	case StateErrored:
		if r.ctrl.back.Contains(x, y) {
			r.logger.Info("leaving errored plugin")
			r.leave()
		}

	case StatePaused:
		switch {
		case r.ctrl.resume.Contains(x, y):
			r.logger.Info("plugin resumed at frame %d", r.frame)
			r.runState = StateRunning
		case r.ctrl.exit.Contains(x, y):
			r.logger.Info("plugin exited from pause")
			r.leave()
		}

	case StateRunning:
		if r.ctrl.overlay.Contains(x, y) {
			r.logger.Info("plugin paused at frame %d", r.frame)
			r.runState = StatePaused
			return
		}
		err := r.entry.call(r.ctx, r.state, r.entry.touch, lua.LNumber(x), lua.LNumber(y))
		if err != nil {
			f := r.newFault(InputFault, PhaseTouch, err)
			r.logger.Warn("%v", f)
		}
	}
}

// leave returns to the explorer. The runner is exited by the transition.
func (r *Runner) leave() {
	if r.opts.Screens == nil || r.opts.Back == nil {
		r.logger.Warn("no explorer to return to")
		return
	}
	r.opts.Screens.ChangeScreen(r.opts.Back())
}

func (r *Runner) newFault(kind FaultKind, phase Phase, err error) *Fault {
	return &Fault{Kind: kind, Phase: phase, Plugin: r.opts.Name, Err: err}
}

// fail records a fatal fault. Errored is absorbing; later faults are
// ignored.
func (r *Runner) fail(err error) {
	if r.runState == StateErrored {
		return
	}
	var f *Fault
	if !errors.As(err, &f) {
		f = r.newFault(RuntimeFault, PhaseUpdate, err)
	}
	r.fault = f
	r.runState = StateErrored
	r.logger.Error("%v", f)
}
