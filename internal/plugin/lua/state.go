package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallBudget bounds the wall time of a single guarded call.
const DefaultCallBudget = 2 * time.Second

// State wraps gopher-lua for plugin execution.
//
// gopher-lua's LState is not goroutine-safe. A State belongs to the frame
// loop goroutine and must not be shared.
//
// Every Call runs protected: Lua errors, Go panics raised by bound
// functions and budget overruns come back as *ScriptError values rather
// than unwinding into the caller.
type State struct {
	L *lua.LState

	budget  time.Duration
	print   func(string)
	sandbox *Sandbox
	getter  *lua.LFunction

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallBudget sets the per-call wall time limit. Zero disables it.
//
// The limit is enforced through the state's context, which the VM checks
// between instructions, so tight Lua loops are interrupted. Time spent
// inside a single bound Go function is not.
func WithCallBudget(d time.Duration) StateOption {
	return func(s *State) {
		s.budget = max(d, 0)
	}
}

// WithPrint routes Lua print output to fn, one call per print.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a fresh sandboxed Lua state. Each plugin load gets its
// own state, so no globals leak between plugins.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		budget: DefaultCallBudget,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.print)
	state.sandbox.Install()

	state.getter = L.NewFunction(func(L *lua.LState) int {
		L.Push(L.GetField(L.Get(1), L.CheckString(2)))
		return 1
	})

	return state, nil
}

// openSafeLibraries opens only the libraries plugins are allowed to use.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, package and channel are never opened.
}

// Budget returns the per-call wall time limit.
func (s *State) Budget() time.Duration { return s.budget }

// Load compiles source under the given chunk name and runs it once.
func (s *State) Load(ctx context.Context, name, source string) error {
	if s.closed {
		return ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(source), name)
	if err != nil {
		return &ScriptError{Kind: ErrSyntax, Message: apiMessage(err)}
	}
	_, err = s.Call(ctx, fn, 0)
	return err
}

// Call invokes fn with args and returns exactly nret results.
func (s *State) Call(ctx context.Context, fn lua.LValue, nret int, args ...lua.LValue) (results []lua.LValue, err error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	if fn == nil || fn.Type() != lua.LTFunction {
		return nil, ErrNotCallable
	}
	if ctx == nil {
		ctx = context.Background()
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	if callCtx.Done() != nil {
		s.L.SetContext(callCtx)
		defer s.L.RemoveContext()
	}

	top := s.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			s.L.SetTop(top)
			results = nil
			err = &ScriptError{Kind: ErrRuntime, Message: fmt.Sprintf("go panic: %v", r)}
		}
	}()

	if callErr := s.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); callErr != nil {
		s.L.SetTop(top)
		return nil, s.classify(ctx, callCtx, callErr)
	}

	results = make([]lua.LValue, nret)
	for i := range results {
		results[i] = s.L.Get(top + 1 + i)
	}
	s.L.SetTop(top)
	return results, nil
}

func (s *State) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.budget <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.budget)
}

func (s *State) classify(parent, callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &ScriptError{
			Kind:    ErrBudgetExceeded,
			Message: fmt.Sprintf("call exceeded %s budget", s.budget),
		}
	}
	if perr := parent.Err(); perr != nil {
		return fmt.Errorf("lua call interrupted: %w", perr)
	}

	se := &ScriptError{Kind: ErrRuntime, Message: apiMessage(err)}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		se.Traceback = apiErr.StackTrace
		if apiErr.Type == lua.ApiErrorSyntax {
			se.Kind = ErrSyntax
		}
	}
	return se
}

// apiMessage renders the Lua error value without traceback noise.
func apiMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return strings.TrimSpace(apiErr.Object.String())
	}
	return strings.TrimSpace(err.Error())
}

// Global returns a global variable value.
func (s *State) Global(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// Field looks up key on a table or userdata, honoring __index. The lookup
// runs as a guarded call, so a faulting __index handler yields an error.
// Other value types have no fields and yield nil.
func (s *State) Field(ctx context.Context, obj lua.LValue, key string) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	switch obj.Type() {
	case lua.LTTable, lua.LTUserData:
	default:
		return lua.LNil, nil
	}
	res, err := s.Call(ctx, s.getter, 1, obj, lua.LString(key))
	if err != nil {
		return lua.LNil, err
	}
	return res[0], nil
}

// LuaState returns the underlying gopher-lua state. Calls made directly on
// it bypass budget enforcement and error classification.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Sandbox returns the installed sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state. It is safe to call more than once.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
