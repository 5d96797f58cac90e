package lua

import (
	"errors"
	"strings"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrSyntax classifies chunks that fail to compile.
	ErrSyntax = errors.New("lua syntax error")

	// ErrRuntime classifies errors raised while Lua code runs, including
	// Go panics recovered from bound functions.
	ErrRuntime = errors.New("lua runtime error")

	// ErrBudgetExceeded classifies calls that ran past their call budget.
	ErrBudgetExceeded = errors.New("lua call budget exceeded")

	// ErrNotCallable is returned when Call is given a non-function value.
	ErrNotCallable = errors.New("lua value is not callable")
)

// ScriptError describes a failed evaluation or call.
type ScriptError struct {
	// Kind is one of ErrSyntax, ErrRuntime or ErrBudgetExceeded.
	Kind error

	// Message is the Lua error value rendered as text, usually prefixed
	// with the chunk name and line.
	Message string

	// Traceback is the Lua stack traceback, when available.
	Traceback string
}

func (e *ScriptError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Kind
}

// FirstLine returns the first line of the message.
func (e *ScriptError) FirstLine() string {
	msg := e.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return strings.TrimSpace(msg[:i])
	}
	return strings.TrimSpace(msg)
}
