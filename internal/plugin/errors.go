package plugin

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	plua "github.com/dshills/gamemaker/internal/plugin/lua"
)

// Fault sentinels, matched with errors.Is against a *Fault.
var (
	// ErrLoad is returned when plugin source cannot be fetched.
	ErrLoad = errors.New("plugin source unavailable")

	// ErrContract is returned when plugin source does not evaluate to a
	// recognizable entry point.
	ErrContract = errors.New("plugin contract violated")

	// ErrRuntime is returned when plugin update or draw code faults.
	ErrRuntime = errors.New("plugin runtime fault")

	// ErrInput is returned when the plugin touch handler faults.
	ErrInput = errors.New("plugin input fault")

	// ErrNoEntryPoint is the contract failure for sources defining
	// neither shape.
	ErrNoEntryPoint = errors.New("no entry point")
)

// Message length limits.
const (
	// MaxMessageRunes bounds a stored fault message.
	MaxMessageRunes = 200

	// ShownMessageRunes bounds the part of the message drawn on the error
	// panel.
	ShownMessageRunes = 40
)

// FaultKind classifies plugin failures.
type FaultKind int

// Fault kinds.
const (
	// LoadError - source unavailable from storage.
	LoadError FaultKind = iota

	// ContractError - source failed to evaluate or defines no entry point.
	ContractError

	// RuntimeFault - update or draw raised.
	RuntimeFault

	// InputFault - the touch handler raised. Non-fatal.
	InputFault
)

// String returns the fault kind name.
func (k FaultKind) String() string {
	switch k {
	case LoadError:
		return "LoadError"
	case ContractError:
		return "ContractError"
	case RuntimeFault:
		return "RuntimeFault"
	case InputFault:
		return "InputFault"
	default:
		return "UnknownFault"
	}
}

// Fatal reports whether the fault moves the plugin to StateErrored.
func (k FaultKind) Fatal() bool {
	return k != InputFault
}

func (k FaultKind) sentinel() error {
	switch k {
	case LoadError:
		return ErrLoad
	case ContractError:
		return ErrContract
	case InputFault:
		return ErrInput
	default:
		return ErrRuntime
	}
}

// Phase names the runner phase a fault happened in.
type Phase string

// Runner phases.
const (
	PhaseLoad   Phase = "load"
	PhaseUpdate Phase = "update"
	PhaseDraw   Phase = "draw"
	PhaseTouch  Phase = "touch"
)

// Fault is a contained plugin failure.
type Fault struct {
	Kind   FaultKind
	Phase  Phase
	Plugin string
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s in %s %s: %v", f.Kind, f.Plugin, f.Phase, f.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (f *Fault) Unwrap() []error {
	return []error{f.Kind.sentinel(), f.Err}
}

// Message returns the user-facing description, at most MaxMessageRunes
// runes long.
func (f *Fault) Message() string {
	detail := firstLine(f.Err)
	var msg string
	switch {
	case f.Kind == LoadError:
		msg = "could not load: " + detail
	case f.Phase == PhaseLoad:
		msg = "Error: " + detail
	default:
		msg = string(f.Phase) + " error: " + detail
	}
	return truncateRunes(msg, MaxMessageRunes)
}

func firstLine(err error) string {
	if err == nil {
		return ""
	}
	var se *plua.ScriptError
	if errors.As(err, &se) {
		return se.FirstLine()
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
