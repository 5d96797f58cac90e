package plugin

// RunState represents the lifecycle state of a loaded plugin.
type RunState int

// Plugin run states.
const (
	// StateLoading - the runner has not finished Enter.
	StateLoading RunState = iota

	// StateRunning - update and draw are invoked every frame.
	StateRunning

	// StatePaused - update is skipped and the last frame stays frozen
	// under the pause overlay.
	StatePaused

	// StateErrored - the plugin faulted and is never invoked again.
	StateErrored
)

// String returns a string representation of the state.
func (s RunState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// IsLive returns true if plugin code may still be invoked.
func (s RunState) IsLive() bool {
	return s == StateRunning || s == StatePaused
}
