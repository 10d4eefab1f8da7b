// Package slave provides the domain entity and state machine for a worker
// process supervised by the registry. It is deliberately free of timers,
// RPC, and I/O: those concerns live in the application and infrastructure
// layers so this package can be reasoned about and tested as pure logic.
package slave

// State represents the lifecycle state of a supervised slave.
// It mirrors the state machine driven by the registry's event loop.
type State int

// Slave lifecycle states.
const (
	// StateTerminated is the initial state, and the state a slave returns
	// to once deactivated. No pid is associated with this state.
	StateTerminated State = iota
	// StateRequestToLaunch indicates activate() has been called and the
	// launcher has been invoked, but the worker has not yet said hello.
	StateRequestToLaunch
	// StateResumed is a steady state: the worker is running and unpaused.
	StateResumed
	// StatePaused is a steady state: the worker is running but paused.
	StatePaused
	// StateRequestToPause indicates a pause RPC is in flight.
	StateRequestToPause
	// StateRequestToResume indicates a resume RPC is in flight.
	StateRequestToResume
	// StateRequestToTerminate indicates the slave is about to be torn down.
	StateRequestToTerminate
	// StateError indicates the slave entered an unrecoverable condition.
	StateError
)

// String returns the string representation of the State.
//
// Returns:
//   - string: human-readable state name
func (s State) String() string {
	// Map each state constant to its corresponding string representation.
	switch s {
	// Handle the terminated state.
	case StateTerminated:
		// Return the string for terminated state.
		return "terminated"
	// Handle the request-to-launch state.
	case StateRequestToLaunch:
		// Return the string for request-to-launch state.
		return "request_to_launch"
	// Handle the resumed state.
	case StateResumed:
		// Return the string for resumed state.
		return "resumed"
	// Handle the paused state.
	case StatePaused:
		// Return the string for paused state.
		return "paused"
	// Handle the request-to-pause state.
	case StateRequestToPause:
		// Return the string for request-to-pause state.
		return "request_to_pause"
	// Handle the request-to-resume state.
	case StateRequestToResume:
		// Return the string for request-to-resume state.
		return "request_to_resume"
	// Handle the request-to-terminate state.
	case StateRequestToTerminate:
		// Return the string for request-to-terminate state.
		return "request_to_terminate"
	// Handle the error state.
	case StateError:
		// Return the string for error state.
		return "error"
	// Handle any unknown or invalid state values.
	default:
		// Return unknown for unrecognized states.
		return "unknown"
	}
}

// IsActivated returns true if the slave is considered activated, i.e. any
// state except terminated and request-to-terminate.
//
// Returns:
//   - bool: true if the slave is activated
func (s State) IsActivated() bool {
	// Activated is defined as everything except the two terminal states.
	return s != StateTerminated && s != StateRequestToTerminate
}

// CanTransitionTo checks if a transition to the target state is valid.
//
// A worker process can die at any moment, not only after an orderly
// termination request, so every non-terminated state may collapse
// directly to terminated; that case is handled once, up front, rather
// than repeated in every branch below.
//
// Params:
//   - target: the target state to transition to.
//
// Returns:
//   - bool: true if the transition is valid.
func (s State) CanTransitionTo(target State) bool {
	if target == StateTerminated {
		// Any live state may end in terminated: an abnormal exit, a launch
		// that never said hello, or an orderly request-to-terminate reply.
		return s != StateTerminated
	}
	// Define valid transitions per originating state.
	switch s {
	// From terminated, only a launch request may begin.
	case StateTerminated:
		// Return true only for request-to-launch.
		return target == StateRequestToLaunch
	// From request-to-launch, the worker may say hello (resumed) or the
	// activation may be abandoned (terminate).
	case StateRequestToLaunch:
		// Return true for resumed or request-to-terminate.
		return target == StateResumed || target == StateRequestToTerminate || target == StateError
	// From resumed, a pause may be requested, or termination begun.
	case StateResumed:
		// Return true for request-to-pause or request-to-terminate.
		return target == StateRequestToPause || target == StateRequestToTerminate || target == StateError
	// From paused, a resume may be requested, or termination begun.
	case StatePaused:
		// Return true for request-to-resume or request-to-terminate.
		return target == StateRequestToResume || target == StateRequestToTerminate || target == StateError
	// From request-to-pause, the RPC reply lands on paused (success) or
	// resumed (failure, conservative default), or termination intervenes.
	case StateRequestToPause:
		// Return true for paused, resumed, or request-to-terminate.
		return target == StatePaused || target == StateResumed || target == StateRequestToTerminate
	// From request-to-resume, the RPC reply lands on resumed (success) or
	// paused (failure, conservative default), or termination intervenes.
	case StateRequestToResume:
		// Return true for resumed, paused, or request-to-terminate.
		return target == StateResumed || target == StatePaused || target == StateRequestToTerminate
	// From request-to-terminate, the only other destination is terminated,
	// already handled above.
	case StateRequestToTerminate:
		// No other target is reachable from here.
		return false
	// From error, only a fresh launch request is valid (terminated is
	// already handled above).
	case StateError:
		// Return true only for request-to-launch.
		return target == StateRequestToLaunch
	// Default case for unknown states.
	default:
		// Return false for unknown states.
		return false
	}
}
