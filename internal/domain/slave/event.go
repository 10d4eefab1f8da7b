package slave

// EventType identifies a category of observable slave lifecycle transition.
type EventType int

// Observable slave events, one per lifecycle transition of interest to
// callers outside the registry.
const (
	// EventActivate fires once a slave has said hello and moved to Resumed.
	EventActivate EventType = iota
	// EventDeactivate fires when a slave is torn down (state -> Terminated).
	EventDeactivate
	// EventDelete fires when a slave record is removed from the registry.
	EventDelete
	// EventFault fires when a launch gets no hello before the activate
	// deadline, or when relaunch retries run out.
	EventFault
	// EventPause fires when a slave completes a pause transition.
	EventPause
	// EventResume fires when a slave completes a resume transition.
	EventResume
)

// String returns the human-readable event name.
//
// Returns:
//   - string: the event name
func (e EventType) String() string {
	// Map each event constant to its string form.
	switch e {
	case EventActivate:
		return "activate"
	case EventDeactivate:
		return "deactivate"
	case EventDelete:
		return "delete"
	case EventFault:
		return "fault"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Vote is the value an observer returns from a notification callback. It
// replaces the sentinel-negative-return idiom: a normal deregistration
// request and a request to reactivate the slave are both first-class values.
type Vote int

const (
	// VoteKeep leaves the observer registered and requests no further action.
	VoteKeep Vote = iota
	// VoteRemove deregisters the observer; it will not be invoked again.
	VoteRemove
	// VoteReactivate requests that the slave be reactivated after this
	// notification completes. Only meaningful for EventDeactivate.
	VoteReactivate
)

// Handler observes a single slave event. It receives the slave the event
// fired on and returns a Vote describing what the core should do next.
type Handler func(*Slave) Vote

// observerEntry pairs a registered handler with an opaque id so it can be
// deregistered by a VoteRemove return during its own invocation, mirroring
// the C idiom where a callback's own return value removes itself.
type observerEntry struct {
	id int
	fn Handler
}
