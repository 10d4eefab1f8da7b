package slave

import "errors"

// Sentinel errors returned by slave operations. The core surfaces errors as
// values, never as control-flow panics; callers compare with errors.Is.
var (
	// ErrAlready indicates the requested operation is redundant given the
	// slave's current state (e.g. resuming an already-resumed slave).
	ErrAlready = errors.New("slave: operation already satisfied")

	// ErrInvalid indicates the operation is not valid from the slave's
	// current state.
	ErrInvalid = errors.New("slave: invalid state for operation")

	// ErrNotExist indicates no slave record matches the lookup.
	ErrNotExist = errors.New("slave: no matching record")

	// ErrFault indicates a downstream operation (launcher, RPC) failed.
	ErrFault = errors.New("slave: downstream operation failed")

	// ErrNameTaken indicates a slave with the given name already exists.
	ErrNameTaken = errors.New("slave: name already registered")
)
