// Package transport defines the ports through which the core reaches the
// two collaborators explicitly kept out of scope: the worker RPC channel
// and the client notification channel. Both are referenced only by
// interface; no wire protocol is implemented here.
package transport

import "context"

// FaultNotice is the no-acknowledgement notification emitted to clients
// once a fault has been attributed to a package.
type FaultNotice struct {
	// Package is the blamed package name.
	Package string
	// Filename is the blamed call site's source file, may be empty.
	Filename string
	// Funcname is the blamed function, may be empty.
	Funcname string
}

// WorkerRPC is the outbound request/reply channel to a worker process.
// A non-zero reply code means failure; callers leave the slave in the
// opposite steady state rather than retry.
type WorkerRPC interface {
	// Pause asks the worker identified by slaveName to pause at timestamp.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - slaveName: the target slave's stable name
	//   - timestamp: the pause timestamp, seconds since epoch
	//
	// Returns:
	//   - int: 0 on success, any other value on failure
	//   - error: non-nil only for transport-level failures
	Pause(ctx context.Context, slaveName string, timestamp float64) (int, error)

	// Resume asks the worker identified by slaveName to resume at timestamp.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - slaveName: the target slave's stable name
	//   - timestamp: the resume timestamp, seconds since epoch
	//
	// Returns:
	//   - int: 0 on success, any other value on failure
	//   - error: non-nil only for transport-level failures
	Resume(ctx context.Context, slaveName string, timestamp float64) (int, error)
}

// ClientBroadcaster delivers fault notices to connected clients. Both
// methods are fire-and-forget; neither blocks on client acknowledgement.
type ClientBroadcaster interface {
	// Broadcast delivers notice to every connected client.
	//
	// Params:
	//   - notice: the fault notice to deliver
	Broadcast(notice FaultNotice)

	// Unicast delivers notice to a single client.
	//
	// Params:
	//   - clientID: the target client's identifier
	//   - notice: the fault notice to deliver
	Unicast(clientID string, notice FaultNotice)
}

// CrashLogReader reads and purges the crash log left behind by a worker
// process that has just died, used as the fault manager's tier-1 evidence.
type CrashLogReader interface {
	// ReadFirstLine returns the first line of the crash log for pid, if any.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - pid: the dead worker's process id
	//
	// Returns:
	//   - string: the first line of the log, empty if no log exists
	//   - error: non-nil on an unexpected I/O failure
	ReadFirstLine(ctx context.Context, pid int) (string, error)

	// Purge removes the crash log for pid after it has been consulted.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - pid: the dead worker's process id
	//
	// Returns:
	//   - error: non-nil on an unexpected I/O failure
	Purge(ctx context.Context, pid int) error
}
