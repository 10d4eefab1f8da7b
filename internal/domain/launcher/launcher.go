// Package launcher defines the port through which the registry spawns a
// worker process for a package, and the coarse result classification it
// relies on to decide between a hard failure, a transient failure worth
// retrying, or a successful launch.
package launcher

import "context"

// Outcome coarsely classifies a launch attempt's result.
type Outcome int

const (
	// OutcomeSuccess indicates the worker process was started; a pid is
	// available.
	OutcomeSuccess Outcome = iota
	// OutcomeTransient indicates a recoverable failure; the caller should
	// retry after a delay.
	OutcomeTransient
	// OutcomeHard indicates a failure that retrying will not fix; the
	// caller should let the activation deadline surface the fault instead.
	OutcomeHard
)

// Code enumerates the coarse result codes a Launcher may return, mirroring
// the small fixed vocabulary an external process-launch facility reports.
type Code int

const (
	// CodeOK indicates a successful launch with a pid already known.
	CodeOK Code = iota
	// CodeLocal indicates a successful launch of a local process.
	CodeLocal
	// CodeTimeout indicates the launch request itself timed out.
	CodeTimeout
	// CodeComm indicates a transport/communication error while launching.
	CodeComm
	// CodeTerminating indicates the launch facility is shutting down.
	CodeTerminating
	// CodeCanceled indicates the launch request was canceled.
	CodeCanceled
	// CodeNoLaunchpad indicates no launch facility is available.
	CodeNoLaunchpad
	// CodeIllegalAccess indicates the caller lacks permission to launch.
	CodeIllegalAccess
	// CodeInvalid indicates the launch request was malformed.
	CodeInvalid
	// CodeNoInit indicates the launch facility has not been initialized.
	CodeNoInit
	// CodeError indicates an unspecified launch failure.
	CodeError
)

// Outcome classifies the coarse code into success, transient, or hard, per
// the registry's activate() result-mapping rules.
//
// Returns:
//   - Outcome: the coarse classification for this code
func (c Code) Outcome() Outcome {
	switch c {
	// Success codes: a pid is available, no retry needed.
	case CodeOK, CodeLocal:
		return OutcomeSuccess
	// Transient codes: worth a relaunch_timer retry.
	case CodeTimeout, CodeComm, CodeTerminating, CodeCanceled:
		return OutcomeTransient
	// Everything else (no launchpad, illegal access, invalid, no init,
	// unspecified error) is a hard failure: retrying will not help.
	default:
		return OutcomeHard
	}
}

// Envelope describes the launch request passed to the external launcher.
type Envelope struct {
	// Name is the slave's stable identifier.
	Name string
	// Secured marks a slave dedicated to a single package.
	Secured bool
	// ABI is the worker ABI to launch.
	ABI string
}

// Result is the outcome of a single launch attempt.
type Result struct {
	// PID is the spawned process id. Only meaningful when Code.Outcome()
	// is OutcomeSuccess.
	PID int
	// Code is the coarse result code reported by the launcher.
	Code Code
}

// Launcher spawns a worker process for a package on behalf of the
// registry. Implementations are expected to return promptly; the registry
// treats the call as an atomic operation from the event loop's
// perspective and holds a short-lived mutex around it.
type Launcher interface {
	// Launch starts (or requests the start of) the worker process that
	// will host pkgname, using env to describe the slave it is being
	// launched for.
	//
	// Params:
	//   - ctx: cancellation and deadline for the launch attempt
	//   - pkgname: the package the launched worker will host
	//   - env: the launch envelope describing the target slave
	//
	// Returns:
	//   - Result: the coarse outcome of the attempt
	//   - error: non-nil only for unexpected local failures; coarse launch
	//     failures are communicated through Result.Code, not error
	Launch(ctx context.Context, pkgname string, env Envelope) (Result, error)

	// Terminate asks the OS to stop the worker process identified by pid.
	// It is best-effort: an already-dead pid is not an error.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - pid: the worker process id to terminate
	//
	// Returns:
	//   - error: non-nil only for unexpected local failures
	Terminate(ctx context.Context, pid int) error
}
