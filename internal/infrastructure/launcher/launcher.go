// Package launcher provides the infrastructure adapter that turns an
// abstract launch envelope into a spawned OS process. The process-launch
// mechanism it stands in for is, on the real platform, an opaque
// spawn-by-name service; here it resolves a per-ABI binary path and runs
// it via os/exec, classifying the outcome into the domain's coarse
// result-code vocabulary.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/kodflow/livewidgetd/internal/domain/launcher"
)

// Waiter is a minimal interface for waiting on commands, abstracting
// exec.Cmd.Wait for testability.
type Waiter interface {
	Wait() error
}

// ProcessFinder abstracts os.FindProcess for testability.
type ProcessFinder func(pid int) (*os.Process, error)

// CommandFactory abstracts exec.CommandContext for testability.
type CommandFactory func(ctx context.Context, path string, args ...string) *exec.Cmd

// Launcher implements domain/launcher.Launcher by spawning the worker
// binary registered for an ABI. The mutex guards only the per-ABI binary
// table lookup; the spawn runs after it is released and Terminate takes
// no lock, so this adapter does not serialize launches or terminations.
type Launcher struct {
	mu      sync.Mutex
	binPath map[string]string

	newCommand  CommandFactory
	findProcess ProcessFinder
}

// New constructs a Launcher with the given ABI-to-binary-path table.
//
// Params:
//   - binPath: maps an ABI tag (e.g. "c", "html") to the worker binary
//     that hosts it
//
// Returns:
//   - *Launcher: a launcher ready to spawn workers
func New(binPath map[string]string) *Launcher {
	table := make(map[string]string, len(binPath))
	for k, v := range binPath {
		table[k] = v
	}
	return &Launcher{
		binPath:     table,
		newCommand:  exec.CommandContext,
		findProcess: os.FindProcess,
	}
}

// Launch starts the worker binary registered for env.ABI, passing pkgname
// and the envelope fields as arguments. It never returns a Go error for
// ordinary spawn failures; those are reported through Result.Code so the
// registry's relaunch/activate-timeout machinery can react uniformly.
//
// Params:
//   - ctx: cancellation and deadline for the launch attempt
//   - pkgname: the package the launched worker will host
//   - env: the launch envelope describing the target slave
//
// Returns:
//   - launcher.Result: the coarse outcome of the attempt
//   - error: non-nil only for unexpected local failures
func (l *Launcher) Launch(ctx context.Context, pkgname string, env launcher.Envelope) (launcher.Result, error) {
	l.mu.Lock()
	path, ok := l.binPath[env.ABI]
	l.mu.Unlock()
	if !ok {
		return launcher.Result{Code: launcher.CodeNoLaunchpad}, nil
	}

	securedFlag := "false"
	if env.Secured {
		securedFlag = "true"
	}
	cmd := l.newCommand(ctx, path, pkgname, env.Name, securedFlag, env.ABI) // #nosec G204 - path comes from administrator-controlled config

	if err := cmd.Start(); err != nil {
		return launcher.Result{Code: classifyStartError(err)}, nil
	}

	pid := cmd.Process.Pid
	go reap(cmd)

	return launcher.Result{PID: pid, Code: launcher.CodeLocal}, nil
}

// reap waits on a spawned command so it does not linger as a zombie. The
// registry is told about the worker's death independently, through its
// own liveness signals (TTL expiry, missed RPC, fault report); this
// goroutine only performs the OS-level cleanup.
func reap(cmd Waiter) {
	_ = cmd.Wait()
}

// Terminate asks the OS to stop the worker process identified by pid. An
// already-dead pid is not treated as an error.
//
// Params:
//   - ctx: unused; termination is a local, synchronous signal send
//   - pid: the worker process id to terminate
//
// Returns:
//   - error: non-nil only for unexpected local failures
func (l *Launcher) Terminate(_ context.Context, pid int) error {
	proc, err := l.findProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf("signaling process %d: %w", pid, err)
	}
	return nil
}

// classifyStartError maps an os/exec start failure onto the domain's
// coarse launch-result vocabulary.
func classifyStartError(err error) launcher.Code {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return launcher.CodeNoLaunchpad
	}
	if errors.Is(err, os.ErrPermission) {
		return launcher.CodeIllegalAccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return launcher.CodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return launcher.CodeCanceled
	}
	return launcher.CodeError
}
