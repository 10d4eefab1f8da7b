// Package registry provides the application service that owns every
// supervised slave and drives its state machine: launch, activation,
// pause/resume, termination, and fault-triggered reactivation. All
// mutation happens behind Registry's lock, modeling the single-threaded
// cooperative event loop the slave state machine assumes; timer callbacks
// and RPC replies all funnel back through the same lock before touching
// any slave.
package registry

import (
	"context"
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/config"
	"github.com/kodflow/livewidgetd/internal/domain/launcher"
	"github.com/kodflow/livewidgetd/internal/domain/logging"
	"github.com/kodflow/livewidgetd/internal/domain/shared"
	"github.com/kodflow/livewidgetd/internal/domain/slave"
	"github.com/kodflow/livewidgetd/internal/domain/transport"
)

// FaultChecker is the subset of the fault manager the registry needs: the
// attribution step run when a worker dies abnormally. It is modeled as an
// interface here, rather than importing application/fault directly, so
// the registry and the fault manager can be tested in isolation.
type FaultChecker interface {
	// Check attributes slaveName's death to a package, if possible.
	Check(ctx context.Context, slaveName string, pid int, secured bool) error
}

// WindowMonitor reports whether the windowing system is currently paused,
// a signal the registry honors by pausing a worker immediately on
// activation rather than waiting for an explicit pause request.
type WindowMonitor interface {
	// IsPaused reports the current windowing system pause state.
	IsPaused() bool
}

// alwaysRunning is the default WindowMonitor used when none is supplied:
// it never reports a paused windowing system.
type alwaysRunning struct{}

// IsPaused always reports false.
func (alwaysRunning) IsPaused() bool { return false }

// record pairs a slave with the timers the registry has armed for it.
type record struct {
	slave  *slave.Slave
	timers timerSet
}

// Registry owns every slave record and drives its lifecycle.
type Registry struct {
	mu sync.RWMutex

	cfg     *config.Config
	launch  launcher.Launcher
	worker  transport.WorkerRPC
	faults  FaultChecker
	monitor WindowMonitor
	logger  logging.Logger
	clock   shared.Nower

	// ctx backs operations triggered internally (timer expiry, cascading
	// reactivation) rather than by an external caller with its own context.
	ctx context.Context

	entries map[string]*record
	order   []string

	deactivateAllRefcnt int
}

// New constructs a Registry with no slaves.
//
// Params:
//   - cfg: the timing constants and startup package list
//   - launch: the launcher port used to spawn worker processes
//   - worker: the outbound RPC port used to pause/resume workers
//   - faults: the fault manager's Check step, consulted on abnormal exit
//   - monitor: the windowing-system pause signal; nil selects a monitor
//     that never reports paused
//   - logger: the event logger
//   - clock: the time source, overridable in tests
//
// Returns:
//   - *Registry: an empty registry ready to create slaves
func New(cfg *config.Config, launch launcher.Launcher, worker transport.WorkerRPC, faults FaultChecker, monitor WindowMonitor, logger logging.Logger, clock shared.Nower) *Registry {
	// Fall back to a monitor that never reports paused.
	if monitor == nil {
		monitor = alwaysRunning{}
	}
	return &Registry{
		cfg:     cfg,
		launch:  launch,
		worker:  worker,
		faults:  faults,
		monitor: monitor,
		logger:  logger,
		clock:   clock,
		ctx:     context.Background(),
		entries: make(map[string]*record),
	}
}

// Create registers a new slave, or returns the existing one if name is
// already known. An existing record's secured flag always wins over a
// conflicting request.
//
// Params:
//   - name: the slave's stable identifier
//   - secured: whether the slave should be dedicated to one package
//   - abi: the worker ABI the slave will be launched for
//   - pkgname: the package identifier passed to the launcher
//   - network: whether the slave may make outbound network calls
//
// Returns:
//   - *slave.Slave: the (possibly pre-existing) slave record
func (r *Registry) Create(name string, secured bool, abi, pkgname string, network bool) *slave.Slave {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Deduplicate by name; the existing record's secured flag wins.
	if rec, ok := r.entries[name]; ok {
		if rec.slave.Secured != secured {
			r.logger.Warn(name, "create", "secured flag differs from existing record; keeping existing", nil)
		}
		rec.slave.Acquire()
		return rec.slave
	}

	s := slave.New(name, abi, secured, network)
	s.PackageName = pkgname
	s.Acquire()

	r.entries[name] = &record{slave: s}
	r.order = append(r.order, name)
	return s
}

// Activate launches a slave's worker process. It is a no-op returning
// slave.ErrAlready if the slave already has a pid or is already mid-launch.
//
// Params:
//   - ctx: cancellation and deadline for the launch attempt
//   - name: the slave to activate
//
// Returns:
//   - error: slave.ErrNotExist, slave.ErrAlready, or a launcher failure
func (r *Registry) Activate(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activateLocked(ctx, name)
}

// activateLocked implements Activate; callers must hold r.mu.
func (r *Registry) activateLocked(ctx context.Context, name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	// A slave mid-teardown just has its reactivation intent recorded.
	if s.State == slave.StateRequestToTerminate {
		s.ReactivateSlave = true
		return slave.ErrAlready
	}
	// Already running or already mid-launch: nothing to do.
	if s.HasPID() || s.State == slave.StateRequestToLaunch {
		return slave.ErrAlready
	}
	if !s.State.CanTransitionTo(slave.StateRequestToLaunch) {
		return slave.ErrInvalid
	}

	env := launcher.Envelope{Name: s.Name, Secured: s.Secured, ABI: s.ABI}
	result, err := r.launch.Launch(ctx, s.PackageName, env)
	if err != nil {
		return err
	}

	switch result.Code.Outcome() {
	// Success: the pid is known immediately; the hello is still awaited.
	case launcher.OutcomeSuccess:
		s.PID = result.PID
	// Transient: retry shortly without spending a relaunch attempt yet.
	case launcher.OutcomeTransient:
		rec.timers.armRelaunch(r.cfg.SlaveRelaunchTime.Duration(), func() { r.onRelaunchExpiry(name) })
	// Hard: leave pid absent; the activate deadline will surface the fault.
	case launcher.OutcomeHard:
		s.PID = slave.NoPID
	}

	rec.timers.armActivate(r.cfg.SlaveActivateTime.Duration(), func() { r.onActivateExpiry(name) })
	s.State = slave.StateRequestToLaunch
	s.Acquire()
	return nil
}

// Activated records that a worker has said hello and moves it to Resumed.
//
// Params:
//   - name: the slave that said hello
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) Activated(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activatedLocked(name)
}

// activatedLocked implements Activated; callers must hold r.mu.
func (r *Registry) activatedLocked(name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if !s.State.CanTransitionTo(slave.StateResumed) {
		return slave.ErrInvalid
	}

	rec.timers.cancelActivate()
	rec.timers.cancelRelaunch()
	s.ActivatedAt = r.clock.Now()
	s.ReactivateSlave = false
	s.ReactivateInstances = false
	s.State = slave.StateResumed

	if s.Secured {
		rec.timers.armTTL(r.cfg.SlaveTTL.Duration(), func() { r.onTTLExpire(name) })
	}
	s.Notify(slave.EventActivate)

	// Honor a currently-paused windowing system by pausing immediately.
	if r.monitor.IsPaused() {
		return r.pauseLocked(r.ctx, name)
	}
	return nil
}

// Pause requests that a running worker pause. It is idempotent when the
// slave is terminal or already paused/pausing.
//
// Params:
//   - ctx: cancellation and deadline for the RPC
//   - name: the slave to pause
//
// Returns:
//   - error: slave.ErrNotExist, slave.ErrAlready, or a transport failure
func (r *Registry) Pause(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauseLocked(ctx, name)
}

// pauseLocked implements Pause; callers must hold r.mu.
func (r *Registry) pauseLocked(ctx context.Context, name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if !s.State.IsActivated() || s.State == slave.StatePaused || s.State == slave.StateRequestToPause {
		return slave.ErrAlready
	}
	if !s.State.CanTransitionTo(slave.StateRequestToPause) {
		return slave.ErrInvalid
	}
	prior := s.State
	s.State = slave.StateRequestToPause

	ts := r.clock.Now()
	code, err := r.worker.Pause(ctx, name, float64(ts.Unix()))
	if err != nil {
		// The RPC itself never landed; leave the slave as it was.
		s.State = prior
		return err
	}

	if code == 0 {
		s.State = slave.StatePaused
		if s.Secured {
			rec.timers.cancelTTL()
		}
		s.Notify(slave.EventPause)
		return nil
	}
	// Conservative default: a failed reply leaves the slave resumed.
	s.State = slave.StateResumed
	return nil
}

// Resume requests that a paused worker resume. It is idempotent when the
// slave is terminal or already resumed/resuming.
//
// Params:
//   - ctx: cancellation and deadline for the RPC
//   - name: the slave to resume
//
// Returns:
//   - error: slave.ErrNotExist, slave.ErrAlready, or a transport failure
func (r *Registry) Resume(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resumeLocked(ctx, name)
}

// resumeLocked implements Resume; callers must hold r.mu.
func (r *Registry) resumeLocked(ctx context.Context, name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if !s.State.IsActivated() || s.State == slave.StateResumed || s.State == slave.StateRequestToResume {
		return slave.ErrAlready
	}
	if !s.State.CanTransitionTo(slave.StateRequestToResume) {
		return slave.ErrInvalid
	}
	prior := s.State
	s.State = slave.StateRequestToResume

	ts := r.clock.Now()
	code, err := r.worker.Resume(ctx, name, float64(ts.Unix()))
	if err != nil {
		// The RPC itself never landed; leave the slave as it was.
		s.State = prior
		return err
	}

	if code == 0 {
		s.State = slave.StateResumed
		if s.Secured {
			rec.timers.armTTL(r.cfg.SlaveTTL.Duration(), func() { r.onTTLExpire(name) })
		}
		s.Notify(slave.EventResume)
		return nil
	}
	// Conservative default: a failed reply leaves the slave paused.
	s.State = slave.StatePaused
	return nil
}

// Deactivate begins tearing a slave down. A slave with no pending work and
// nothing loaded is released immediately instead of going through a
// terminate request.
//
// Params:
//   - name: the slave to deactivate
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) Deactivate(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deactivateLocked(name)
}

// deactivateLocked implements Deactivate; callers must hold r.mu.
func (r *Registry) deactivateLocked(name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if !s.State.IsActivated() && s.LoadedInstances == 0 {
		r.releaseLocked(name)
		return nil
	}
	if !s.State.CanTransitionTo(slave.StateRequestToTerminate) {
		return slave.ErrInvalid
	}

	s.State = slave.StateRequestToTerminate
	if s.HasPID() {
		_ = r.launch.Terminate(r.ctx, s.PID)
	}
	return nil
}

// Deactivated completes a normal teardown once the worker process has
// actually exited. Observers may vote to reactivate the slave.
//
// Params:
//   - name: the slave that exited
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) Deactivated(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deactivatedLocked(name)
}

// deactivatedLocked implements Deactivated; callers must hold r.mu.
func (r *Registry) deactivatedLocked(name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if !s.State.CanTransitionTo(slave.StateTerminated) {
		return slave.ErrInvalid
	}

	s.PID = slave.NoPID
	rec.timers.cancelActivate()
	rec.timers.cancelRelaunch()
	rec.timers.cancelTTL()
	s.State = slave.StateTerminated

	votes := s.Notify(slave.EventDeactivate)
	needsReactivate := false
	for _, v := range votes {
		if v == slave.VoteReactivate {
			needsReactivate = true
			break
		}
	}

	// Balance the refcount bump taken in activateLocked.
	if r.releaseLocked(name) {
		// The record was destroyed; nothing left to reactivate.
		return nil
	}

	if needsReactivate && s.ReactivateSlave {
		return r.activateLocked(r.ctx, name)
	}
	if s.LoadedInstances == 0 {
		r.releaseLocked(name)
	}
	return nil
}

// DeactivatedByFault completes a teardown triggered by an abnormal worker
// exit. It runs fault attribution first, then applies flap suppression
// before handing off to the same teardown path as Deactivated.
//
// Params:
//   - name: the slave that died abnormally
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown, or a fault-check failure
func (r *Registry) DeactivatedByFault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave

	if r.faults != nil {
		if err := r.faults.Check(r.ctx, name, s.PID, s.Secured); err != nil {
			r.logger.Error(name, "fault_check", "fault attribution failed", map[string]any{"error": err.Error()})
		}
	}
	s.FaultCount++

	// Flap suppression: a death within the reactivation window counts
	// against the slave; a death outside it resets the streak.
	if r.clock.Now().Sub(s.ActivatedAt) < r.cfg.MinimumReactivationTime.Duration() {
		s.CriticalFaultCount++
	} else {
		s.CriticalFaultCount = 0
	}
	if s.CriticalFaultCount >= r.cfg.SlaveMaxLoad || s.LoadedInstances == 0 {
		s.ReactivateSlave = false
		s.ReactivateInstances = false
		s.CriticalFaultCount = 0
	}

	return r.deactivatedLocked(name)
}

// releaseLocked drops one reference from name's slave, removing the
// record entirely if it reaches zero. Callers must hold r.mu.
//
// Returns:
//   - bool: true if the record was destroyed
func (r *Registry) releaseLocked(name string) bool {
	rec, ok := r.entries[name]
	if !ok {
		return false
	}
	if rec.slave.Release() > 0 {
		return false
	}

	rec.timers.cancelActivate()
	rec.timers.cancelRelaunch()
	rec.timers.cancelTTL()
	rec.slave.Notify(slave.EventDelete)

	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// onActivateExpiry handles activate_timer expiry: a launch that never
// produced a hello is treated as a fault.
func (r *Registry) onActivateExpiry(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return
	}
	s := rec.slave
	// A stale fire that lost the race against a legitimate cancellation.
	if s.State != slave.StateRequestToLaunch {
		return
	}

	s.Notify(slave.EventFault)
	s.FaultCount++
	if s.HasPID() {
		_ = r.launch.Terminate(r.ctx, s.PID)
	}
	_ = r.deactivatedLocked(name)
}

// onRelaunchExpiry handles relaunch_timer expiry: retry the launcher,
// decrementing the remaining relaunch count only on a transient failure.
func (r *Registry) onRelaunchExpiry(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return
	}
	s := rec.slave
	if s.State != slave.StateRequestToLaunch {
		return
	}

	env := launcher.Envelope{Name: s.Name, Secured: s.Secured, ABI: s.ABI}
	result, err := r.launch.Launch(r.ctx, s.PackageName, env)
	if err != nil {
		r.logger.Error(name, "relaunch", "relaunch attempt failed locally", map[string]any{"error": err.Error()})
		return
	}

	switch result.Code.Outcome() {
	case launcher.OutcomeSuccess:
		s.PID = result.PID
	case launcher.OutcomeTransient:
		s.RelaunchCount--
		if s.RelaunchCount > 0 {
			rec.timers.armRelaunch(r.cfg.SlaveRelaunchTime.Duration(), func() { r.onRelaunchExpiry(name) })
		} else {
			r.onActivateExpiryLocked(name)
		}
	case launcher.OutcomeHard:
		// Leave pid absent; activate_timer will still surface the fault.
	}
}

// onActivateExpiryLocked is onActivateExpiry's body for callers that
// already hold r.mu (relaunch exhaustion behaves like activate expiry).
func (r *Registry) onActivateExpiryLocked(name string) {
	rec, ok := r.entries[name]
	if !ok {
		return
	}
	s := rec.slave
	s.Notify(slave.EventFault)
	s.FaultCount++
	if s.HasPID() {
		_ = r.launch.Terminate(r.ctx, s.PID)
	}
	_ = r.deactivatedLocked(name)
}

// onTTLExpire handles ttl_timer expiry for an idle secured slave: permit
// instance reactivation but not the slave itself, then deactivate.
func (r *Registry) onTTLExpire(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return
	}
	rec.slave.ReactivateSlave = false
	rec.slave.ReactivateInstances = true
	_ = r.deactivateLocked(name)
}

// FreezeTTL cancels a secured slave's idle-teardown timer without
// changing any other state.
//
// Params:
//   - name: the slave to freeze
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) FreezeTTL(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	rec.timers.cancelTTL()
	return nil
}

// ThawTTL re-arms a secured slave's idle-teardown timer for a full TTL
// window starting now.
//
// Params:
//   - name: the slave to thaw
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) ThawTTL(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rearmTTLLocked(name)
}

// GiveMoreTTL extends a secured slave's idle-teardown timer by a full TTL
// window starting now. It is equivalent to ThawTTL; both replace whatever
// time remained with a fresh full window rather than tracking a remainder.
//
// Params:
//   - name: the slave to extend
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) GiveMoreTTL(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rearmTTLLocked(name)
}

// rearmTTLLocked arms a fresh full-TTL timer for name; callers must hold r.mu.
func (r *Registry) rearmTTLLocked(name string) error {
	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	if !rec.slave.Secured {
		return nil
	}
	rec.timers.armTTL(r.cfg.SlaveTTL.Duration(), func() { r.onTTLExpire(name) })
	return nil
}
