package registry

import (
	"time"

	"github.com/kodflow/livewidgetd/internal/domain/placement"
	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

// FindByName returns the slave registered under name.
//
// Params:
//   - name: the slave's stable identifier
//
// Returns:
//   - *slave.Slave: the matching slave
//   - bool: true if found
func (r *Registry) FindByName(name string) (*slave.Slave, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return rec.slave, true
}

// FindByPID returns the slave currently associated with pid.
//
// Params:
//   - pid: the OS process id to search for
//
// Returns:
//   - *slave.Slave: the matching slave
//   - bool: true if found
func (r *Registry) FindByPID(pid int) (*slave.Slave, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		s := r.entries[name].slave
		if s.HasPID() && s.PID == pid {
			return s, true
		}
	}
	return nil, false
}

// FindByRPCHandle returns the slave associated with an inbound RPC
// connection handle.
//
// Params:
//   - handle: the transport-assigned connection handle
//
// Returns:
//   - *slave.Slave: the matching slave
//   - bool: true if found
func (r *Registry) FindByRPCHandle(handle int) (*slave.Slave, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		s := r.entries[name].slave
		if s.RPCHandle == handle {
			return s, true
		}
	}
	return nil, false
}

// FindByPkgname returns a slave bound to pkgname that has not yet been
// assigned a pid, used to reattach a just-spawned process to the record
// that requested it.
//
// Params:
//   - pkgname: the package identifier to search for
//
// Returns:
//   - *slave.Slave: the matching slave
//   - bool: true if found
func (r *Registry) FindByPkgname(pkgname string) (*slave.Slave, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		s := r.entries[name].slave
		if !s.HasPID() && s.PackageName == pkgname {
			return s, true
		}
	}
	return nil, false
}

// FindAvailable chooses an existing slave able to host a package with the
// requested profile, per the placement policy.
//
// Params:
//   - abi: the requested worker ABI
//   - secured: whether the package requires a dedicated slave
//   - network: whether the package requires outbound network access
//
// Returns:
//   - *slave.Slave: the chosen slave
//   - bool: true if a candidate was chosen
func (r *Registry) FindAvailable(abi string, secured, network bool) (*slave.Slave, bool) {
	r.mu.RLock()
	candidates := make([]placement.Candidate, 0, len(r.order))
	for _, name := range r.order {
		s := r.entries[name].slave
		candidates = append(candidates, placement.Candidate{
			Name:            s.Name,
			ABI:             s.ABI,
			Secured:         s.Secured,
			Network:         s.Network,
			State:           s.State,
			LoadedPackages:  s.LoadedPackages,
			LoadedInstances: s.LoadedInstances,
		})
	}
	defaultABI, maxLoad := r.cfg.DefaultABI, r.cfg.SlaveMaxLoad
	r.mu.RUnlock()

	chosen, ok := placement.FindAvailable(candidates, abi, secured, network, defaultABI, maxLoad)
	if !ok {
		return nil, false
	}
	return r.FindByName(chosen.Name)
}

// AddObserver registers fn for event on the named slave.
//
// Params:
//   - name: the slave to observe
//   - event: the event category to observe
//   - fn: the handler to invoke
//
// Returns:
//   - int: an opaque token usable with RemoveObserver
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) AddObserver(name string, event slave.EventType, fn slave.Handler) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return 0, slave.ErrNotExist
	}
	return rec.slave.AddObserver(event, fn), nil
}

// RemoveObserver deregisters a handler previously registered with
// AddObserver.
//
// Params:
//   - name: the slave the handler was registered on
//   - event: the event category the handler was registered under
//   - id: the token returned by AddObserver
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) RemoveObserver(name string, event slave.EventType, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	rec.slave.RemoveObserver(event, id)
	return nil
}

// Status is a read-only snapshot of a single slave, used by the control
// plane's fleet-status query.
type Status struct {
	Name                string
	PackageName         string
	ABI                 string
	Secured             bool
	Network             bool
	PID                 int
	State               string
	ActivatedAt         time.Time
	LoadedPackages      int
	LoadedInstances     int
	FaultCount          int
	CriticalFaultCount  int
	ReactivateSlave     bool
	ReactivateInstances bool
}

// Snapshot returns a point-in-time view of every registered slave, in
// insertion order. It takes a brief read lock so callers on other
// goroutines (the gRPC control surface) never enter the event loop.
//
// Returns:
//   - []Status: one entry per registered slave
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.order))
	for _, name := range r.order {
		s := r.entries[name].slave
		out = append(out, Status{
			Name:                s.Name,
			PackageName:         s.PackageName,
			ABI:                 s.ABI,
			Secured:             s.Secured,
			Network:             s.Network,
			PID:                 s.PID,
			State:               s.State.String(),
			ActivatedAt:         s.ActivatedAt,
			LoadedPackages:      s.LoadedPackages,
			LoadedInstances:     s.LoadedInstances,
			FaultCount:          s.FaultCount,
			CriticalFaultCount:  s.CriticalFaultCount,
			ReactivateSlave:     s.ReactivateSlave,
			ReactivateInstances: s.ReactivateInstances,
		})
	}
	return out
}

// Quiesced reports whether the registry is currently under a
// DeactivateAll quiesce, used by the control plane's health check.
//
// Returns:
//   - bool: true if at least one DeactivateAll call is outstanding
func (r *Registry) Quiesced() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deactivateAllRefcnt > 0
}
