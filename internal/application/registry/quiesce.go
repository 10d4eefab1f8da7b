package registry

import "github.com/kodflow/livewidgetd/internal/domain/slave"

// DeactivateAll quiesces every activated slave. It is nestable: only the
// outermost call actually tears anything down; inner calls just bump the
// depth counter.
//
// Params:
//   - reactivate: the reactivate_slave value to set on each slave torn down
//   - reactivateInstances: the reactivate_instances value to set likewise
func (r *Registry) DeactivateAll(reactivate, reactivateInstances bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deactivateAllRefcnt++
	if r.deactivateAllRefcnt != 1 {
		return
	}
	for _, name := range append([]string(nil), r.order...) {
		rec, ok := r.entries[name]
		if !ok || !rec.slave.State.IsActivated() {
			continue
		}
		rec.slave.ReactivateSlave = reactivate
		rec.slave.ReactivateInstances = reactivateInstances
		_ = r.deactivateLocked(name)
	}
}

// ActivateAll reverses a DeactivateAll call. Only the outermost call
// actually reactivates anything; slaves that were not marked for
// reactivation are left alone.
func (r *Registry) ActivateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deactivateAllRefcnt > 0 {
		r.deactivateAllRefcnt--
	}
	if r.deactivateAllRefcnt != 0 {
		return
	}
	for _, name := range append([]string(nil), r.order...) {
		rec, ok := r.entries[name]
		if !ok || !rec.slave.ReactivateSlave || rec.slave.State.IsActivated() {
			continue
		}
		_ = r.activateLocked(r.ctx, name)
	}
}

// LoadPackage records that pkgname has been placed on the named slave.
//
// Params:
//   - name: the slave hosting the package
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) LoadPackage(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	rec.slave.LoadedPackages++
	return nil
}

// UnloadPackage records that a package has been removed from the named
// slave.
//
// Params:
//   - name: the slave the package is being removed from
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) UnloadPackage(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	if rec.slave.LoadedPackages > 0 {
		rec.slave.LoadedPackages--
	}
	return nil
}

// LoadInstance records a new instance hosted on the named slave.
//
// Params:
//   - name: the slave hosting the instance
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) LoadInstance(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	rec.slave.LoadedInstances++
	return nil
}

// UnloadInstance records that an instance has been torn down on the named
// slave. If this was the last instance on an activated slave, both
// reactivate flags are cleared and the slave is deactivated.
//
// Params:
//   - name: the slave the instance is being removed from
//
// Returns:
//   - error: slave.ErrNotExist if name is unknown
func (r *Registry) UnloadInstance(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[name]
	if !ok {
		return slave.ErrNotExist
	}
	s := rec.slave
	if s.LoadedInstances > 0 {
		s.LoadedInstances--
	}
	if s.LoadedInstances == 0 && s.State.IsActivated() {
		s.ReactivateSlave = false
		s.ReactivateInstances = false
		return r.deactivateLocked(name)
	}
	return nil
}
