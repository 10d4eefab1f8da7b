// Package fault provides the application service that attributes a dead
// worker's crash to a specific package using a three-tier heuristic, and
// tracks in-flight package function calls used by the last of those tiers.
package fault

import (
	"context"
	"strings"
	"sync"

	domain "github.com/kodflow/livewidgetd/internal/domain/fault"
	"github.com/kodflow/livewidgetd/internal/domain/logging"
	"github.com/kodflow/livewidgetd/internal/domain/packagedb"
	"github.com/kodflow/livewidgetd/internal/domain/shared"
	"github.com/kodflow/livewidgetd/internal/domain/transport"
)

// Crash-log evidence marker: a worker's crash log names the shared object
// it last loaded as "liblive-<name>.so"; both the prefix and suffix must
// be present for the name to be trusted as tier-1 evidence.
const (
	logNamePrefix = "liblive-"
	logNameSuffix = ".so"
)

// Manager tracks outstanding package function calls per worker and, on
// worker death, determines which package to blame.
//
// Manager coordinates with the package database for tier-2 attribution,
// the crash-log reader for tier-1 evidence, and the client broadcaster to
// announce the final verdict. It holds no reference to the registry;
// Check is told everything it needs by its caller.
type Manager struct {
	mu    sync.Mutex
	calls *domain.List
	marks int

	db          packagedb.PackageDB
	broadcaster transport.ClientBroadcaster
	logReader   transport.CrashLogReader
	logger      logging.Logger
	clock       shared.Nower
}

// NewManager constructs a fault Manager.
//
// Params:
//   - db: the package database, consulted for tier-2 secured-slave binding
//   - broadcaster: the client notification channel
//   - logReader: the crash-log reader, consulted for tier-1 evidence
//   - logger: the event logger
//   - clock: the time source, overridable in tests
//
// Returns:
//   - *Manager: a manager with no outstanding calls
func NewManager(db packagedb.PackageDB, broadcaster transport.ClientBroadcaster, logReader transport.CrashLogReader, logger logging.Logger, clock shared.Nower) *Manager {
	// Start with an empty call list and zeroed mark count.
	return &Manager{
		calls:       domain.NewList(),
		db:          db,
		broadcaster: broadcaster,
		logReader:   logReader,
		logger:      logger,
		clock:       clock,
	}
}

// FuncCall records that slaveName is about to invoke a package function.
//
// Params:
//   - slaveName: the slave the call is made on
//   - pkg: the package being called into
//   - file: the source file of the call site
//   - fn: the function invoked
func (m *Manager) FuncCall(slaveName, pkg, file, fn string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Append a fresh record and bump the coarse in-flight indicator.
	m.calls.Append(domain.Call{
		SlaveName: slaveName,
		Package:   pkg,
		Filename:  file,
		Funcname:  fn,
		Timestamp: m.clock.Now(),
	})
	m.marks++
}

// FuncRet records that a previously announced call has returned normally.
//
// Params:
//   - slaveName: the slave the call was made on
//   - pkg: the package that was called into
//   - file: the source file of the call site
//   - fn: the function invoked
//
// Returns:
//   - error: domain/fault.ErrNotExist if no matching call was recorded
func (m *Manager) FuncRet(slaveName, pkg, file, fn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Only a matching outstanding record may be cleared.
	if !m.calls.RemoveOldestMatch(slaveName, pkg, file, fn) {
		return domain.ErrNotExist
	}
	m.marks--
	return nil
}

// FaultIsOccurred reports the current mark count: a coarse "is a fault
// possibly in progress" indicator, non-zero while calls remain unmatched.
//
// Returns:
//   - int: the number of outstanding, unmatched call/ret markers
func (m *Manager) FaultIsOccurred() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marks
}

// Check attributes a dead worker's crash to a package, committing the
// blame to the package database and broadcasting it to clients. It tries,
// in order: crash-log evidence, the secured-slave binding, and finally
// call-stack attribution over the in-flight call list.
//
// Params:
//   - ctx: cancellation and deadline for the database/broadcast calls
//   - slaveName: the stable name of the slave that died
//   - pid: the dead worker's process id, NoPID if never launched
//   - secured: whether the slave was dedicated to a single package
//
// Returns:
//   - error: non-nil only on an unexpected storage failure
func (m *Manager) Check(ctx context.Context, slaveName string, pid int, secured bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Tier 1: the crash log, if one exists, is the most reliable evidence.
	if pid > 0 && m.logReader != nil {
		if line, err := m.logReader.ReadFirstLine(ctx, pid); err == nil && line != "" {
			if pkg, ok := extractPackageName(line); ok {
				m.commitTier(ctx, slaveName, pid, pkg, "", "")
				return nil
			}
		}
	}

	// Tier 2: a secured slave is dedicated to exactly one package.
	if secured && m.db != nil {
		if pkg, ok, err := m.db.FindBySecuredSlave(ctx, slaveName); err != nil {
			return err
		} else if ok {
			m.commitTier(ctx, slaveName, pid, pkg, "", "")
			return nil
		}
	}

	// Tier 3: blame the call that was executing when the worker died.
	drained := m.calls.DrainSlave(slaveName)
	if len(drained) == 0 {
		// Nothing outstanding for this slave; no package to blame.
		return nil
	}
	top := drained[0]
	m.commit(ctx, top.Package, top.Filename, top.Funcname)
	m.purgeLog(ctx, pid)
	// The whole sequence of outstanding calls died with the worker.
	m.marks = 0
	return nil
}

// commitTier drains any outstanding calls for slaveName silently (they are
// superseded by stronger evidence), commits a single blame record, and
// purges the dead worker's crash log so a future pid reuse never attributes
// blame from a stale log file.
func (m *Manager) commitTier(ctx context.Context, slaveName string, pid int, pkg, file, fn string) {
	m.calls.DrainSlave(slaveName)
	m.commit(ctx, pkg, file, fn)
	m.purgeLog(ctx, pid)
	m.marks = 0
}

// purgeLog removes the crash log for pid, if one could exist.
func (m *Manager) purgeLog(ctx context.Context, pid int) {
	if pid > 0 && m.logReader != nil {
		_ = m.logReader.Purge(ctx, pid)
	}
}

// commit persists the blame record and broadcasts it to clients.
func (m *Manager) commit(ctx context.Context, pkg, file, fn string) {
	if m.db != nil {
		_ = m.db.RecordFault(ctx, pkg, packagedb.FaultRecord{
			Package:   pkg,
			Filename:  file,
			Funcname:  fn,
			Timestamp: m.clock.Now(),
		})
	}
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(transport.FaultNotice{Package: pkg, Filename: file, Funcname: fn})
	}
	if m.logger != nil {
		m.logger.Warn(pkg, "fault", "package blamed for worker fault", map[string]any{
			"filename": file,
			"funcname": fn,
		})
	}
}

// extractPackageName extracts the package name from a crash-log line of
// the form "...liblive-<name>.so...". Both the prefix and suffix must be
// present; an empty name between them does not count as a match.
func extractPackageName(line string) (string, bool) {
	idx := strings.Index(line, logNamePrefix)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimSpace(line[idx+len(logNamePrefix):])
	if !strings.HasSuffix(rest, logNameSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(rest, logNameSuffix)
	if name == "" {
		return "", false
	}
	return name, true
}
