package fault_test

import (
	"context"
	"sync"
	"time"

	"github.com/kodflow/livewidgetd/internal/domain/packagedb"
	"github.com/kodflow/livewidgetd/internal/domain/transport"
)

// fakeClock is a test double for shared.Nower with a fixed current time.
type fakeClock struct {
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakePackageDB is a test double for packagedb.PackageDB.
type fakePackageDB struct {
	mu       sync.Mutex
	bindings map[string]string
	faults   []packagedb.FaultRecord
}

func newFakePackageDB() *fakePackageDB {
	return &fakePackageDB{bindings: make(map[string]string)}
}

func (f *fakePackageDB) pin(slaveName, pkgname string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings[slaveName] = pkgname
}

func (f *fakePackageDB) FindBySecuredSlave(_ context.Context, slaveName string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.bindings[slaveName]
	return pkg, ok, nil
}

func (f *fakePackageDB) PinSecuredSlave(_ context.Context, pkgname, slaveName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings[slaveName] = pkgname
	return nil
}

func (f *fakePackageDB) RecordFault(_ context.Context, pkgname string, rec packagedb.FaultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, rec)
	return nil
}

func (f *fakePackageDB) Close() error { return nil }

func (f *fakePackageDB) recordedFaults() []packagedb.FaultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]packagedb.FaultRecord(nil), f.faults...)
}

// fakeBroadcaster is a test double for transport.ClientBroadcaster.
type fakeBroadcaster struct {
	mu        sync.Mutex
	broadcast []transport.FaultNotice
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{}
}

func (f *fakeBroadcaster) Broadcast(notice transport.FaultNotice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, notice)
}

func (f *fakeBroadcaster) Unicast(_ string, _ transport.FaultNotice) {}

func (f *fakeBroadcaster) notices() []transport.FaultNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transport.FaultNotice(nil), f.broadcast...)
}

// fakeCrashLogReader is a test double for transport.CrashLogReader.
type fakeCrashLogReader struct {
	mu      sync.Mutex
	lines   map[int]string
	purged  []int
}

func newFakeCrashLogReader() *fakeCrashLogReader {
	return &fakeCrashLogReader{lines: make(map[int]string)}
}

func (f *fakeCrashLogReader) setLine(pid int, line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[pid] = line
}

func (f *fakeCrashLogReader) ReadFirstLine(_ context.Context, pid int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines[pid], nil
}

func (f *fakeCrashLogReader) Purge(_ context.Context, pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, pid)
	delete(f.lines, pid)
	return nil
}

func (f *fakeCrashLogReader) purgedPIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.purged...)
}
