// Package registry_test provides external tests for the slave registry.
package registry_test

import (
	"context"
	"sync"
	"time"

	"github.com/kodflow/livewidgetd/internal/domain/launcher"
)

// fakeLauncher is a test double for launcher.Launcher. Launch returns the
// next queued result (or a default success with an incrementing pid) and
// records every invocation for assertions.
type fakeLauncher struct {
	mu sync.Mutex

	results      []launcher.Result
	launchCalls  []launcher.Envelope
	terminations []int
	nextPID      int
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{nextPID: 100}
}

// queueResult appends a result to be returned by the next Launch call.
func (f *fakeLauncher) queueResult(r launcher.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
}

func (f *fakeLauncher) Launch(_ context.Context, _ string, env launcher.Envelope) (launcher.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.launchCalls = append(f.launchCalls, env)

	if len(f.results) > 0 {
		r := f.results[0]
		f.results = f.results[1:]
		return r, nil
	}

	f.nextPID++
	return launcher.Result{PID: f.nextPID, Code: launcher.CodeLocal}, nil
}

func (f *fakeLauncher) Terminate(_ context.Context, pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminations = append(f.terminations, pid)
	return nil
}

func (f *fakeLauncher) launchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.launchCalls)
}

func (f *fakeLauncher) terminatedPIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.terminations...)
}

// fakeWorkerRPC is a test double for transport.WorkerRPC.
type fakeWorkerRPC struct {
	mu sync.Mutex

	pauseCode  int
	resumeCode int
}

func newFakeWorkerRPC() *fakeWorkerRPC {
	return &fakeWorkerRPC{}
}

func (f *fakeWorkerRPC) Pause(_ context.Context, _ string, _ float64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pauseCode, nil
}

func (f *fakeWorkerRPC) Resume(_ context.Context, _ string, _ float64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumeCode, nil
}

// fakeFaultChecker is a test double for registry.FaultChecker.
type fakeFaultChecker struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func newFakeFaultChecker() *fakeFaultChecker {
	return &fakeFaultChecker{}
}

func (f *fakeFaultChecker) Check(_ context.Context, slaveName string, _ int, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, slaveName)
	return f.err
}

func (f *fakeFaultChecker) checkedSlaves() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeClock is a test double for shared.Nower with a settable current time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
