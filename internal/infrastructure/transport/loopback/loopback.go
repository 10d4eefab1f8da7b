// Package loopback provides minimal in-process implementations of the
// worker RPC channel and client broadcaster ports. The real worker and
// client wire protocols are explicitly out of scope for this module;
// this adapter exists so the application layer has a concrete
// collaborator to wire for local running and tests, rather than leaving
// the ports unimplemented.
package loopback

import (
	"context"
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
	"github.com/kodflow/livewidgetd/internal/domain/transport"
)

// WorkerRPC is a loopback implementation of transport.WorkerRPC: every
// pause/resume request succeeds immediately, since there is no real
// worker process to ask. It records the last request per slave for
// inspection by tests.
type WorkerRPC struct {
	mu      sync.Mutex
	paused  map[string]float64
	resumed map[string]float64
}

// NewWorkerRPC constructs a loopback WorkerRPC.
//
// Returns:
//   - *WorkerRPC: a worker RPC channel that always succeeds.
func NewWorkerRPC() *WorkerRPC {
	return &WorkerRPC{
		paused:  make(map[string]float64),
		resumed: make(map[string]float64),
	}
}

// Pause records the pause request and reports success.
//
// Params:
//   - ctx: unused; loopback calls never block.
//   - slaveName: the target slave's stable name.
//   - timestamp: the pause timestamp, seconds since epoch.
//
// Returns:
//   - int: always 0 (success).
//   - error: always nil.
func (w *WorkerRPC) Pause(_ context.Context, slaveName string, timestamp float64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused[slaveName] = timestamp
	return 0, nil
}

// Resume records the resume request and reports success.
//
// Params:
//   - ctx: unused; loopback calls never block.
//   - slaveName: the target slave's stable name.
//   - timestamp: the resume timestamp, seconds since epoch.
//
// Returns:
//   - int: always 0 (success).
//   - error: always nil.
func (w *WorkerRPC) Resume(_ context.Context, slaveName string, timestamp float64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resumed[slaveName] = timestamp
	return 0, nil
}

// LastPause returns the timestamp of the most recent pause request for
// slaveName, used by tests.
//
// Params:
//   - slaveName: the slave to inspect.
//
// Returns:
//   - float64: the last recorded pause timestamp.
//   - bool: true if a pause request was ever recorded for slaveName.
func (w *WorkerRPC) LastPause(slaveName string) (float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ts, ok := w.paused[slaveName]
	return ts, ok
}

// Broadcaster is a loopback implementation of transport.ClientBroadcaster
// that logs every notice instead of delivering it over a wire protocol.
type Broadcaster struct {
	logger logging.Logger
}

// NewBroadcaster constructs a loopback Broadcaster that logs through
// logger.
//
// Params:
//   - logger: the logger notices are recorded through.
//
// Returns:
//   - *Broadcaster: a client broadcaster that logs instead of sending.
func NewBroadcaster(logger logging.Logger) *Broadcaster {
	return &Broadcaster{logger: logger}
}

// Broadcast logs notice as delivered to every connected client.
//
// Params:
//   - notice: the fault notice to deliver.
func (b *Broadcaster) Broadcast(notice transport.FaultNotice) {
	b.logger.Info("", "fault_broadcast", "fault notice broadcast to all clients", map[string]any{
		"package":  notice.Package,
		"filename": notice.Filename,
		"funcname": notice.Funcname,
	})
}

// Unicast logs notice as delivered to clientID.
//
// Params:
//   - clientID: the target client's identifier.
//   - notice: the fault notice to deliver.
func (b *Broadcaster) Unicast(clientID string, notice transport.FaultNotice) {
	b.logger.Info("", "fault_unicast", "fault notice delivered to client", map[string]any{
		"client_id": clientID,
		"package":   notice.Package,
		"filename":  notice.Filename,
		"funcname":  notice.Funcname,
	})
}
