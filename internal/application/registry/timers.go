package registry

import "time"

// timerSet holds the three timers a slave may have armed at any point in
// its lifecycle. A nil field means the corresponding timer is not armed.
// Every arm/cancel pair nulls the field before stopping the timer. The
// expiry callbacks do not read these fields: the activate and relaunch
// callbacks drop a stale fire by checking that the slave is still in
// RequestToLaunch, and the TTL callback makes no such check.
type timerSet struct {
	activate *time.Timer
	relaunch *time.Timer
	ttl      *time.Timer
}

// armActivate starts (or restarts) the activate_timer.
func (t *timerSet) armActivate(d time.Duration, fn func()) {
	t.cancelActivate()
	t.activate = time.AfterFunc(d, fn)
}

// cancelActivate stops the activate_timer if armed. The field is nulled
// before Stop is called.
func (t *timerSet) cancelActivate() {
	tm := t.activate
	t.activate = nil
	if tm != nil {
		tm.Stop()
	}
}

// armRelaunch starts (or restarts) the relaunch_timer.
func (t *timerSet) armRelaunch(d time.Duration, fn func()) {
	t.cancelRelaunch()
	t.relaunch = time.AfterFunc(d, fn)
}

// cancelRelaunch stops the relaunch_timer if armed.
func (t *timerSet) cancelRelaunch() {
	tm := t.relaunch
	t.relaunch = nil
	if tm != nil {
		tm.Stop()
	}
}

// armTTL starts (or restarts) the ttl_timer with a full window.
func (t *timerSet) armTTL(d time.Duration, fn func()) {
	t.cancelTTL()
	t.ttl = time.AfterFunc(d, fn)
}

// cancelTTL stops the ttl_timer if armed.
func (t *timerSet) cancelTTL() {
	tm := t.ttl
	t.ttl = nil
	if tm != nil {
		tm.Stop()
	}
}
