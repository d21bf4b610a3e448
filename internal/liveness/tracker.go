// Package liveness holds the shared connection state the health surface
// reads while the feed loop writes.
package liveness

import (
	"sync"
	"time"
)

// State is a consistent snapshot of the tracker.
type State struct {
	Connected      bool
	LastActivityAt time.Time
}

// Tracker records the last inbound activity and the connected flag. The
// session goroutine writes, the health handler reads; a RWMutex keeps the
// timestamp/flag pair from tearing.
type Tracker struct {
	mu           sync.RWMutex
	connected    bool
	lastActivity time.Time

	now func() time.Time
}

// NewTracker returns a tracker whose last-activity starts at construction
// time, so a process that never connects still goes stale on schedule.
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.lastActivity = t.now()
	return t
}

// MarkConnected flags the feed as connected and counts as activity.
func (t *Tracker) MarkConnected() {
	t.mu.Lock()
	t.connected = true
	t.lastActivity = t.now()
	t.mu.Unlock()
}

// MarkDisconnected clears the connected flag. Last activity is left alone;
// staleness keeps aging from the final frame.
func (t *Tracker) MarkDisconnected() {
	t.mu.Lock()
	t.connected = false
	t.mu.Unlock()
}

// Touch records inbound activity.
func (t *Tracker) Touch() {
	t.mu.Lock()
	t.lastActivity = t.now()
	t.mu.Unlock()
}

// IsStale reports whether no activity has been seen for longer than
// threshold.
func (t *Tracker) IsStale(threshold time.Duration) bool {
	t.mu.RLock()
	last := t.lastActivity
	t.mu.RUnlock()
	return t.now().Sub(last) > threshold
}

// Snapshot returns the current state as one consistent read.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{Connected: t.connected, LastActivityAt: t.lastActivity}
}
