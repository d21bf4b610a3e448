package liveness

import (
	"testing"
	"time"
)

func TestFreshAfterTouch(t *testing.T) {
	tr := NewTracker()
	tr.Touch()
	if tr.IsStale(300 * time.Second) {
		t.Fatal("tracker stale immediately after Touch")
	}
}

func TestStaleAfterClockAdvance(t *testing.T) {
	current := time.Unix(1_700_000_000, 0)
	tr := NewTracker()
	tr.now = func() time.Time { return current }
	tr.Touch()

	current = current.Add(299 * time.Second)
	if tr.IsStale(300 * time.Second) {
		t.Fatal("stale before threshold elapsed")
	}

	current = current.Add(2 * time.Second)
	if !tr.IsStale(300 * time.Second) {
		t.Fatal("not stale after threshold elapsed with no Touch")
	}

	tr.Touch()
	if tr.IsStale(300 * time.Second) {
		t.Fatal("stale right after intervening Touch")
	}
}

func TestConnectedFlag(t *testing.T) {
	tr := NewTracker()
	if tr.Snapshot().Connected {
		t.Fatal("tracker connected before MarkConnected")
	}
	tr.MarkConnected()
	if !tr.Snapshot().Connected {
		t.Fatal("MarkConnected not visible in snapshot")
	}
	tr.MarkDisconnected()
	snap := tr.Snapshot()
	if snap.Connected {
		t.Fatal("MarkDisconnected not visible in snapshot")
	}
	if snap.LastActivityAt.IsZero() {
		t.Fatal("last activity lost on disconnect")
	}
}

func TestMarkConnectedCountsAsActivity(t *testing.T) {
	current := time.Unix(1_700_000_000, 0)
	tr := NewTracker()
	tr.now = func() time.Time { return current }
	tr.Touch()

	current = current.Add(10 * time.Minute)
	tr.MarkConnected()
	if tr.IsStale(300 * time.Second) {
		t.Fatal("stale immediately after reconnect")
	}
}
