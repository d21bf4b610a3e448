package bybit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"execnotify/internal/dedup"
	"execnotify/internal/liveness"
	"execnotify/models"
)

// countingDialer hands out one fresh fakeTransport per dial and cancels the
// supplied context once the limit is reached, so Supervisor.Run terminates.
type countingDialer struct {
	mu         sync.Mutex
	transports []*fakeTransport
	limit      int
	cancel     context.CancelFunc
}

func (d *countingDialer) dial(ctx context.Context, url string) (Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn := &fakeTransport{}
	d.transports = append(d.transports, conn)
	if len(d.transports) >= d.limit {
		d.cancel()
	}
	return conn, nil
}

func TestSupervisorReconnectsWithFreshHandshake(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	dialer := &countingDialer{limit: 3, cancel: cancel}
	sink := &fakeSink{}

	sup := NewSupervisor(cfg, dialer.dial, dedup.NewWindow(10), liveness.NewTracker(), sink, NewServerClock())
	sup.Run(ctx)

	if len(dialer.transports) != 3 {
		t.Fatalf("supervisor dialed %d times, want 3", len(dialer.transports))
	}

	// The first two sessions ran to completion; each must have performed a
	// full auth+subscribe handshake of its own.
	for i, conn := range dialer.transports[:2] {
		if len(conn.writes) != 2 {
			t.Fatalf("session %d wrote %d messages, want 2", i, len(conn.writes))
		}
		auth, ok := conn.writes[0].(models.AuthRequest)
		if !ok {
			t.Fatalf("session %d first write is %T, want AuthRequest", i, conn.writes[0])
		}
		expires, ok := auth.Args[1].(int64)
		if !ok {
			t.Fatalf("session %d auth expires is %T, want int64", i, auth.Args[1])
		}
		if got, want := auth.Args[2], Sign("test-secret", expires); got != want {
			t.Errorf("session %d auth signature = %v, want %v", i, got, want)
		}
		if !conn.closed {
			t.Errorf("session %d transport not closed", i)
		}
	}
}

func TestSupervisorSharesDedupAcrossSessions(t *testing.T) {
	cfg := testConfig()
	cfg.Notify.StartupMessage = false
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var dials int
	dial := func(ctx context.Context, url string) (Transport, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials >= 3 {
			cancel()
		}
		// Every session replays the same execution frame.
		return &fakeTransport{frames: [][]byte{[]byte(executionFrame)}}, nil
	}
	sink := &fakeSink{}

	sup := NewSupervisor(cfg, dial, dedup.NewWindow(10), liveness.NewTracker(), sink, NewServerClock())
	sup.Run(ctx)

	if sink.count() != 1 {
		t.Fatalf("replays across reconnects delivered %d notifications, want 1", sink.count())
	}
}

func TestSupervisorStartupMessageOnce(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	dialer := &countingDialer{limit: 3, cancel: cancel}
	sink := &fakeSink{}

	sup := NewSupervisor(cfg, dialer.dial, dedup.NewWindow(10), liveness.NewTracker(), sink, NewServerClock())
	sup.Run(ctx)

	var startups int
	for _, msg := range sink.messages {
		if strings.Contains(msg.Text, "started") {
			startups++
		}
	}
	if startups != 1 {
		t.Fatalf("startup message delivered %d times across reconnects, want 1", startups)
	}
}

func TestSupervisorStartupMessageDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Notify.StartupMessage = false
	ctx, cancel := context.WithCancel(context.Background())
	dialer := &countingDialer{limit: 2, cancel: cancel}
	sink := &fakeSink{}

	sup := NewSupervisor(cfg, dialer.dial, dedup.NewWindow(10), liveness.NewTracker(), sink, NewServerClock())
	sup.Run(ctx)

	if sink.count() != 0 {
		t.Fatalf("startup disabled but %d notifications delivered", sink.count())
	}
}

func TestWaitForReconnectCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if waitForReconnect(ctx, time.Minute) {
		t.Fatal("waitForReconnect returned true on a cancelled context")
	}
}
