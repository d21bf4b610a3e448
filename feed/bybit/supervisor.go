package bybit

import (
	"context"
	"sync"
	"time"

	appconfig "execnotify/config"
	"execnotify/internal/dedup"
	"execnotify/internal/liveness"
	"execnotify/internal/metrics"
	"execnotify/logger"
	"execnotify/notify"
)

// Supervisor keeps a feed session alive for the life of the process. When a
// session ends it waits out the reconnect delay and builds a fresh one; the
// dedup window and liveness tracker are shared across sessions so replays
// after a reconnect stay suppressed.
type Supervisor struct {
	cfg     *appconfig.Config
	dial    Dialer
	window  *dedup.Window
	tracker *liveness.Tracker
	sink    notify.Sink
	clock   *ServerClock
	log     *logger.Entry

	startupOnce sync.Once
}

// NewSupervisor wires a supervisor over the shared window and tracker.
func NewSupervisor(cfg *appconfig.Config, dial Dialer, window *dedup.Window, tracker *liveness.Tracker, sink notify.Sink, clock *ServerClock) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		dial:    dial,
		window:  window,
		tracker: tracker,
		sink:    sink,
		clock:   clock,
		log:     logger.GetLogger().WithComponent("feed_supervisor"),
	}
}

// Run loops sessions until ctx is cancelled. Session failures are logged and
// retried without a cap.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		session := NewSession(s.cfg, s.dial, s.window, s.tracker, s.sink, s.clock, s.notifyStartup)
		err := session.Run(ctx)

		if ctx.Err() != nil {
			s.log.Info("feed supervisor stopping")
			return
		}

		logger.IncrementReconnect()
		metrics.IncrementReconnect()
		s.log.WithError(err).WithField("retry_in", s.cfg.Feed.ReconnectDelay.String()).Warn("feed session ended, reconnecting")

		if !waitForReconnect(ctx, s.cfg.Feed.ReconnectDelay) {
			s.log.Info("feed supervisor stopping")
			return
		}
	}
}

// notifyStartup posts the startup message the first time a session comes up.
// Reconnects within the same process stay silent.
func (s *Supervisor) notifyStartup() {
	if !s.cfg.Notify.StartupMessage {
		return
	}
	s.startupOnce.Do(func() {
		msg := notify.FormatStartup(s.cfg.Execnotify.Name, s.cfg.Execnotify.Version, s.cfg.Feed.Environment)

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Notify.Timeout)
		defer cancel()

		if err := s.sink.Post(ctx, msg); err != nil {
			s.log.WithError(err).Warn("failed to deliver startup notification")
		}
	})
}

// waitForReconnect sleeps for delay, returning false if ctx is cancelled
// first.
func waitForReconnect(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
