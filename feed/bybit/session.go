package bybit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	appconfig "execnotify/config"
	"execnotify/internal/dedup"
	"execnotify/internal/liveness"
	"execnotify/internal/metrics"
	"execnotify/logger"
	"execnotify/models"
	"execnotify/notify"
)

// Session owns one logical feed connection: handshake, inbound decode,
// filter/dedup/notify dispatch and liveness updates. A session never
// reconnects; it terminates on the first transport error and the supervisor
// builds a fresh one.
type Session struct {
	cfg     *appconfig.Config
	url     string
	dial    Dialer
	window  *dedup.Window
	tracker *liveness.Tracker
	filter  *EventFilter
	sink    notify.Sink
	clock   *ServerClock
	onOpen  func()
	log     *logger.Entry
}

// NewSession wires a session against the shared dedup window and liveness
// tracker. onOpen runs after a successful handshake (the supervisor uses it
// for the once-per-process startup notification); it may be nil.
func NewSession(cfg *appconfig.Config, dial Dialer, window *dedup.Window, tracker *liveness.Tracker, sink notify.Sink, clock *ServerClock, onOpen func()) *Session {
	return &Session{
		cfg:     cfg,
		url:     appconfig.WebsocketURL(cfg),
		dial:    dial,
		window:  window,
		tracker: tracker,
		filter:  NewEventFilter(cfg.Feed.TradeExecutionsOnly()),
		sink:    sink,
		clock:   clock,
		onOpen:  onOpen,
		log: logger.GetLogger().WithComponent("feed_session").WithFields(logger.Fields{
			"session_id": uuid.NewString(),
		}),
	}
}

// Run drives the session to completion and returns the terminating error.
// It blocks until the transport fails or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	conn, err := s.dial(ctx, s.url)
	if err != nil {
		return fmt.Errorf("dial private stream: %w", err)
	}
	defer conn.Close()

	// Auth and subscribe go out back-to-back; the feed does not require
	// waiting for the auth acknowledgement before subscribing.
	if err := s.authenticate(conn); err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	if err := s.subscribe(conn); err != nil {
		return fmt.Errorf("send subscribe request: %w", err)
	}

	s.tracker.MarkConnected()
	metrics.SetConnected(true)
	defer func() {
		s.tracker.MarkDisconnected()
		metrics.SetConnected(false)
	}()

	s.log.WithFields(logger.Fields{
		"url":    s.url,
		"topics": s.cfg.Feed.Topics,
	}).Info("private stream connected")

	if s.onOpen != nil {
		s.onOpen()
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read private stream: %w", err)
		}
		s.tracker.Touch()
		logger.IncrementFrameRead(len(raw))
		metrics.IncrementFrame()
		s.handleFrame(ctx, raw)
	}
}

func (s *Session) authenticate(conn Transport) error {
	expires := s.clock.Now().Add(s.cfg.Feed.AuthWindow).UnixMilli()
	return conn.WriteJSON(models.AuthRequest{
		Op:   models.OpAuth,
		Args: []interface{}{s.cfg.Credentials.APIKey, expires, Sign(s.cfg.Credentials.APISecret, expires)},
	})
}

func (s *Session) subscribe(conn Transport) error {
	return conn.WriteJSON(models.SubscribeRequest{
		Op:    models.OpSubscribe,
		Args:  s.cfg.Feed.Topics,
		ReqID: uuid.NewString(),
	})
}

// handleFrame classifies one inbound frame. Frames that fail to decode are
// dropped without terminating the session.
func (s *Session) handleFrame(ctx context.Context, raw []byte) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.log.WithError(err).Debug("dropping undecodable frame")
		return
	}

	switch {
	case frame.IsAuthAck():
		if *frame.Success {
			s.log.Info("private stream authenticated")
		} else {
			// The session is kept open on purpose: an unauthenticated
			// connection simply stops receiving private data, which the
			// staleness threshold eventually surfaces as unhealthy.
			s.log.WithField("ret_msg", frame.RetMsg).Error("authentication rejected by feed")
		}
	case frame.Op == models.OpSubscribe:
		s.log.WithFields(logger.Fields{
			"success": frame.Success != nil && *frame.Success,
			"ret_msg": frame.RetMsg,
		}).Debug("subscription acknowledged")
	case frame.Op == models.OpPong:
		s.log.Debug("pong received")
	case frame.Topic == models.TopicExecution:
		s.handleExecutions(ctx, frame.Data)
	default:
		s.log.WithFields(logger.Fields{"topic": frame.Topic, "op": frame.Op}).Debug("ignoring frame")
	}
}

func (s *Session) handleExecutions(ctx context.Context, data json.RawMessage) {
	var events []models.ExecutionEvent
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.WithError(err).Debug("dropping undecodable execution payload")
		return
	}

	for _, ev := range events {
		if !s.filter.Accept(ev) {
			continue
		}
		if s.window.Contains(ev.ExecID) {
			logger.IncrementDedupHit()
			metrics.IncrementDuplicate()
			continue
		}
		// Recorded before delivery: a failed notification is not retried,
		// so the event must not fire again on replay (at-most-once).
		s.window.Record(ev.ExecID)
		logger.IncrementExecutionSeen()
		metrics.IncrementExecution(ev.Side)

		s.deliver(ctx, notify.FormatExecution(ev), ev.ExecID)
	}
}

// deliver posts one notification, swallowing any failure.
func (s *Session) deliver(ctx context.Context, msg notify.Message, execID string) {
	postCtx, cancel := context.WithTimeout(ctx, s.cfg.Notify.Timeout)
	defer cancel()

	if err := s.sink.Post(postCtx, msg); err != nil {
		logger.IncrementNotificationFailed()
		if errors.Is(err, notify.ErrRateLimited) {
			metrics.IncrementNotification("dropped")
		} else {
			metrics.IncrementNotification("error")
		}
		s.log.WithError(err).WithField("exec_id", execID).Warn("failed to deliver notification")
		return
	}
	logger.IncrementNotificationSent()
	metrics.IncrementNotification("ok")
}
