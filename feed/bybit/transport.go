package bybit

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"execnotify/logger"
)

const (
	defaultKeepAlive   = 20 * time.Second
	defaultPongTimeout = 10 * time.Second
)

// Transport is one open message connection to the feed. Implementations own
// keep-alive; a missed pong surfaces as a read error, which callers treat
// like any other transport failure.
type Transport interface {
	WriteJSON(v interface{}) error
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer opens a Transport against the given endpoint. Sessions hold a
// Dialer rather than a connection so tests can substitute scripted
// transports.
type Dialer func(ctx context.Context, url string) (Transport, error)

type wsTransport struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	pingCancel  context.CancelFunc
	closeOnce   sync.Once
	writeMu     sync.Mutex
}

// NewWebsocketDialer returns a Dialer producing gorilla/websocket transports
// with a ping loop at pingInterval and a read deadline of
// pingInterval+pongTimeout, refreshed on every inbound message and pong.
func NewWebsocketDialer(pingInterval, pongTimeout time.Duration, log *logger.Entry) Dialer {
	if pingInterval <= 0 {
		pingInterval = defaultKeepAlive
	}
	if pongTimeout <= 0 {
		pongTimeout = defaultPongTimeout
	}

	return func(ctx context.Context, url string) (Transport, error) {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}

		t := &wsTransport{
			conn:        conn,
			readTimeout: pingInterval + pongTimeout,
		}

		conn.SetReadDeadline(time.Now().Add(t.readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(t.readTimeout))
		})

		t.pingCancel = t.startPingLoop(ctx, pingInterval, log)
		return t, nil
	}
}

func (t *wsTransport) WriteJSON(v interface{}) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(time.Second))
	return t.conn.WriteJSON(v)
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	_, msg, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	return msg, nil
}

func (t *wsTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if t.pingCancel != nil {
			t.pingCancel()
		}
		err = t.conn.Close()
	})
	return err
}

func (t *wsTransport) startPingLoop(ctx context.Context, interval time.Duration, log *logger.Entry) context.CancelFunc {
	pingCtx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				// WriteControl is safe to call concurrently with WriteJSON
				// and carries its own deadline.
				if err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
					if log != nil {
						log.WithError(err).Warn("failed to send websocket ping")
					}
					cancel()
					return
				}
			}
		}
	}()
	return cancel
}
