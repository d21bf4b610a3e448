package bybit

import (
	"context"
	"fmt"
	"sync"
	"time"

	bybitapi "github.com/bybit-exchange/bybit.go.api"
)

// ServerClock tracks the offset between the local clock and the exchange's
// server time. Auth signatures carry a ~10s expiry window, so on hosts with
// clock drift a raw local timestamp can produce signatures the feed refuses.
type ServerClock struct {
	mu     sync.RWMutex
	offset time.Duration
	now    func() time.Time
}

// NewServerClock returns a clock with zero offset (local time).
func NewServerClock() *ServerClock {
	return &ServerClock{now: time.Now}
}

// Now returns the current time adjusted by the last synced offset.
func (c *ServerClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Add(c.offset)
}

// Offset returns the last synced offset.
func (c *ServerClock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// Sync fetches the exchange server time once and records the offset against
// the midpoint of the request. Callers treat failure as non-fatal and keep
// the local clock.
func (c *ServerClock) Sync(ctx context.Context, restURL string) error {
	client := bybitapi.NewBybitHttpClient("", "", bybitapi.WithBaseURL(restURL))

	before := c.now()
	resp, err := client.NewUtaBybitServiceNoParams().GetServerTime(ctx)
	if err != nil {
		return fmt.Errorf("fetch server time: %w", err)
	}
	after := c.now()

	if resp == nil || resp.Time == 0 {
		return fmt.Errorf("server time response carried no timestamp")
	}

	midpoint := before.Add(after.Sub(before) / 2)
	offset := time.UnixMilli(resp.Time).Sub(midpoint)

	c.mu.Lock()
	c.offset = offset
	c.mu.Unlock()
	return nil
}
