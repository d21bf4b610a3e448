package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	appconfig "execnotify/config"
	"execnotify/logger"
)

// ErrRateLimited marks a message dropped by the outbound rate limiter.
var ErrRateLimited = errors.New("notification rate exceeded, message dropped")

// Sink accepts notification payloads. Delivery is best-effort; callers log
// and swallow the returned error without retrying.
type Sink interface {
	Post(ctx context.Context, msg Message) error
}

// SlackClient posts messages to a Slack incoming webhook. A non-blocking
// rate limiter drops over-rate messages instead of queueing them, keeping
// the sink fire-and-forget.
type SlackClient struct {
	webhookURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Log
}

// NewSlackClient builds a client from the notify configuration and the
// webhook URL resolved from the environment.
func NewSlackClient(cfg appconfig.NotifyConfig, webhookURL string) *SlackClient {
	var limiter *rate.Limiter
	if cfg.Rate.EventsPerSecond > 0 {
		burst := cfg.Rate.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate.EventsPerSecond), burst)
	}

	return &SlackClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		log:        logger.GetLogger(),
	}
}

// Post delivers one message. It returns an error on rate-limit drops,
// transport failures and non-2xx responses; none of these are retried.
func (c *SlackClient) Post(ctx context.Context, msg Message) error {
	if c.limiter != nil && !c.limiter.Allow() {
		return ErrRateLimited
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	c.log.WithComponent("notify_slack").WithFields(logger.Fields{
		"bytes": len(payload),
	}).Debug("notification delivered")
	return nil
}
