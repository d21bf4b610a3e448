// Package health hosts the HTTP surface reporting feed liveness alongside
// the Prometheus exposition endpoint.
package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"execnotify/config"
	"execnotify/internal/liveness"
	"execnotify/internal/metrics"
	"execnotify/logger"
)

// Server answers /healthz from the liveness tracker and serves /metrics.
type Server struct {
	cfg        config.HealthConfig
	tracker    *liveness.Tracker
	log        *logger.Entry
	httpServer *http.Server
}

// NewServer constructs a health server when the health surface is enabled.
// When it is disabled the returned server is nil.
func NewServer(cfg config.HealthConfig, tracker *liveness.Tracker) *Server {
	if !cfg.Enabled {
		return nil
	}

	cfg.Address = normalizeAddress(cfg.Address)
	if cfg.StalenessThreshold <= 0 {
		cfg.StalenessThreshold = 300 * time.Second
	}

	return &Server{
		cfg:     cfg,
		tracker: tracker,
		log:     logger.GetLogger().WithComponent("health"),
	}
}

// Run starts the HTTP server and blocks until the provided context is
// cancelled or the server exits with an error.
func (s *Server) Run(ctx context.Context) error {
	if s == nil {
		return nil
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.buildRouter(),
	}

	s.log.WithFields(logger.Fields{"address": s.cfg.Address}).Info("health server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Address reports the network address the server listens on.
func (s *Server) Address() string {
	if s == nil {
		return ""
	}
	return s.cfg.Address
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}

// handleHealthz reports healthy while the feed has produced traffic within
// the staleness threshold. A brief reconnect stays healthy; a connection
// that has gone silent (including an unauthenticated one) does not. The
// connected flag is informational.
func (s *Server) handleHealthz(c *gin.Context) {
	state := s.tracker.Snapshot()
	stale := s.tracker.IsStale(s.cfg.StalenessThreshold)

	status := http.StatusOK
	label := "ok"
	if stale {
		status = http.StatusServiceUnavailable
		label = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":                  label,
		"connected":               state.Connected,
		"stale":                   stale,
		"last_activity":           state.LastActivityAt.Format(time.RFC3339Nano),
		"stale_threshold_seconds": int(s.cfg.StalenessThreshold / time.Second),
	})
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)

	if addr == "" {
		return "0.0.0.0:8080"
	}

	if strings.HasPrefix(addr, ":") {
		if len(addr) > 1 && addr[1] >= '0' && addr[1] <= '9' {
			return "0.0.0.0" + addr
		}
	}

	host, port, err := net.SplitHostPort(addr)
	if err == nil {
		if host == "" || host == "*" {
			host = "0.0.0.0"
		}
		if port == "" {
			port = "8080"
		}
		return net.JoinHostPort(host, port)
	}

	if !strings.Contains(addr, ":") {
		return net.JoinHostPort(addr, "8080")
	}

	return addr
}
