// Package metrics registers the Prometheus collectors:
//
//	execnotify_frames_total
//	execnotify_executions_total{side}
//	execnotify_notifications_total{result}
//	execnotify_duplicates_total
//	execnotify_reconnects_total
//	execnotify_connected
//	go_* and process_* system metrics
//
// The exposition handler is served by the health server under /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once          sync.Once
	frames        prometheus.Counter
	executions    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	duplicates    prometheus.Counter
	reconnects    prometheus.Counter
	connected     prometheus.Gauge
)

func Init() {
	once.Do(func() {
		frames = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "execnotify_frames_total",
			Help: "Number of inbound websocket frames processed",
		})

		executions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "execnotify_executions_total",
				Help: "Number of execution events accepted by the filter",
			},
			[]string{"side"},
		)

		notifications = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "execnotify_notifications_total",
				Help: "Number of outbound notifications by result (ok|error|dropped)",
			},
			[]string{"result"},
		)

		duplicates = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "execnotify_duplicates_total",
			Help: "Number of execution events suppressed by the dedup window",
		})

		reconnects = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "execnotify_reconnects_total",
			Help: "Number of feed reconnect attempts",
		})

		connected = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "execnotify_connected",
			Help: "1 while the private feed connection is open",
		})

		_ = prometheus.Register(frames)
		_ = prometheus.Register(executions)
		_ = prometheus.Register(notifications)
		_ = prometheus.Register(duplicates)
		_ = prometheus.Register(reconnects)
		_ = prometheus.Register(connected)
		_ = prometheus.Register(collectors.NewGoCollector())
		_ = prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncrementFrame counts one processed inbound frame.
func IncrementFrame() {
	if frames != nil {
		frames.Inc()
	}
}

// IncrementExecution counts one accepted execution for the given side.
func IncrementExecution(side string) {
	if executions != nil {
		executions.WithLabelValues(side).Inc()
	}
}

// IncrementNotification counts one notification attempt by result.
func IncrementNotification(result string) {
	if notifications != nil {
		notifications.WithLabelValues(result).Inc()
	}
}

// IncrementDuplicate counts one event dropped by the dedup window.
func IncrementDuplicate() {
	if duplicates != nil {
		duplicates.Inc()
	}
}

// IncrementReconnect counts one reconnect attempt.
func IncrementReconnect() {
	if reconnects != nil {
		reconnects.Inc()
	}
}

// SetConnected mirrors the liveness connected flag into the gauge.
func SetConnected(up bool) {
	if connected == nil {
		return
	}
	if up {
		connected.Set(1)
	} else {
		connected.Set(0)
	}
}
