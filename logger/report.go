package logger

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"                              //cloudwatch
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types" //cloudwatch
)

var (
	errorsFeed     int64
	errorsNotify   int64
	warnsFeed      int64
	warnsNotify    int64
	framesRead     int64
	frameBytes     int64
	executionsSeen int64
	notifySent     int64
	notifyFailed   int64
	dedupHits      int64
	reconnectCount int64
)

func recordWarn(component string) {
	if strings.Contains(component, "notify") || strings.Contains(component, "slack") {
		atomic.AddInt64(&warnsNotify, 1)
	} else if strings.Contains(component, "feed") || strings.Contains(component, "session") {
		atomic.AddInt64(&warnsFeed, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "notify") || strings.Contains(component, "slack") {
		atomic.AddInt64(&errorsNotify, 1)
	} else if strings.Contains(component, "feed") || strings.Contains(component, "session") {
		atomic.AddInt64(&errorsFeed, 1)
	}
}

// IncrementFrameRead records one inbound websocket frame of the given size.
func IncrementFrameRead(size int) {
	atomic.AddInt64(&framesRead, 1)
	atomic.AddInt64(&frameBytes, int64(size))
}

// IncrementExecutionSeen records one execution event accepted by the filter.
func IncrementExecutionSeen() {
	atomic.AddInt64(&executionsSeen, 1)
}

// IncrementNotificationSent records one successfully delivered notification.
func IncrementNotificationSent() {
	atomic.AddInt64(&notifySent, 1)
}

// IncrementNotificationFailed records one swallowed notification failure.
func IncrementNotificationFailed() {
	atomic.AddInt64(&notifyFailed, 1)
}

// IncrementDedupHit records one duplicate execution id suppression.
func IncrementDedupHit() {
	atomic.AddInt64(&dedupHits, 1)
}

// IncrementReconnect records one feed reconnect attempt.
func IncrementReconnect() {
	atomic.AddInt64(&reconnectCount, 1)
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

// StartReport begins periodic logging of system and pipeline statistics.
// It exposes the internal startReport function for use by other packages.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}
	memMB := int64(0)
	if memStats != nil {
		memMB = int64(memStats.Used) / 1024 / 1024
	}

	fields := Fields{
		"errors_feed":          atomic.LoadInt64(&errorsFeed),
		"errors_notify":        atomic.LoadInt64(&errorsNotify),
		"warns_feed":           atomic.LoadInt64(&warnsFeed),
		"warns_notify":         atomic.LoadInt64(&warnsNotify),
		"frames_read":          atomic.LoadInt64(&framesRead),
		"frame_bytes":          atomic.LoadInt64(&frameBytes),
		"executions_seen":      atomic.LoadInt64(&executionsSeen),
		"notifications_sent":   atomic.LoadInt64(&notifySent),
		"notifications_failed": atomic.LoadInt64(&notifyFailed),
		"dedup_hits":           atomic.LoadInt64(&dedupHits),
		"reconnects":           atomic.LoadInt64(&reconnectCount),
		"goroutines":           runtime.NumGoroutine(),
		"cpu_percent":          cpuPct,
		"memory_mb":            memMB,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	data := []cwtypes.MetricDatum{
		{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memMB))},
		{MetricName: aws.String("FramesRead"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["frames_read"].(int64)))},
		{MetricName: aws.String("ExecutionsSeen"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["executions_seen"].(int64)))},
		{MetricName: aws.String("NotificationsSent"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["notifications_sent"].(int64)))},
		{MetricName: aws.String("NotificationsFailed"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["notifications_failed"].(int64)))},
		{MetricName: aws.String("DedupHits"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["dedup_hits"].(int64)))},
		{MetricName: aws.String("Reconnects"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["reconnects"].(int64)))},
		{MetricName: aws.String("ErrorsFeed"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_feed"].(int64)))},
		{MetricName: aws.String("ErrorsNotify"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_notify"].(int64)))},
		{MetricName: aws.String("WarnsFeed"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["warns_feed"].(int64)))},
		{MetricName: aws.String("WarnsNotify"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["warns_notify"].(int64)))},
	}

	publishMetrics(ctx, data)
}
