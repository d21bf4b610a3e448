package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appconfig "execnotify/config"
	"execnotify/feed/bybit"
	"execnotify/health"
	"execnotify/internal/dedup"
	"execnotify/internal/liveness"
	"execnotify/internal/metrics"
	"execnotify/logger"
	"execnotify/notify"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := appconfig.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Execnotify.Name,
		"version":     cfg.Execnotify.Version,
		"environment": cfg.Feed.Environment,
	}).Info("starting execnotify")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	metrics.Init()

	// One-shot clock sync against the exchange REST API. Failure is not
	// fatal; auth signatures fall back to the local clock.
	clock := bybit.NewServerClock()
	if restURL := appconfig.RestURL(cfg); restURL != "" {
		syncCtx, syncCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := clock.Sync(syncCtx, restURL); err != nil {
			log.WithError(err).Warn("server clock sync failed, using local time")
		} else {
			log.WithFields(logger.Fields{"offset": clock.Offset().String()}).Info("server clock synced")
		}
		syncCancel()
	}

	window := dedup.NewWindow(cfg.Dedup.Window)
	tracker := liveness.NewTracker()
	sink := notify.NewSlackClient(cfg.Notify, cfg.Credentials.SlackWebhookURL)
	dial := bybit.NewWebsocketDialer(cfg.Feed.PingInterval, cfg.Feed.PongTimeout, log.WithComponent("feed_transport"))

	supervisor := bybit.NewSupervisor(cfg, dial, window, tracker, sink, clock)
	healthServer := health.NewServer(cfg.Health, tracker)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		supervisor.Run(ctx)
	}()

	if healthServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := healthServer.Run(ctx); err != nil {
				log.WithError(err).Error("health server failed")
			}
		}()
	}

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("execnotify stopped")
}
