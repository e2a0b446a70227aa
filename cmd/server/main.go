// Package main is the entry point for the publishtimer service.
//
// publishtimer computes, per account, the 7-day schedule of best posting
// times from historical engagement data and writes it to the save-schedule
// API. The process runs an HTTP API for on-demand computation and a
// background worker that drains the work queue, plus an optional cron-driven
// refresh that re-enqueues every known account.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crowdfire/publishtimer/internal/clients/timeline"
	"github.com/crowdfire/publishtimer/internal/config"
	"github.com/crowdfire/publishtimer/internal/database"
	"github.com/crowdfire/publishtimer/internal/eventstore"
	"github.com/crowdfire/publishtimer/internal/queue"
	"github.com/crowdfire/publishtimer/internal/schedule"
	"github.com/crowdfire/publishtimer/internal/server"
	"github.com/crowdfire/publishtimer/internal/worker"
	"github.com/crowdfire/publishtimer/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting publishtimer")

	// Two databases: the event store (durable) and the work queue
	// (rebuildable, speed-profiled).
	eventsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "events.db"),
		Profile: database.ProfileStandard,
		Name:    "events",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open events database")
	}
	defer eventsDB.Close()

	queueDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "queue.db"),
		Profile: database.ProfileQueue,
		Name:    "queue",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open queue database")
	}
	defer queueDB.Close()

	events := eventstore.NewRepository(eventsDB.Conn(), log)
	if err := events.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize events schema")
	}

	workQueue := queue.New(queueDB.Conn(), log)
	if err := workQueue.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize queue schema")
	}

	// The timeline source is optional: without a base URL the pipeline runs
	// store-only and accounts with no stored data get the default catalog.
	var source schedule.TimelineSource
	if cfg.TimelineAPIBaseURL != "" {
		source = timeline.NewClient(cfg.TimelineAPIBaseURL, cfg.TimelineAPIKey, events, log)
	} else {
		log.Warn().Msg("TIMELINE_API_BASE_URL not set, live timeline fetches disabled")
	}

	publisher := schedule.NewPublisher(cfg.SaveScheduleURL, log)
	service := schedule.NewService(events, source, publisher, log)

	srv := server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Service: service,
		Queue:   workQueue,
		Events:  events,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.New(workQueue, service, cfg.WorkerInterval, log)
	go w.Run(ctx)

	if cfg.RefreshCron != "" {
		c := cron.New()
		if _, err := c.AddJob(cfg.RefreshCron, worker.NewRefreshJob(events, workQueue, log)); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("Invalid REFRESH_CRON spec")
		}
		c.Start()
		defer c.Stop()
		log.Info().Str("spec", cfg.RefreshCron).Msg("Periodic refresh scheduled")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
