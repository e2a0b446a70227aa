// Package worker owns the background task loop: it consumes one account id
// per iteration from the work queue, runs the scheduling pipeline for it,
// and sleeps a configured interval between iterations. The loop stops when
// its context is cancelled.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/crowdfire/publishtimer/internal/queue"
	"github.com/crowdfire/publishtimer/internal/schedule"
)

// Pipeline is the subset of the schedule service the worker drives.
type Pipeline interface {
	Run(ctx context.Context, p schedule.Params) (*schedule.RunResult, error)
}

// Worker is the queue-consuming task loop.
type Worker struct {
	queue    *queue.Queue
	pipeline Pipeline
	interval time.Duration
	log      zerolog.Logger
}

// New creates a worker. interval is the sleep between iterations.
func New(q *queue.Queue, pipeline Pipeline, interval time.Duration, log zerolog.Logger) *Worker {
	return &Worker{
		queue:    q,
		pipeline: pipeline,
		interval: interval,
		log:      log.With().Str("component", "worker").Logger(),
	}
}

// Run blocks until ctx is cancelled, processing one queued account per
// iteration. A failed run is logged and dropped; the account can be
// re-enqueued by the caller or the periodic refresh.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")
	for {
		w.processOne(ctx)
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-time.After(w.interval):
		}
	}
}

func (w *Worker) processOne(ctx context.Context) {
	authUID, ok, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to dequeue work item")
		return
	}
	if !ok {
		return
	}

	_, err = w.pipeline.Run(ctx, schedule.DefaultParams(authUID))
	if err != nil {
		var writeFailed *schedule.WriteScheduleFailedError
		if errors.As(err, &writeFailed) {
			// The schedule was computed; only the upstream write failed.
			w.log.Error().
				Str("authUid", authUID).
				Int("upstreamStatus", writeFailed.StatusCode).
				Str("upstreamReason", writeFailed.Reason).
				Msg("Computed schedule could not be written")
			return
		}
		w.log.Error().Err(err).Str("authUid", authUID).Msg("Pipeline run failed")
		return
	}

	w.log.Info().Str("authUid", authUID).Msg("Work item processed")
}
