package worker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crowdfire/publishtimer/internal/schedule"
)

// AccountLister enumerates the accounts the event store holds data for.
type AccountLister interface {
	Accounts(ctx context.Context) ([]int64, error)
}

// Enqueuer appends an account id to the work queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, authUID string) (string, error)
}

// RefreshJob re-enqueues every known account for a schedule recompute.
// It satisfies cron.Job and is typically scheduled via REFRESH_CRON.
type RefreshJob struct {
	store AccountLister
	queue Enqueuer
	log   zerolog.Logger
}

// NewRefreshJob creates the periodic refresh job.
func NewRefreshJob(store AccountLister, queue Enqueuer, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		store: store,
		queue: queue,
		log:   log.With().Str("job", "refresh").Logger(),
	}
}

// Run enqueues all accounts known to the event store. Individual enqueue
// failures are logged and skipped so one bad row cannot starve the rest.
func (j *RefreshJob) Run() {
	ctx := context.Background()

	accounts, err := j.store.Accounts(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to list accounts for refresh")
		return
	}

	enqueued := 0
	for _, id := range accounts {
		if _, err := j.queue.Enqueue(ctx, schedule.WithSuffix(id)); err != nil {
			j.log.Error().Err(err).Int64("accountId", id).Msg("Failed to enqueue account for refresh")
			continue
		}
		enqueued++
	}

	j.log.Info().Int("accounts", len(accounts)).Int("enqueued", enqueued).Msg("Refresh pass complete")
}
