package worker

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/crowdfire/publishtimer/internal/queue"
	"github.com/crowdfire/publishtimer/internal/schedule"
)

type fakePipeline struct {
	runs chan schedule.Params
	err  error
}

func (f *fakePipeline) Run(ctx context.Context, p schedule.Params) (*schedule.RunResult, error) {
	f.runs <- p
	if f.err != nil {
		return nil, f.err
	}
	return &schedule.RunResult{}, nil
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	q := queue.New(db, zerolog.Nop())
	require.NoError(t, q.InitSchema())
	return q
}

func TestWorker_ProcessesQueuedAccount(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := q.Enqueue(ctx, "19900726-tw")
	require.NoError(t, err)

	pipeline := &fakePipeline{runs: make(chan schedule.Params, 1)}
	w := New(q, pipeline, time.Millisecond, zerolog.Nop())
	go w.Run(ctx)

	select {
	case p := <-pipeline.runs:
		assert.Equal(t, "19900726-tw", p.AuthUID)
		assert.True(t, p.UseStore)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not process the queued account")
	}

	cancel()

	depth, err := q.Depth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth, "processed item must be removed from the queue")
}

func TestWorker_SurvivesPipelineFailure(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := q.Enqueue(ctx, "1-tw")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "2-tw")
	require.NoError(t, err)

	pipeline := &fakePipeline{
		runs: make(chan schedule.Params, 2),
		err: &schedule.WriteScheduleFailedError{
			StatusCode: 503,
			Reason:     "503 Service Unavailable",
		},
	}
	w := New(q, pipeline, time.Millisecond, zerolog.Nop())
	go w.Run(ctx)

	// Both items must be attempted despite the first one failing.
	for _, want := range []string{"1-tw", "2-tw"} {
		select {
		case p := <-pipeline.runs:
			assert.Equal(t, want, p.AuthUID)
		case <-time.After(2 * time.Second):
			t.Fatalf("worker did not reach account %s", want)
		}
	}
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())

	pipeline := &fakePipeline{runs: make(chan schedule.Params, 1)}
	w := New(q, pipeline, time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
