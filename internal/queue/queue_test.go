package queue

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	q := New(db, zerolog.Nop())
	require.NoError(t, q.InitSchema())
	return q
}

func TestQueue_FIFO(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, "1-tw")
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	_, err = q.Enqueue(ctx, "2-tw")
	require.NoError(t, err)

	authUID, ok, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1-tw", authUID)

	authUID, ok, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2-tw", authUID)
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := newTestQueue(t)

	authUID, ok, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, authUID)
}

func TestQueue_Depth(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth)

	_, err = q.Enqueue(ctx, "1-tw")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "1-tw")
	require.NoError(t, err)

	depth, err = q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), depth)

	_, _, err = q.Dequeue(ctx)
	require.NoError(t, err)

	depth, err = q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth)
}
