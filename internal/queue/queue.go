// Package queue implements the sqlite-backed work queue that feeds the
// background worker with account ids awaiting a schedule recompute.
package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Queue is a FIFO work queue of account ids.
type Queue struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates a queue backed by the given database.
func New(db *sql.DB, log zerolog.Logger) *Queue {
	return &Queue{
		db:  db,
		log: log.With().Str("component", "queue").Logger(),
	}
}

// InitSchema creates the work_queue table if it does not exist.
func (q *Queue) InitSchema() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS work_queue (
			message_id  TEXT    PRIMARY KEY,
			auth_uid    TEXT    NOT NULL,
			enqueued_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_work_queue_enqueued_at ON work_queue(enqueued_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create work_queue schema: %w", err)
	}
	return nil
}

// Enqueue appends an account id to the queue and returns the message id.
func (q *Queue) Enqueue(ctx context.Context, authUID string) (string, error) {
	messageID := uuid.NewString()
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO work_queue (message_id, auth_uid, enqueued_at) VALUES (?, ?, ?)
	`, messageID, authUID, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", authUID, err)
	}
	q.log.Debug().Str("messageId", messageID).Str("authUid", authUID).Msg("Enqueued")
	return messageID, nil
}

// Dequeue removes and returns the oldest queued account id.
// The second return value is false when the queue is empty.
func (q *Queue) Dequeue(ctx context.Context) (string, bool, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to begin dequeue transaction: %w", err)
	}
	defer tx.Rollback()

	var messageID, authUID string
	err = tx.QueryRowContext(ctx, `
		SELECT message_id, auth_uid FROM work_queue
		ORDER BY enqueued_at, rowid
		LIMIT 1
	`).Scan(&messageID, &authUID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read queue head: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM work_queue WHERE message_id = ?`, messageID); err != nil {
		return "", false, fmt.Errorf("failed to delete queue message %s: %w", messageID, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit dequeue: %w", err)
	}

	return authUID, true, nil
}

// Depth returns the number of queued items, for the status endpoint.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	var depth int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_queue`).Scan(&depth); err != nil {
		return 0, fmt.Errorf("failed to read queue depth: %w", err)
	}
	return depth, nil
}
