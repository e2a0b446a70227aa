// Package eventstore persists raw engagement events so recomputations do not
// have to hit the live timeline API. It is the record-store collaborator of
// the scheduling pipeline.
package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/crowdfire/publishtimer/internal/schedule"
)

// Repository provides event persistence backed by sqlite.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new event repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "eventstore").Logger(),
	}
}

// InitSchema creates the events table if it does not exist.
func (r *Repository) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			auth_uid       INTEGER NOT NULL,
			id             INTEGER NOT NULL,
			created_at     TEXT    NOT NULL,
			favorite_count INTEGER NOT NULL DEFAULT 0,
			retweet_count  INTEGER NOT NULL DEFAULT 0,
			saved_at       INTEGER NOT NULL,
			PRIMARY KEY (auth_uid, id)
		);
		CREATE INDEX IF NOT EXISTS idx_events_auth_uid ON events(auth_uid);
	`)
	if err != nil {
		return fmt.Errorf("failed to create events schema: %w", err)
	}
	return nil
}

// Query returns all stored events for an account, newest first, matching the
// order the timeline API delivers them in.
func (r *Repository) Query(ctx context.Context, accountID int64) ([]schedule.RawEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, favorite_count, retweet_count
		FROM events
		WHERE auth_uid = ?
		ORDER BY id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var events []schedule.RawEvent
	for rows.Next() {
		var ev schedule.RawEvent
		if err := rows.Scan(&ev.ID, &ev.CreatedAt, &ev.FavoriteCount, &ev.RetweetCount); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return events, nil
}

// Persist upserts a batch of events for an account in one transaction.
// Re-persisting an event refreshes its counts and saved_at timestamp.
func (r *Repository) Persist(ctx context.Context, accountID int64, events []schedule.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin persist transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO events (auth_uid, id, created_at, favorite_count, retweet_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare persist statement: %w", err)
	}
	defer stmt.Close()

	savedAt := time.Now().Unix()
	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, accountID, ev.ID, ev.CreatedAt, ev.FavoriteCount, ev.RetweetCount, savedAt); err != nil {
			return fmt.Errorf("failed to persist event %d for account %d: %w", ev.ID, accountID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit persisted events: %w", err)
	}

	r.log.Debug().Int64("accountId", accountID).Int("events", len(events)).Msg("Events persisted")
	return nil
}

// Accounts returns every account id the store holds events for.
// Used by the periodic refresh job to re-enqueue known accounts.
func (r *Repository) Accounts(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT auth_uid FROM events ORDER BY auth_uid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		accounts = append(accounts, id)
	}
	return accounts, rows.Err()
}

// Count returns the total number of stored events, for the status endpoint.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
