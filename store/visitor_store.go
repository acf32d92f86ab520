package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// VisitorStore keeps the unique-visitor aggregate: one Postgres row per
// session id, carrying first and last visit times.
type VisitorStore struct {
	db *sql.DB
}

func NewVisitorStore(db *sql.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

// Init creates the visitors table if it does not exist yet.
func (s *VisitorStore) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS visitors (
			session_id  TEXT PRIMARY KEY,
			first_visit TIMESTAMPTZ NOT NULL,
			last_visit  TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create visitors table: %w", err)
	}
	return nil
}

// Touch records a visit for the given session: inserts the row on first
// contact, otherwise bumps last_visit. GREATEST keeps last_visit from ever
// moving backwards when requests land out of order.
func (s *VisitorStore) Touch(ctx context.Context, sessionID string, now time.Time) error {
	query := `
		INSERT INTO visitors (session_id, first_visit, last_visit)
		VALUES ($1, $2, $2)
		ON CONFLICT (session_id)
		DO UPDATE SET last_visit = GREATEST(visitors.last_visit, EXCLUDED.last_visit);
	`
	if _, err := s.db.ExecContext(ctx, query, sessionID, now); err != nil {
		return fmt.Errorf("failed to touch session %q: %w", sessionID, err)
	}
	return nil
}

// CountUnique returns the all-time unique visitor count.
func (s *VisitorStore) CountUnique(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM visitors;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique visitors: %w", err)
	}
	return count, nil
}

// CountUniqueSince counts visitors whose last visit falls on or after the
// given instant.
func (s *VisitorStore) CountUniqueSince(ctx context.Context, since time.Time) (uint64, error) {
	var count uint64
	query := `SELECT count(*) FROM visitors WHERE last_visit >= $1;`
	err := s.db.QueryRowContext(ctx, query, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique visitors since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}
