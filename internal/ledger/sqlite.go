// Package ledger remembers which posts already have a verdict, across runs.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS classified (
	post_id       TEXT PRIMARY KEY,
	subreddit     TEXT NOT NULL,
	verdict       TEXT NOT NULL,
	run_id        TEXT NOT NULL,
	classified_at TIMESTAMP NOT NULL
)`

// SQLite is a ledger kept in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the ledger at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// One writer, sequential use.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Seen reports whether postID already has a recorded verdict.
func (l *SQLite) Seen(ctx context.Context, postID string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM classified WHERE post_id = ?`, postID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s: %w", postID, err)
	}
	return true, nil
}

// Record stores the verdict for r.PostID, replacing any earlier row.
func (l *SQLite) Record(ctx context.Context, r domain.ClassificationResult, runID string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO classified (post_id, subreddit, verdict, run_id, classified_at) VALUES (?, ?, ?, ?, ?)`,
		r.PostID, r.Subreddit, r.Verdict, runID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledger record %s: %w", r.PostID, err)
	}
	return nil
}

// Count returns the number of recorded posts.
func (l *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classified`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ledger count: %w", err)
	}
	return n, nil
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
