// Package sqlite persists user profiles and generation history.
// The availability cache lives in redis; this store only carries the
// slow-moving rows.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ndelvaux/handleforge/internal/domain"
)

// Store wraps the sqlite database holding users and generation history.
type Store struct {
	db *sql.DB
}

// HistoryRecord is one completed resolution run, written once per run.
type HistoryRecord struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user_id"`
	Seed      domain.Seed `json:"seed"`
	Handles   []string    `json:"handles"`
	CreatedAt time.Time   `json:"created_at"`
}

// Open connects to the database at path and creates the schema idempotently.
// An unreachable store at startup is fatal for the process, so errors here
// propagate instead of degrading.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id      TEXT PRIMARY KEY,
			display_name TEXT,
			created_at   INTEGER NOT NULL,
			last_request INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS generation_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			seed       TEXT NOT NULL,
			handles    TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// TouchUser upserts a user row and bumps its last-request timestamp.
// Called on every interaction with the service.
func (s *Store) TouchUser(ctx context.Context, userID, displayName string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, display_name, created_at, last_request)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			last_request = excluded.last_request
	`, userID, displayName, now, now)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", userID, err)
	}
	return nil
}

// AppendHistory records one completed resolution run. Append-only.
func (s *Store) AppendHistory(ctx context.Context, userID string, seed domain.Seed, handles []string) error {
	seedJSON, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("marshal seed: %w", err)
	}
	handlesJSON, err := json.Marshal(handles)
	if err != nil {
		return fmt.Errorf("marshal handles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generation_history (user_id, seed, handles, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, string(seedJSON), string(handlesJSON), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append history for %s: %w", userID, err)
	}
	return nil
}

// History returns a user's past runs, newest first, capped at limit.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, seed, handles, created_at
		FROM generation_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]HistoryRecord, 0, limit)
	for rows.Next() {
		var (
			rec         HistoryRecord
			seedJSON    string
			handlesJSON string
			createdAt   int64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &seedJSON, &handlesJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(seedJSON), &rec.Seed); err != nil {
			return nil, fmt.Errorf("unmarshal seed: %w", err)
		}
		if err := json.Unmarshal([]byte(handlesJSON), &rec.Handles); err != nil {
			return nil, fmt.Errorf("unmarshal handles: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

// PruneHistory deletes history rows older than olderThan and returns how many
// went away. A zero or negative olderThan is a no-op.
func (s *Store) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM generation_history WHERE created_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history rows affected: %w", err)
	}
	return n, nil
}

// Ping reports whether the database is reachable (used by readiness).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
