// Package store persists the client-side half of the synchronization
// protocol: the opaque per-device timestamps the server tells us to
// replay, and the local copy of each device's subscription list.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

// Store keeps per-device sync state in SQLite
type Store struct {
	db *sql.DB
}

// Open creates a store backed by SQLite at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool size to 1 for in-memory databases to ensure consistency
	// For file-based databases, this still works well for our use case
	db.SetMaxOpenConns(1)

	// Configure SQLite for optimal performance and safety
	pragmas := []string{
		"PRAGMA foreign_keys = ON",    // Enforce foreign key constraints
		"PRAGMA busy_timeout = 10000", // Wait up to 10 seconds on lock
		"PRAGMA synchronous = NORMAL", // Balance between safety and performance
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging for concurrent access
		"PRAGMA temp_store = MEMORY",  // Use memory for temp tables
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	// Create the schema
	schema := `
		CREATE TABLE IF NOT EXISTS sync_state (
			device_id TEXT PRIMARY KEY,
			since INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE TABLE IF NOT EXISTS subscriptions (
			device_id TEXT NOT NULL,
			url TEXT NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
			PRIMARY KEY (device_id, url)
		);

		CREATE INDEX IF NOT EXISTS idx_subscriptions_device ON subscriptions(device_id);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Since returns the timestamp to replay on the next delta request for
// the device. Zero (full sync) if the device has never synced.
func (s *Store) Since(ctx context.Context, deviceID string) (gpodder.Timestamp, error) {
	var since int64
	err := s.db.QueryRowContext(ctx,
		`SELECT since FROM sync_state WHERE device_id = ?`, deviceID).Scan(&since)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query sync state: %w", err)
	}
	return gpodder.Timestamp(since), nil
}

// SetSince stores the server-issued timestamp for the device
func (s *Store) SetSince(ctx context.Context, deviceID string, since gpodder.Timestamp) error {
	query := `
		INSERT INTO sync_state (device_id, since, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(device_id) DO UPDATE SET
			since = excluded.since,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, deviceID, int64(since)); err != nil {
		return fmt.Errorf("failed to store sync state: %w", err)
	}
	return nil
}

// Subscriptions returns the local subscription list of the device,
// ordered by URL
func (s *Store) Subscriptions(ctx context.Context, deviceID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM subscriptions WHERE device_id = ? ORDER BY url`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return urls, nil
}

// Replace overwrites the local subscription list of the device
func (s *Store) Replace(ctx context.Context, deviceID string, urls []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE device_id = ?`, deviceID); err != nil {
		return fmt.Errorf("failed to clear subscriptions: %w", err)
	}
	for _, url := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO subscriptions (device_id, url) VALUES (?, ?)`,
			deviceID, url); err != nil {
			return fmt.Errorf("failed to insert subscription: %w", err)
		}
	}

	return tx.Commit()
}

// Apply applies a subscription delta to the local list
func (s *Store) Apply(ctx context.Context, deviceID string, add, remove []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, url := range remove {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM subscriptions WHERE device_id = ? AND url = ?`,
			deviceID, url); err != nil {
			return fmt.Errorf("failed to remove subscription: %w", err)
		}
	}
	for _, url := range add {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO subscriptions (device_id, url) VALUES (?, ?)`,
			deviceID, url); err != nil {
			return fmt.Errorf("failed to add subscription: %w", err)
		}
	}

	return tx.Commit()
}

// Rewrite replaces a feed URL with the sanitized form the server
// reported in update_urls
func (s *Store) Rewrite(ctx context.Context, deviceID, oldURL, newURL string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete first so the rewrite cannot collide with an existing row
	// when the sanitized URL was already subscribed.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE device_id = ? AND url = ?`,
		deviceID, oldURL); err != nil {
		return fmt.Errorf("failed to drop rewritten subscription: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (device_id, url) VALUES (?, ?)`,
		deviceID, newURL); err != nil {
		return fmt.Errorf("failed to store rewritten subscription: %w", err)
	}

	return tx.Commit()
}
