package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// KVRepository stores values in the SQLite kv_store table.
type KVRepository struct {
	db    *sql.DB
	owned bool
}

// NewKVRepository creates a new KVRepository with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key, or [shared.ErrCacheMiss].
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in order.
func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key FROM kv_store ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the database when the repository was created by [Open].
func (r *KVRepository) Close() error {
	return closeOwned(r.db, r.owned)
}
