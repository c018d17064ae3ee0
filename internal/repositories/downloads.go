package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// Download records a wallpaper saved to disk.
type Download struct {
	ItemID       string
	Path         string
	Size         int64
	DownloadedAt time.Time
}

// DownloadRepository tracks downloaded wallpapers in the downloads table.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Record inserts or replaces the download of itemID.
func (r *DownloadRepository) Record(ctx context.Context, itemID, path string, size int64) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id", shared.ErrMissingArgument)
	}

	query := `
		INSERT INTO downloads (item_id, path, size, downloaded_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET path = excluded.path, size = excluded.size, downloaded_at = excluded.downloaded_at
	`
	if _, err := r.db.ExecContext(ctx, query, itemID, path, size, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// Get returns the download of itemID, or [shared.ErrCacheMiss].
func (r *DownloadRepository) Get(ctx context.Context, itemID string) (*Download, error) {
	row := r.db.QueryRowContext(ctx, "SELECT item_id, path, size, downloaded_at FROM downloads WHERE item_id = ?", itemID)

	var d Download
	if err := row.Scan(&d.ItemID, &d.Path, &d.Size, &d.DownloadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get download: %w", err)
	}
	return &d, nil
}

// Exists reports whether itemID has been downloaded.
func (r *DownloadRepository) Exists(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM downloads WHERE item_id = ?)", itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check download: %w", err)
	}
	return exists, nil
}

// List returns downloads, most recent first.
func (r *DownloadRepository) List(ctx context.Context, limit int) ([]Download, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, "SELECT item_id, path, size, downloaded_at FROM downloads ORDER BY downloaded_at DESC, item_id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.ItemID, &d.Path, &d.Size, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}

// Delete forgets the download of itemID.
func (r *DownloadRepository) Delete(ctx context.Context, itemID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM downloads WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	return nil
}
