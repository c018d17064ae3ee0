package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// KeyValueStore persists opaque values by key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var (
	_ KeyValueStore = (*KVRepository)(nil)
	_ KeyValueStore = (*RedisStore)(nil)
	_ KeyValueStore = (*MemoryStore)(nil)
)

// Open creates the [KeyValueStore] selected by cfg.Driver.
//
// The sqlite driver opens (and migrates) the database at cfg.Path; the returned store owns it.
func Open(ctx context.Context, cfg shared.CacheConfig) (KeyValueStore, error) {
	switch cfg.Driver {
	case "sqlite", "":
		db, err := shared.OpenMigrated(cfg.Path)
		if err != nil {
			return nil, err
		}
		repo := NewKVRepository(db)
		repo.owned = true
		return repo, nil
	case "redis":
		return NewRedisStore(ctx, RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Prefix: cfg.KeyPrefix})
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}

// closeOwned closes db when the repository opened it itself.
func closeOwned(db *sql.DB, owned bool) error {
	if !owned {
		return nil
	}
	return db.Close()
}
