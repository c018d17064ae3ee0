// Package repositories implements persistence for client-side state.
//
// Key/value backends share the [KeyValueStore] contract: Get returns
// [shared.ErrCacheMiss] for absent keys, Set overwrites (last writer wins) and
// Delete of an absent key is not an error.
//
// Key Implementations:
//   - [KVRepository] : SQLite table kv_store, the default backend
//   - [RedisStore] : Redis strings under a configurable key prefix, for caches shared between machines
//   - [MemoryStore] : process-local map, used by tests and when persistence is disabled
//   - [DownloadRepository] : SQLite table downloads, recording wallpapers saved by the download task
//
// [Open] selects a backend from [shared.CacheConfig].
package repositories
