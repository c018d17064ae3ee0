package stores

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/repositories"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStorage fails every operation.
type failingStorage struct{}

func (failingStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}
func (failingStorage) Set(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingStorage) Delete(context.Context, string) error      { return errors.New("read only") }

// countingLoader returns config and counts its invocations.
func countingLoader(config models.SiteConfig, calls *atomic.Int32) Loader {
	return func(context.Context) (models.SiteConfig, error) {
		calls.Add(1)
		return config, nil
	}
}

func newTestStore(t *testing.T) (*SiteConfigStore, *repositories.MemoryStore, *fakeClock) {
	t.Helper()
	storage := repositories.NewMemoryStore()
	clock := &fakeClock{now: time.Date(2025, 11, 7, 12, 0, 0, 0, time.UTC)}
	store := NewSiteConfigStore(SiteConfigOptions{Storage: storage, Now: clock.Now})
	return store, storage, clock
}

func seedCache(t *testing.T, storage Storage, config models.SiteConfig, at time.Time) {
	t.Helper()
	data, err := json.Marshal(models.NewCachedData(config, at))
	if err != nil {
		t.Fatalf("failed to marshal cache: %v", err)
	}
	if err := storage.Set(context.Background(), SiteConfigKey, data); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}
}

func TestSiteConfigStore(t *testing.T) {
	ctx := context.Background()
	remote := models.SiteConfig{models.KeyAppName: "Remote", models.KeySiteURL: "https://example.com/"}

	t.Run("Fetch", func(t *testing.T) {
		t.Run("loads from loader and persists", func(t *testing.T) {
			store, storage, clock := newTestStore(t)
			var calls atomic.Int32

			config, err := store.Fetch(ctx, countingLoader(remote, &calls), false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if config.Get(models.KeyAppName) != "Remote" {
				t.Errorf("unexpected config %v", config)
			}
			if !store.Loaded() {
				t.Error("expected store to be loaded")
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 loader call, got %d", calls.Load())
			}

			data, err := storage.Get(ctx, SiteConfigKey)
			if err != nil {
				t.Fatalf("expected persisted snapshot, got %v", err)
			}
			var cached models.CachedData
			if err := json.Unmarshal(data, &cached); err != nil {
				t.Fatalf("invalid snapshot: %v", err)
			}
			if cached.Timestamp != clock.Now().UnixMilli() {
				t.Errorf("expected timestamp %d, got %d", clock.Now().UnixMilli(), cached.Timestamp)
			}
			if cached.Config.Get(models.KeyAppName) != "Remote" {
				t.Errorf("unexpected cached config %v", cached.Config)
			}
		})

		t.Run("loaded store answers from memory", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			var calls atomic.Int32
			loader := countingLoader(remote, &calls)

			store.Fetch(ctx, loader, false)
			store.Fetch(ctx, loader, false)
			if calls.Load() != 1 {
				t.Errorf("expected 1 loader call, got %d", calls.Load())
			}
		})

		t.Run("force bypasses memory and cache", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			var calls atomic.Int32
			loader := countingLoader(remote, &calls)

			store.Fetch(ctx, loader, false)
			if _, err := store.Fetch(ctx, loader, true); err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if calls.Load() != 2 {
				t.Errorf("expected 2 loader calls, got %d", calls.Load())
			}
		})

		t.Run("fresh snapshot skips loader", func(t *testing.T) {
			store, storage, clock := newTestStore(t)
			seedCache(t, storage, models.SiteConfig{models.KeyAppName: "Cached"}, clock.Now().Add(-23*time.Hour))
			var calls atomic.Int32

			config, err := store.Fetch(ctx, countingLoader(remote, &calls), false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if calls.Load() != 0 {
				t.Errorf("expected loader not to be called, got %d", calls.Load())
			}
			if config.Get(models.KeyAppName) != "Cached" || store.AppName() != "Cached" {
				t.Errorf("expected cached config, got %v", config)
			}
			if !store.Loaded() {
				t.Error("expected snapshot to mark store loaded")
			}
		})

		t.Run("expired snapshot is removed and refetched", func(t *testing.T) {
			store, storage, clock := newTestStore(t)
			seedCache(t, storage, models.SiteConfig{models.KeyAppName: "Stale"}, clock.Now().Add(-25*time.Hour))
			var calls atomic.Int32

			config, err := store.Fetch(ctx, countingLoader(remote, &calls), false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 loader call, got %d", calls.Load())
			}
			if config.Get(models.KeyAppName) != "Remote" {
				t.Errorf("expected remote config, got %v", config)
			}

			cached, err := store.Cached(ctx)
			if err != nil {
				t.Fatalf("Cached() error = %v", err)
			}
			if cached.Config.Get(models.KeyAppName) != "Remote" {
				t.Errorf("expected snapshot to be replaced, got %v", cached.Config)
			}
		})

		t.Run("expired snapshot with nil loader", func(t *testing.T) {
			store, storage, clock := newTestStore(t)
			seedCache(t, storage, models.SiteConfig{models.KeyAppName: "Stale"}, clock.Now().Add(-25*time.Hour))

			config, err := store.Fetch(ctx, nil, false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(config) != 0 {
				t.Errorf("expected empty config, got %v", config)
			}
			if store.Loaded() {
				t.Error("expected store to stay unloaded")
			}
			if storage.Len() != 0 {
				t.Error("expected expired snapshot to be removed")
			}
		})

		t.Run("corrupt snapshot is removed", func(t *testing.T) {
			store, storage, _ := newTestStore(t)
			storage.Set(ctx, SiteConfigKey, []byte("{not json"))
			var calls atomic.Int32

			if _, err := store.Fetch(ctx, countingLoader(remote, &calls), false); err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if calls.Load() != 1 {
				t.Errorf("expected loader to be called, got %d", calls.Load())
			}
			if _, err := store.Cached(ctx); err != nil {
				t.Errorf("expected snapshot to be rewritten, got %v", err)
			}
		})

		t.Run("snapshot without config is corrupt", func(t *testing.T) {
			store, storage, _ := newTestStore(t)
			storage.Set(ctx, SiteConfigKey, []byte(`{"timestamp":1}`))

			if _, err := store.Cached(ctx); !errors.Is(err, shared.ErrCacheCorrupt) {
				t.Errorf("expected ErrCacheCorrupt, got %v", err)
			}
		})

		t.Run("nil config leaves store unloaded", func(t *testing.T) {
			store, storage, _ := newTestStore(t)
			loader := func(context.Context) (models.SiteConfig, error) { return nil, nil }

			config, err := store.Fetch(ctx, loader, false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(config) != 0 || store.Loaded() {
				t.Errorf("expected empty, unloaded store; got %v loaded=%v", config, store.Loaded())
			}
			if storage.Len() != 0 {
				t.Error("expected nothing to be persisted")
			}
		})

		t.Run("loader error propagates", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			wantErr := errors.New("boom")
			loader := func(context.Context) (models.SiteConfig, error) { return nil, wantErr }

			if _, err := store.Fetch(ctx, loader, false); !errors.Is(err, wantErr) {
				t.Errorf("expected loader error, got %v", err)
			}
			if store.Loading() {
				t.Error("expected loading to be cleared after failure")
			}
			if store.Loaded() {
				t.Error("expected store to stay unloaded")
			}
		})

		t.Run("persist failure is absorbed", func(t *testing.T) {
			store := NewSiteConfigStore(SiteConfigOptions{Storage: failingStorage{}})
			var calls atomic.Int32

			config, err := store.Fetch(ctx, countingLoader(remote, &calls), false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if config.Get(models.KeyAppName) != "Remote" || !store.Loaded() {
				t.Errorf("expected load to succeed despite storage failure")
			}
		})

		t.Run("returned config is a copy", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			var calls atomic.Int32

			config, _ := store.Fetch(ctx, countingLoader(remote, &calls), false)
			config[models.KeyAppName] = "mutated"

			if store.AppName() != "Remote" {
				t.Errorf("expected store to be unaffected, got %s", store.AppName())
			}
			if remote[models.KeyAppName] != "Remote" {
				t.Error("expected loader result to be unaffected")
			}
		})
	})

	t.Run("single flight", func(t *testing.T) {
		t.Run("concurrent fetches share one load", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			var calls atomic.Int32
			started := make(chan struct{})
			release := make(chan struct{})

			loader := func(context.Context) (models.SiteConfig, error) {
				if calls.Add(1) == 1 {
					close(started)
				}
				<-release
				return remote, nil
			}

			const callers = 8
			results := make([]models.SiteConfig, callers)
			errs := make([]error, callers)
			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				results[0], errs[0] = store.Fetch(ctx, loader, false)
			}()
			<-started

			if !store.Loading() {
				t.Error("expected loading while the loader runs")
			}

			for i := 1; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], errs[i] = store.Fetch(ctx, loader, false)
				}(i)
			}

			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			if calls.Load() != 1 {
				t.Errorf("expected exactly 1 loader call, got %d", calls.Load())
			}
			for i := range callers {
				if errs[i] != nil {
					t.Errorf("caller %d: unexpected error %v", i, errs[i])
				}
				if results[i].Get(models.KeyAppName) != "Remote" {
					t.Errorf("caller %d: unexpected config %v", i, results[i])
				}
			}
			if store.Loading() {
				t.Error("expected loading to be cleared")
			}
		})

		t.Run("waiter cancellation does not cancel the load", func(t *testing.T) {
			store, _, _ := newTestStore(t)
			var calls atomic.Int32
			started := make(chan struct{})
			release := make(chan struct{})

			loader := func(loadCtx context.Context) (models.SiteConfig, error) {
				calls.Add(1)
				close(started)
				<-release
				if err := loadCtx.Err(); err != nil {
					return nil, err
				}
				return remote, nil
			}

			waitCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() {
				_, err := store.Fetch(waitCtx, loader, false)
				done <- err
			}()

			<-started
			cancel()
			if err := <-done; !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}

			close(release)
			config, err := store.Fetch(ctx, loader, false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if config.Get(models.KeyAppName) != "Remote" {
				t.Errorf("expected detached load to complete, got %v", config)
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 loader call, got %d", calls.Load())
			}
		})
	})

	t.Run("Update and Set", func(t *testing.T) {
		store, _, clock := newTestStore(t)
		store.Set(ctx, models.SiteConfig{models.KeyAppName: "A", models.KeySiteURL: "https://a.example"})

		clock.Advance(time.Hour)
		store.Update(ctx, models.SiteConfig{models.KeyAppName: "B"})

		config := store.Config()
		if config.Get(models.KeyAppName) != "B" || config.Get(models.KeySiteURL) != "https://a.example" {
			t.Errorf("unexpected merged config %v", config)
		}

		cached, err := store.Cached(ctx)
		if err != nil {
			t.Fatalf("Cached() error = %v", err)
		}
		if cached.Config.Get(models.KeyAppName) != "B" {
			t.Errorf("expected update to be persisted, got %v", cached.Config)
		}
		if cached.Timestamp != clock.Now().UnixMilli() {
			t.Errorf("expected fresh timestamp")
		}
		if store.Loaded() {
			t.Error("Set and Update should not mark the store loaded")
		}
	})

	t.Run("ClearCache", func(t *testing.T) {
		t.Run("keeps memory and forces refetch", func(t *testing.T) {
			store, storage, _ := newTestStore(t)
			var calls atomic.Int32
			loader := countingLoader(remote, &calls)

			store.Fetch(ctx, loader, false)
			if err := store.ClearCache(ctx); err != nil {
				t.Fatalf("ClearCache() error = %v", err)
			}

			if store.Loaded() {
				t.Error("expected store to be unloaded")
			}
			if store.AppName() != "Remote" {
				t.Error("expected in-memory config to be kept")
			}
			if storage.Len() != 0 {
				t.Error("expected snapshot to be removed")
			}

			store.Fetch(ctx, loader, false)
			if calls.Load() != 2 {
				t.Errorf("expected refetch after clear, got %d calls", calls.Load())
			}
		})

		t.Run("storage failure", func(t *testing.T) {
			store := NewSiteConfigStore(SiteConfigOptions{Storage: failingStorage{}})
			if err := store.ClearCache(ctx); err == nil {
				t.Error("expected error")
			}
		})
	})

	t.Run("Reset", func(t *testing.T) {
		store, storage, _ := newTestStore(t)
		var calls atomic.Int32
		store.Fetch(ctx, countingLoader(remote, &calls), false)

		store.Reset()
		if store.Loaded() || store.Loading() || len(store.Config()) != 0 {
			t.Error("expected empty, unloaded store")
		}
		if storage.Len() != 1 {
			t.Error("expected snapshot to survive reset")
		}
	})

	t.Run("getters", func(t *testing.T) {
		tc := []struct {
			name   string
			config models.SiteConfig
			get    func(*SiteConfigStore) string
			want   string
		}{
			{"AppName default", nil, (*SiteConfigStore).AppName, DefaultAppName},
			{"AppName set", models.SiteConfig{models.KeyAppName: "Gallery"}, (*SiteConfigStore).AppName, "Gallery"},
			{"Logo default", nil, (*SiteConfigStore).Logo, DefaultLogo},
			{"Logo set", models.SiteConfig{models.KeyLogoURL192: "/l.png"}, (*SiteConfigStore).Logo, "/l.png"},
			{"SiteURL strips slash", models.SiteConfig{models.KeySiteURL: "https://a.com/"}, (*SiteConfigStore).SiteURL, "https://a.com"},
			{"SiteURL without slash", models.SiteConfig{models.KeySiteURL: "https://a.com"}, (*SiteConfigStore).SiteURL, "https://a.com"},
			{"SiteURL unset", nil, (*SiteConfigStore).SiteURL, ""},
			{"APIURL adds slash", models.SiteConfig{models.KeyAPIURL: "https://a.com/api"}, (*SiteConfigStore).APIURL, "https://a.com/api/"},
			{"APIURL keeps slash", models.SiteConfig{models.KeyAPIURL: "https://a.com/api/"}, (*SiteConfigStore).APIURL, "https://a.com/api/"},
			{"APIURL unset", nil, (*SiteConfigStore).APIURL, ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store, _, _ := newTestStore(t)
				if tt.config != nil {
					store.Set(ctx, tt.config)
				}
				if got := tt.get(store); got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
			})
		}
	})
}
