package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/repositories"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

const (
	// SiteConfigKey names the persisted snapshot.
	SiteConfigKey = "anheyu-site-config"
	// SiteConfigTTL is the maximum age of a usable snapshot.
	SiteConfigTTL = 24 * time.Hour

	DefaultAppName = "安和鱼"
	DefaultLogo    = "/logo.svg"

	flightKey = "site-config"
)

// Storage persists opaque values by key. Get returns [shared.ErrCacheMiss] for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Loader fetches the site configuration from its source.
// A nil config with a nil error means the source had nothing to offer.
type Loader func(ctx context.Context) (models.SiteConfig, error)

// SiteConfigOptions configures a [SiteConfigStore]. Zero values select defaults.
type SiteConfigOptions struct {
	Storage Storage
	Logger  *log.Logger
	Now     func() time.Time
	TTL     time.Duration
	Key     string
}

// SiteConfigStore caches the site configuration in memory and in [Storage].
type SiteConfigStore struct {
	mu      sync.RWMutex
	config  models.SiteConfig
	loaded  bool
	loading bool

	group   singleflight.Group
	storage Storage
	logger  *log.Logger
	now     func() time.Time
	ttl     time.Duration
	key     string
}

// NewSiteConfigStore creates an empty, not-yet-loaded store.
func NewSiteConfigStore(opts SiteConfigOptions) *SiteConfigStore {
	s := &SiteConfigStore{
		config:  models.SiteConfig{},
		storage: opts.Storage,
		now:     opts.Now,
		ttl:     opts.TTL,
		key:     opts.Key,
	}

	if s.storage == nil {
		s.storage = repositories.NewMemoryStore()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ttl <= 0 {
		s.ttl = SiteConfigTTL
	}
	if s.key == "" {
		s.key = SiteConfigKey
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	s.logger = shared.WithLogger(logger, "store", "site-config")

	return s
}

// Fetch returns the site configuration, loading it if needed.
//
// A loaded store answers from memory unless force is set. Otherwise the call
// joins the in-flight load or starts one: unforced loads try the persisted
// snapshot first, then call loader and persist its result. A nil loader
// returns the current configuration once the snapshot has been consulted.
//
// The load itself is not cancelled with ctx; ctx only bounds how long this
// caller waits for it.
func (s *SiteConfigStore) Fetch(ctx context.Context, loader Loader, force bool) (models.SiteConfig, error) {
	s.mu.RLock()
	if s.loaded && !force {
		config := s.config.Clone()
		s.mu.RUnlock()
		return config, nil
	}
	s.mu.RUnlock()

	ch := s.group.DoChan(flightKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx), loader, force)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(models.SiteConfig).Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SiteConfigStore) load(ctx context.Context, loader Loader, force bool) (models.SiteConfig, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if !force {
		if config, ok := s.readCache(ctx); ok {
			s.mu.Lock()
			s.config = config
			s.loaded = true
			s.mu.Unlock()
			return config, nil
		}
	}

	if loader == nil {
		return s.Config(), nil
	}

	s.logger.Debug("fetching site config from server", "force", force)
	config, err := loader(ctx)
	if err != nil {
		s.logger.Error("failed to fetch site config", "error", err)
		return nil, err
	}
	if config == nil {
		s.logger.Warn("server returned no site config")
		return s.Config(), nil
	}

	config = config.Clone()
	s.mu.Lock()
	s.config = config
	s.loaded = true
	s.mu.Unlock()

	s.persist(ctx, config)
	s.logger.Info("site config updated", "keys", len(config))
	return config, nil
}

// readCache returns the persisted snapshot when it is present and fresh.
// Expired and unreadable snapshots are removed.
func (s *SiteConfigStore) readCache(ctx context.Context) (models.SiteConfig, bool) {
	cached, err := s.Cached(ctx)
	switch {
	case errors.Is(err, shared.ErrCacheMiss):
		s.logger.Debug("no cached site config")
		return nil, false
	case errors.Is(err, shared.ErrCacheCorrupt):
		s.logger.Warn("discarding unreadable site config cache", "error", err)
		s.removeCache(ctx)
		return nil, false
	case err != nil:
		s.logger.Warn("failed to read site config cache", "error", err)
		return nil, false
	}

	now := s.now()
	if !cached.Fresh(now, s.ttl) {
		s.logger.Info("site config cache expired", "age", cached.Age(now).Round(time.Minute))
		s.removeCache(ctx)
		return nil, false
	}

	s.logger.Debug("using cached site config", "age", cached.Age(now).Round(time.Minute))
	return cached.Config, true
}

// Cached reads the persisted snapshot without checking its age.
func (s *SiteConfigStore) Cached(ctx context.Context) (*models.CachedData, error) {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	var cached models.CachedData
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheCorrupt, err)
	}
	if cached.Config == nil {
		return nil, shared.ErrCacheCorrupt
	}
	return &cached, nil
}

// persist writes config with the current time. Failures are logged, not returned.
func (s *SiteConfigStore) persist(ctx context.Context, config models.SiteConfig) {
	data, err := json.Marshal(models.NewCachedData(config, s.now()))
	if err == nil {
		err = s.storage.Set(ctx, s.key, data)
	}
	if err != nil {
		s.logger.Error("failed to save site config cache", "error", err)
	}
}

func (s *SiteConfigStore) removeCache(ctx context.Context) {
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Warn("failed to remove site config cache", "error", err)
	}
}

func (s *SiteConfigStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Update merges partial into the configuration and persists the result.
func (s *SiteConfigStore) Update(ctx context.Context, partial models.SiteConfig) {
	s.mu.Lock()
	s.config = s.config.Merge(partial)
	config := s.config.Clone()
	s.mu.Unlock()

	s.persist(ctx, config)
}

// Set replaces the configuration and persists it.
func (s *SiteConfigStore) Set(ctx context.Context, config models.SiteConfig) {
	config = config.Clone()
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	s.persist(ctx, config)
}

// ClearCache removes the persisted snapshot and marks the store not loaded.
// The in-memory configuration is kept until the next load replaces it.
func (s *SiteConfigStore) ClearCache(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to clear site config cache", "error", err)
		return err
	}

	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	return nil
}

// Reset drops all in-memory state. The persisted snapshot is untouched.
func (s *SiteConfigStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = models.SiteConfig{}
	s.loaded = false
	s.loading = false
}

// Config returns a copy of the current configuration.
func (s *SiteConfigStore) Config() models.SiteConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// Loaded reports whether a load or snapshot has populated the store.
func (s *SiteConfigStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Loading reports whether a load is in flight.
func (s *SiteConfigStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SiteConfigStore) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Get(key)
}

// AppName returns APP_NAME, or [DefaultAppName].
func (s *SiteConfigStore) AppName() string {
	if name := s.get(models.KeyAppName); name != "" {
		return name
	}
	return DefaultAppName
}

// Logo returns LOGO_URL_192x192, or [DefaultLogo].
func (s *SiteConfigStore) Logo() string {
	if logo := s.get(models.KeyLogoURL192); logo != "" {
		return logo
	}
	return DefaultLogo
}

// SiteURL returns SITE_URL without its trailing slash.
func (s *SiteConfigStore) SiteURL() string {
	return strings.TrimSuffix(s.get(models.KeySiteURL), "/")
}

// APIURL returns API_URL with a trailing slash. An unset URL stays empty.
func (s *SiteConfigStore) APIURL() string {
	u := s.get(models.KeyAPIURL)
	if u != "" && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
