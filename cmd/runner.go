package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/repositories"
	"github.com/anzhiyu-c/anheyu-cli/internal/request"
	"github.com/anzhiyu-c/anheyu-cli/internal/routes"
	"github.com/anzhiyu-c/anheyu-cli/internal/services"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/anzhiyu-c/anheyu-cli/internal/stores"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	client      *request.Client
	gallery     services.Gallery
	site        *services.SiteService
	albums      *services.AlbumService
	storage     repositories.KeyValueStore
	db          *sql.DB
	siteStore   *stores.SiteConfigStore
	routes      *routes.Table
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Client      *request.Client            // built from Config.API when nil
	Gallery     services.Gallery           // wraps Client when nil
	Storage     repositories.KeyValueStore // opened from Config.Cache on first use when nil
	DB          *sql.DB                    // opened from Config.Cache.Path on first use when nil
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Client == nil {
		opts.Client = request.New(request.Options{
			BaseURL:   opts.Config.API.BaseURL,
			Token:     opts.Config.API.Token,
			Timeout:   opts.Config.API.TimeoutDuration(),
			RateLimit: opts.Config.API.RateLimit,
			Logger:    shared.WithLogger(opts.Logger, "component", "request"),
		})
	}
	if opts.Gallery == nil {
		opts.Gallery = services.NewGalleryService(opts.Client)
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		client:      opts.Client,
		gallery:     opts.Gallery,
		site:        services.NewSiteService(opts.Client),
		albums:      services.NewAlbumService(opts.Client),
		storage:     opts.Storage,
		db:          opts.DB,
		routes:      routes.Default(),
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, siteCommand, galleryCommand, albumCommand, apiCommand,
		downloadsCommand, openCommand, iconsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// kvStore returns the persisted key/value store, opening it from config on first use.
func (r *Runner) kvStore(ctx context.Context) (repositories.KeyValueStore, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	kv, err := repositories.Open(ctx, r.config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", r.config.Cache.Driver, err)
	}
	r.storage = kv
	return kv, nil
}

// siteConfigStore returns the site configuration store backed by the persisted cache.
func (r *Runner) siteConfigStore(ctx context.Context) (*stores.SiteConfigStore, error) {
	if r.siteStore != nil {
		return r.siteStore, nil
	}

	kv, err := r.kvStore(ctx)
	if err != nil {
		return nil, err
	}
	r.siteStore = stores.NewSiteConfigStore(stores.SiteConfigOptions{Storage: kv, Logger: r.logger})
	return r.siteStore, nil
}

// downloadRepository returns the download history, opening the SQLite database on first use.
func (r *Runner) downloadRepository() (*repositories.DownloadRepository, error) {
	if r.db == nil {
		db, err := shared.OpenMigrated(r.config.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open download history: %w", err)
		}
		r.db = db
	}
	return repositories.NewDownloadRepository(r.db), nil
}

// engine builds a task engine; download history is recorded when the database is available.
func (r *Runner) engine() *tasks.Engine {
	opts := tasks.EngineOpts{
		Client:     r.client,
		Stats:      r.gallery,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	}
	if repo, err := r.downloadRepository(); err != nil {
		r.logger.Warn("download history disabled", "error", err)
	} else {
		opts.Recorder = repo
	}
	return tasks.NewEngine(opts)
}

// Close releases the cache and database handles opened by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.storage != nil {
		errs = append(errs, r.storage.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	return errors.Join(errs...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
