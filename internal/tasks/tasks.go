package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/charmbracelet/log"
)

// APIClient is the subset of request.Client used by the engine.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, result any) error
	Download(ctx context.Context, path string, query url.Values, w io.Writer) (int64, error)
}

// StatUpdater reports wallpaper statistics (services.Gallery).
type StatUpdater interface {
	UpdateStat(ctx context.Context, id string, statType models.StatType) error
}

// DownloadRecorder persists download history (repositories.DownloadRepository).
type DownloadRecorder interface {
	Record(ctx context.Context, itemID, path string, size int64) error
	Exists(ctx context.Context, itemID string) (bool, error)
}

// EngineOpts wires the engine's collaborators. Only Client is required.
type EngineOpts struct {
	Client     APIClient
	Stats      StatUpdater
	Recorder   DownloadRecorder
	HTTPClient *http.Client // fetches absolute wallpaper URLs; defaults to http.DefaultClient
	Logger     *log.Logger
}

// Engine runs bulk downloads and backend dumps.
type Engine struct {
	api      APIClient
	stats    StatUpdater
	recorder DownloadRecorder
	http     *http.Client
	logger   *log.Logger
}

// NewEngine creates an [Engine] from opts.
func NewEngine(opts EngineOpts) *Engine {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Engine{
		api:      opts.Client,
		stats:    opts.Stats,
		recorder: opts.Recorder,
		http:     opts.HTTPClient,
		logger:   shared.WithLogger(opts.Logger, "component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// EndpointResult represents a failed fetch of a single endpoint.
type EndpointResult struct {
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

// DumpResult contains the raw data fetched from each endpoint.
type DumpResult struct {
	SiteConfig json.RawMessage  `json:"site_config,omitempty"`
	Categories json.RawMessage  `json:"categories,omitempty"`
	Wallpapers json.RawMessage  `json:"wallpapers,omitempty"`
	Albums     json.RawMessage  `json:"albums,omitempty"`
	Errors     []EndpointResult `json:"errors,omitempty"`
}

type endpointOperation struct {
	name    string
	path    string
	query   url.Values
	target  *json.RawMessage
	phase   Phase
	message string
}

// Dump fetches every snapshot endpoint. Endpoint failures are collected in
// [DumpResult.Errors]; only a cancelled context aborts the dump.
func (e *Engine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{Errors: []EndpointResult{}}

	endpoints := []endpointOperation{
		{name: "site_config", path: "/public/site-config", target: &result.SiteConfig, phase: FetchSiteConfig, message: "Fetching site configuration..."},
		{name: "categories", path: "/public/album-categories", target: &result.Categories, phase: FetchCategories, message: "Fetching categories..."},
		{
			name:    "wallpapers",
			path:    "/public/albums",
			query:   models.GalleryParams{Page: 1, PageSize: 20, Sort: models.SortDisplayOrderAsc}.Values(),
			target:  &result.Wallpapers,
			phase:   FetchWallpapers,
			message: "Fetching wallpapers...",
		},
		{
			name:    "albums",
			path:    "/api/albums",
			query:   models.PageParams{Page: 1, PageSize: 20}.Values(),
			target:  &result.Albums,
			phase:   FetchAlbums,
			message: "Fetching albums...",
		},
	}

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, len(endpoints)))

		var data json.RawMessage
		if err := e.api.Get(ctx, endpoint.path, endpoint.query, &data); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			e.logger.Warn("endpoint failed", "endpoint", endpoint.name, "error", err)
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err.Error()})
			continue
		}
		*endpoint.target = data
	}

	return result, nil
}
