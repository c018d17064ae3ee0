package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/formatter"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
	ManifestFile     = "download_manifest.json"
)

// DownloadOpts contains configuration for bulk wallpaper downloads.
type DownloadOpts struct {
	Dir          string  // Output directory (default: wallpapers_{epoch})
	NumWorkers   int     // Concurrent workers (default: 4, max: 10)
	RateLimit    float64 // Downloads started per second (default: 5)
	SkipExisting bool    // Skip items already in the download history
}

// ItemResult is the outcome of downloading a single wallpaper.
type ItemResult struct {
	ItemID  string `json:"id"`
	Path    string `json:"path,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   error  `json:"-"`
	Message string `json:"error,omitempty"`
}

// DownloadResult summarizes a bulk download.
type DownloadResult struct {
	Total        int          `json:"total"`
	Succeeded    int          `json:"succeeded"`
	Skipped      int          `json:"skipped"`
	Failed       int          `json:"failed"`
	Bytes        int64        `json:"bytes"`
	Directory    string       `json:"directory"`
	Results      []ItemResult `json:"results"`
	ManifestPath string       `json:"-"`
}

// Download saves items into opts.Dir with a rate-limited worker pool.
//
// Per-item failures are collected in the result. The returned error is
// non-nil only when the directory or manifest cannot be written, or when ctx
// is cancelled before every item was processed; the partial result is
// returned in both cases.
func (e *Engine) Download(ctx context.Context, progress chan<- ProgressUpdate, items []models.AlbumItem, opts DownloadOpts) (*DownloadResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Dir == "" {
		opts.Dir = fmt.Sprintf("wallpapers_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &DownloadResult{
		Total:     len(items),
		Directory: opts.Dir,
		Results:   make([]ItemResult, 0, len(items)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan models.AlbumItem, len(items))
	results := make(chan ItemResult, len(items))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, jobs, results, opts)
	}

	e.sendProgress(progress, downloadStartedUpdate(len(items), opts.Dir))

	go func() {
		defer close(jobs)
		for _, item := range items {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- item
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Error != nil:
			result.Failed++
			e.sendProgress(progress, downloadFailedUpdate(completed, len(items), res))
		case res.Skipped:
			result.Skipped++
			e.sendProgress(progress, downloadSkippedUpdate(completed, len(items), res))
		default:
			result.Succeeded++
			result.Bytes += res.Size
			e.sendProgress(progress, downloadCompletedUpdate(completed, len(items), res))
		}
	}

	manifestPath := filepath.Join(opts.Dir, ManifestFile)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if completed < len(items) {
		return result, fmt.Errorf("download interrupted after %d of %d items: %w", completed, len(items), context.Cause(ctx))
	}
	return result, nil
}

// downloadWorker processes items from jobs until it is closed or ctx is done.
func (e *Engine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan models.AlbumItem,
	results chan<- ItemResult,
	opts DownloadOpts,
) {
	defer wg.Done()

	for item := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.downloadItem(ctx, item, opts)
	}
}

// downloadItem saves a single wallpaper, then reports the download stat and history.
func (e *Engine) downloadItem(ctx context.Context, item models.AlbumItem, opts DownloadOpts) ItemResult {
	res := ItemResult{ItemID: item.ID}
	logger := e.logger.With("item", item.ID)

	if opts.SkipExisting && e.recorder != nil {
		exists, err := e.recorder.Exists(ctx, item.ID)
		if err != nil {
			logger.Warn("failed to check download history", "error", err)
		} else if exists {
			res.Skipped = true
			return res
		}
	}

	src := item.SourceURL()
	if src == "" {
		return failed(res, fmt.Errorf("%w: wallpaper has no image URL", shared.ErrMissingArgument))
	}

	path := filepath.Join(opts.Dir, formatter.DownloadFilename(item))
	size, err := e.save(ctx, src, path)
	if err != nil {
		return failed(res, err)
	}
	res.Path = path
	res.Size = size

	if e.stats != nil {
		if err := e.stats.UpdateStat(ctx, item.ID, models.StatDownload); err != nil {
			logger.Warn("failed to report download stat", "error", err)
		}
	}
	if e.recorder != nil {
		if err := e.recorder.Record(ctx, item.ID, path, size); err != nil {
			logger.Warn("failed to record download", "error", err)
		}
	}

	logger.Debug("saved wallpaper", "path", path, "size", size)
	return res
}

// save writes the body of src to path via a temporary ".part" file; path only
// appears once the transfer completed.
func (e *Engine) save(ctx context.Context, src, path string) (int64, error) {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := e.fetch(ctx, src, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write file: %w", cerr)
	}
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, nil
}

// fetch streams src into w. Relative paths go through the API client;
// absolute URLs are fetched without the API credentials.
func (e *Engine) fetch(ctx context.Context, src string, w io.Writer) (int64, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		n, err := e.api.Download(ctx, src, nil, w)
		if err != nil {
			return n, fmt.Errorf("failed to download wallpaper: %w", err)
		}
		return n, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download wallpaper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: failed to download wallpaper: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read wallpaper: %w", err)
	}
	return n, nil
}

func failed(res ItemResult, err error) ItemResult {
	res.Error = err
	res.Message = err.Error()
	return res
}

func writeManifest(result *DownloadResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
