package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/formatter"
	"github.com/anzhiyu-c/anheyu-cli/internal/icons"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/routes"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

// galleryParams builds listing parameters from the --page, --page-size, --sort and --category flags.
func galleryParams(cmd *cli.Command) (models.GalleryParams, error) {
	params := models.GalleryParams{
		Page:     int(cmd.Int("page")),
		PageSize: int(cmd.Int("page-size")),
	}
	if params.Page < 1 || params.PageSize < 1 {
		return params, fmt.Errorf("%w: page and page size must be positive", shared.ErrInvalidArgument)
	}

	sort, ok := models.ParseSortOrder(cmd.String("sort"))
	if !ok {
		return params, fmt.Errorf("%w: unknown sort order %q", shared.ErrInvalidArgument, cmd.String("sort"))
	}
	params.Sort = sort

	if cmd.IsSet("category") {
		id := int(cmd.Int("category"))
		params.CategoryID = &id
	}
	return params, nil
}

// fetchWallpapers lists one page, or every page from params.Page on when all is set.
func (r *Runner) fetchWallpapers(ctx context.Context, params models.GalleryParams, all bool) (*models.GalleryPage, error) {
	page, err := r.gallery.ListWallpapers(ctx, params)
	if err != nil {
		return nil, err
	}
	if !all {
		return page, nil
	}

	for params.Page*params.PageSize < page.Total {
		params.Page++
		next, err := r.gallery.ListWallpapers(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(next.List) == 0 {
			break
		}
		page.List = append(page.List, next.List...)
	}
	return page, nil
}

// GalleryList prints a page of public wallpapers.
func (r *Runner) GalleryList(ctx context.Context, cmd *cli.Command) error {
	params, err := galleryParams(cmd)
	if err != nil {
		return err
	}

	page, err := r.gallery.ListWallpapers(ctx, params)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	r.writePlainHeader(fmt.Sprintf("Wallpapers · page %d · %d total · %s", params.Page, page.Total, params.Sort))
	for _, item := range page.List {
		r.writePlain("%-8s %-11s %s %-6d %s %-6d %s\n",
			item.ID,
			formatter.Resolution(item.Width, item.Height),
			icons.FireIcon, item.ViewCount,
			icons.DownloadIcon, item.DownloadCount,
			item.Tags,
		)
	}
	return nil
}

// GalleryCategories prints the public album categories.
func (r *Runner) GalleryCategories(ctx context.Context, cmd *cli.Command) error {
	categories, err := r.gallery.ListCategories(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, true)
	}

	r.writePlainHeader("Categories")
	for _, c := range categories {
		if c.Description != "" {
			r.writePlain("%-4d %s · %s\n", c.ID, c.Name, c.Description)
		} else {
			r.writePlain("%-4d %s\n", c.ID, c.Name)
		}
	}
	return nil
}

// GalleryStat increments a wallpaper's view or download counter.
func (r *Runner) GalleryStat(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: wallpaper id", shared.ErrMissingArgument)
	}

	statType := models.StatType(cmd.String("type"))
	if statType != models.StatView && statType != models.StatDownload {
		return fmt.Errorf("%w: stat type must be view or download, got %q", shared.ErrInvalidArgument, statType)
	}

	if err := r.gallery.UpdateStat(ctx, id, statType); err != nil {
		return err
	}

	r.writePlain("✓ Recorded %s for wallpaper %s\n", statType, id)
	return nil
}

// GalleryDownload saves wallpapers to disk with the task engine.
func (r *Runner) GalleryDownload(ctx context.Context, cmd *cli.Command) error {
	params, err := galleryParams(cmd)
	if err != nil {
		return err
	}

	page, err := r.fetchWallpapers(ctx, params, cmd.Bool("all"))
	if err != nil {
		return err
	}
	if len(page.List) == 0 {
		r.writePlain("No wallpapers to download\n")
		return nil
	}

	opts := tasks.DownloadOpts{
		Dir:          r.config.Download.Dir,
		NumWorkers:   r.config.Download.Workers,
		RateLimit:    r.config.Download.RateLimit,
		SkipExisting: cmd.Bool("skip-existing"),
	}
	if cmd.IsSet("dir") {
		opts.Dir = cmd.String("dir")
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.writePlain("%s\n", u.Message)
		}
	}()

	result, err := r.engine().Download(ctx, progress, page.List, opts)
	close(progress)
	<-done

	if result != nil {
		r.writePlainln("%s Saved %d, skipped %d, failed %d (%s) → %s",
			icons.SvgDownloadIcon, result.Succeeded, result.Skipped, result.Failed,
			formatter.FormatFileSize(result.Bytes), result.Directory)
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}

// GalleryExport writes a wallpaper listing as CSV, Markdown or plain text.
func (r *Runner) GalleryExport(ctx context.Context, cmd *cli.Command) error {
	params, err := galleryParams(cmd)
	if err != nil {
		return err
	}

	page, err := r.fetchWallpapers(ctx, params, cmd.Bool("all"))
	if err != nil {
		return err
	}

	title := cmd.String("title")
	if title == "" {
		title = routes.AlbumHome.Meta.Title
	}
	output := cmd.String("output")

	switch strings.ToLower(cmd.String("format")) {
	case "csv":
		res, err := formatter.WriteCSVExport(page, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s and %s\n", res.ItemsFile, res.MetadataFile)
	case "md", "markdown":
		res, err := formatter.WriteMarkdownExport(ctx, page, title, output, cmd.String("cover"))
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			r.logger.Warn(w)
		}
		r.writePlain("✓ Wrote %d files to %s\n", len(res.Files), res.Directory)
	case "txt", "text":
		path, err := formatter.WriteTextExport(page, title, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}
	return nil
}

// Downloads lists the download history.
func (r *Runner) Downloads(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.downloadRepository()
	if err != nil {
		return err
	}

	downloads, err := repo.List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(downloads, true)
	}

	r.writePlainHeader(fmt.Sprintf("Downloads (%d)", len(downloads)))
	for _, d := range downloads {
		r.writePlain("%-8s %-10s %s  %s\n",
			d.ItemID, formatter.FormatFileSize(d.Size), d.DownloadedAt.Local().Format("2006-01-02 15:04"), d.Path)
	}
	return nil
}
