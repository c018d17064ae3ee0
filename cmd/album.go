package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/formatter"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/request"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// pageParams builds admin listing parameters from the shared listing flags.
func pageParams(cmd *cli.Command) models.PageParams {
	return models.PageParams{
		Page:       int(cmd.Int("page")),
		PageSize:   int(cmd.Int("page-size")),
		CategoryID: cmd.String("category"),
		Keyword:    cmd.String("keyword"),
		StartDate:  cmd.String("start"),
		EndDate:    cmd.String("end"),
	}
}

func albumInput(cmd *cli.Command) models.AlbumInput {
	return models.AlbumInput{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		Cover:       cmd.String("cover"),
		CategoryID:  cmd.String("category"),
	}
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// openFiles opens every path as an upload part. The returned closer closes all of them.
func openFiles(paths []string) ([]request.File, func(), error) {
	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	parts := make([]request.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		files = append(files, f)
		parts = append(parts, request.File{Name: filepath.Base(p), Reader: f})
	}
	return parts, closeAll, nil
}

// AlbumList prints a page of admin albums.
func (r *Runner) AlbumList(ctx context.Context, cmd *cli.Command) error {
	page, err := r.albums.List(ctx, pageParams(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	r.writePlainHeader(fmt.Sprintf("Albums · page %d · %d total", page.Page, page.Total))
	for _, a := range page.List {
		r.writePlain("%-10s %-24s %4d photos  %s\n", a.ID, a.Name, a.PhotoCount, a.CategoryName)
	}
	return nil
}

// AlbumGet prints a single album.
func (r *Runner) AlbumGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.albums.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(album, true)
}

// AlbumCreate creates an album from flags.
func (r *Runner) AlbumCreate(ctx context.Context, cmd *cli.Command) error {
	album, err := r.albums.Create(ctx, albumInput(cmd))
	if err != nil {
		return err
	}

	r.writePlain("✓ Created album %s (%s)\n", album.Name, album.ID)
	return nil
}

// AlbumUpdate applies the set flags to an album.
func (r *Runner) AlbumUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.albums.Update(ctx, id, albumInput(cmd))
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated album %s (%s)\n", album.Name, album.ID)
	return nil
}

// AlbumDelete deletes an album.
func (r *Runner) AlbumDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.albums.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted album %s\n", id)
	return nil
}

// AlbumBatchDelete deletes every album id given as an argument.
func (r *Runner) AlbumBatchDelete(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: album ids", shared.ErrMissingArgument)
	}

	if err := r.albums.BatchDelete(ctx, ids); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %d albums\n", len(ids))
	return nil
}

// AlbumPhotos prints a page of an album's photos.
func (r *Runner) AlbumPhotos(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	page, err := r.albums.ListPhotos(ctx, id, pageParams(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	r.writePlainHeader(fmt.Sprintf("Photos in %s · %d total", id, page.Total))
	for _, p := range page.List {
		r.writePlain("%-10s %-11s %-10s %s\n",
			p.ID, formatter.Resolution(p.Width, p.Height), formatter.FormatFileSize(p.Size), p.URL)
	}
	return nil
}

// AlbumUpload uploads one or more photo files into an album.
func (r *Runner) AlbumUpload(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: album id and at least one file", shared.ErrMissingArgument)
	}
	albumID, paths := args[0], args[1:]

	files, closeAll, err := openFiles(paths)
	if err != nil {
		return err
	}
	defer closeAll()

	if len(files) == 1 {
		photo, err := r.albums.UploadPhoto(ctx, albumID, files[0])
		if err != nil {
			return err
		}
		r.writePlain("✓ Uploaded %s as photo %s\n", paths[0], photo.ID)
		return nil
	}

	photos, err := r.albums.BatchUploadPhotos(ctx, albumID, files)
	if err != nil {
		return err
	}
	r.writePlain("✓ Uploaded %d photos to album %s\n", len(photos), albumID)
	return nil
}

// AlbumDeletePhoto deletes one or more photos from an album.
func (r *Runner) AlbumDeletePhoto(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: album id and at least one photo id", shared.ErrMissingArgument)
	}
	albumID, photoIDs := args[0], args[1:]

	if len(photoIDs) == 1 {
		err := r.albums.DeletePhoto(ctx, albumID, photoIDs[0])
		if err != nil {
			return err
		}
	} else if err := r.albums.BatchDeletePhotos(ctx, albumID, photoIDs); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %d photos from album %s\n", len(photoIDs), albumID)
	return nil
}

// AlbumUpdatePhoto updates a photo's title and description.
func (r *Runner) AlbumUpdatePhoto(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("%w: album id and photo id", shared.ErrMissingArgument)
	}

	photo, err := r.albums.UpdatePhoto(ctx, args[0], args[1], models.PhotoInput{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated photo %s\n", photo.ID)
	return nil
}

// AlbumExport streams the album export archive to a file.
func (r *Runner) AlbumExport(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}

	n, err := r.albums.Export(ctx, pageParams(cmd).Values(), f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(output)
		return err
	}

	r.writePlain("✓ Exported albums to %s (%s)\n", output, formatter.FormatFileSize(n))
	return nil
}

// AlbumImport uploads an album export archive.
func (r *Runner) AlbumImport(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}

	files, closeAll, err := openFiles([]string{path})
	if err != nil {
		return err
	}
	defer closeAll()

	result, err := r.albums.Import(ctx, files[0])
	if err != nil {
		return err
	}

	r.writePlain("✓ Imported %s\n", path)
	if result != nil {
		return r.writeJSON(result, true)
	}
	return nil
}

// CategoryList prints the admin album categories.
func (r *Runner) CategoryList(ctx context.Context, cmd *cli.Command) error {
	categories, err := r.albums.ListCategories(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, true)
	}

	r.writePlainHeader("Album Categories")
	for _, c := range categories {
		r.writePlain("%-10s %-24s %4d albums\n", c.ID, c.Name, c.AlbumCount)
	}
	return nil
}

// CategoryGet prints a single category.
func (r *Runner) CategoryGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	category, err := r.albums.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(category, true)
}

// CategoryCreate creates a category from flags.
func (r *Runner) CategoryCreate(ctx context.Context, cmd *cli.Command) error {
	category, err := r.albums.CreateCategory(ctx, models.CategoryInput{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Created category %s (%s)\n", category.Name, category.ID)
	return nil
}

// CategoryUpdate applies the set flags to a category.
func (r *Runner) CategoryUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	category, err := r.albums.UpdateCategory(ctx, id, models.CategoryInput{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated category %s (%s)\n", category.Name, category.ID)
	return nil
}

// CategoryDelete deletes a category.
func (r *Runner) CategoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.albums.DeleteCategory(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted category %s\n", id)
	return nil
}
