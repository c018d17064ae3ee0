package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/anzhiyu-c/anheyu-cli/internal/stores"
	"github.com/anzhiyu-c/anheyu-cli/internal/ui"
)

// TUI launches the interactive wallpaper browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.gallery == nil {
		return fmt.Errorf("%w: gallery service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	title := stores.DefaultAppName
	if store, err := r.siteConfigStore(ctx); err != nil {
		r.logger.Warn("site config unavailable", "error", err)
	} else if _, err := store.Fetch(ctx, r.site.GetSiteConfig, false); err != nil {
		r.logger.Warn("failed to fetch site config", "error", err)
	} else {
		title = store.AppName()
	}

	model := ui.NewModel(ctx, ui.Options{
		Store:       stores.NewAlbumStore(r.gallery, r.logger),
		Gallery:     r.gallery,
		Engine:      r.engine(),
		Title:       title,
		PageSize:    int(cmd.Int("page-size")),
		DownloadDir: r.config.Download.Dir,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
