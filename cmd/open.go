package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/routes"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// Open resolves a named route against SITE_URL and opens it in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("route")
	if name == "" {
		name = routes.AlbumHome.Name
	}

	store, err := r.siteConfigStore(ctx)
	if err != nil {
		return err
	}
	if _, err := store.Fetch(ctx, r.site.GetSiteConfig, false); err != nil {
		return err
	}

	siteURL := store.SiteURL()
	if siteURL == "" {
		return fmt.Errorf("%w: SITE_URL is not configured", shared.ErrInvalidConfig)
	}

	target, err := r.routes.URL(siteURL, name)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", target)
	if cmd.Bool("print") {
		return nil
	}
	return r.openBrowser(target)
}

// Routes prints the declared page routes.
func (r *Runner) Routes(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.routes.Routes(), true)
	}

	r.writePlainHeader("Routes")
	for _, route := range r.routes.Routes() {
		access := "login"
		if route.Meta.IgnoreAccess {
			access = "public"
		}
		r.writePlain("%-12s %-10s %-14s %-7s %s\n", route.Name, route.Path, route.View, access, route.Meta.Title)
	}
	return nil
}
