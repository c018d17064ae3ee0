package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/icons"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// SiteShow prints the site configuration, served from the persisted cache while it is fresh.
func (r *Runner) SiteShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.siteConfigStore(ctx)
	if err != nil {
		return err
	}

	config, err := store.Fetch(ctx, r.site.GetSiteConfig, cmd.Bool("force"))
	if err != nil {
		return fmt.Errorf("failed to load site configuration: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(config, true)
	}

	r.writePlainHeader(store.AppName())
	r.writePlain("Logo:     %s\n", store.Logo())
	r.writePlain("Site URL: %s\n", store.SiteURL())
	r.writePlain("API URL:  %s\n", store.APIURL())

	if cached, err := store.Cached(ctx); err == nil {
		age := cached.Age(time.Now()).Truncate(time.Second)
		r.writePlain("%s Cached %s ago\n", icons.SvgTimeLineIcon, age)
	} else if !errors.Is(err, shared.ErrCacheMiss) {
		r.logger.Warn("failed to read cache entry", "error", err)
	}

	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	r.writePlain("\n")
	for _, k := range keys {
		r.writePlain("  %-24s %s\n", k, config[k])
	}
	return nil
}

// SiteClearCache removes the persisted site configuration snapshot.
func (r *Runner) SiteClearCache(ctx context.Context, cmd *cli.Command) error {
	store, err := r.siteConfigStore(ctx)
	if err != nil {
		return err
	}

	if err := store.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear site configuration cache: %w", err)
	}

	r.writePlain("✓ Site configuration cache cleared\n")
	return nil
}

// SiteSet overrides keys of the cached site configuration with KEY=VALUE pairs.
func (r *Runner) SiteSet(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one KEY=VALUE pair", shared.ErrMissingArgument)
	}

	partial, err := parsePairs(args)
	if err != nil {
		return err
	}

	store, err := r.siteConfigStore(ctx)
	if err != nil {
		return err
	}

	if _, err := store.Fetch(ctx, r.site.GetSiteConfig, false); err != nil {
		return fmt.Errorf("failed to load site configuration: %w", err)
	}
	store.Update(ctx, partial)

	for k, v := range partial {
		r.logger.Debug("updated site configuration", "key", k, "value", v)
	}
	r.writePlain("✓ Updated %d keys in the local site configuration\n", len(partial))
	return nil
}

// SiteTestEmail asks the backend to send a test email.
func (r *Runner) SiteTestEmail(ctx context.Context, cmd *cli.Command) error {
	to := cmd.StringArg("to")
	if err := validator.New().Var(to, "required,email"); err != nil {
		return fmt.Errorf("%w: %q is not an email address", shared.ErrInvalidArgument, to)
	}

	if err := r.site.SendTestEmail(ctx, to); err != nil {
		return err
	}

	r.writePlain("✓ Test email sent to %s\n", to)
	return nil
}

// parsePairs parses KEY=VALUE arguments. Keys must be non-empty; values may be empty.
func parsePairs(args []string) (models.SiteConfig, error) {
	out := make(models.SiteConfig, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected KEY=VALUE, got %q", shared.ErrInvalidArgument, arg)
		}
		out[k] = v
	}
	return out, nil
}
