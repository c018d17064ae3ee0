package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// loadConfigAt loads the config at path, creating it from the template when missing.
func (r *Runner) loadConfigAt(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
		r.logger.Info("config file created", "path", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigAt(cmd.String("config"))

	r.logger.Info("initializing database", "path", config.Cache.Path)

	db, err := shared.NewDatabase(config.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Cache.Path)
	return nil
}

// SetupConfig writes a config file from the embedded template and validates it.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("created config is invalid: %w", err)
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("  API:   %s\n", config.API.BaseURL)
	r.writePlain("  Cache: %s\n", config.Cache.Driver)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url (and api.token for admin commands) in %s\n", path)
	r.writePlain("2. Run 'anheyu setup database' to create the local cache\n")
	return nil
}
