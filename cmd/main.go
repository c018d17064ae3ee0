package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

const configFile = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := configFile
	if p := os.Getenv("ANHEYU_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "anheyu",
		Usage:    "Browse and manage anheyu albums from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close runner", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
