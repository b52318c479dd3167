package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "vibecatch",
		Usage:    "Catch what's playing and file it by mood",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			logger.Warn("cancelled")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
