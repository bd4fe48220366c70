package main

import (
	"context"
	"os"

	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
	"github.com/urfave/cli/v3"
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

	var client *wpe.Client
	if config.HasCredentials() {
		client = wpe.NewClient(wpe.ClientOpts{
			BaseURL:  config.API.BaseURL,
			Username: config.API.Username,
			Password: config.API.Password,
			Logger:   logger,
		})
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "wpec",
		Usage:    "Administrative console for WP Engine hosting accounts",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
