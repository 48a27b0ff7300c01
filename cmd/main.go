package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/discosync/internal/repositories"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	catalog := services.NewDiscogsService(services.DiscogsOpts{
		BaseURL:   config.Discogs.BaseURL,
		UserAgent: config.Discogs.UserAgent,
		Currency:  config.Discogs.Currency,
		Token:     config.Credentials.UserToken,
		Username:  config.Credentials.Username,
	})

	var cache *repositories.Cache
	if db, err := shared.OpenCacheDB(config.Cache.Path); err != nil {
		logger.Warn("cache database unavailable", "path", config.Cache.Path, "error", err)
	} else {
		cache = repositories.NewCache(db)
		if err := cache.Setup(); err != nil {
			logger.Warn("cache setup failed", "error", err)
			cache = nil
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Cache:   cache,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:    "discosync",
		Usage:   "Sync release lists with your Discogs wantlist & collection",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				logger.Error(msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		logger.Fatalf("application error: %v", err)
	}
}
