package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin verifies a personal access token against the identity endpoint
// and stores it in the config file on success.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	token := cmd.String("token")
	configPath := cmd.String("config")

	catalog := services.NewDiscogsService(services.DiscogsOpts{
		BaseURL:   r.config.Discogs.BaseURL,
		UserAgent: r.config.Discogs.UserAgent,
		Currency:  r.config.Discogs.Currency,
		Token:     token,
	})

	identity, err := catalog.Identity(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.config.Credentials.UserToken = token
	r.config.Credentials.Username = identity.Username
	if err := shared.SaveConfig(configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("credentials stored", "username", identity.Username, "path", configPath)
	return r.writePlain("Logged in as %s\n", identity.Username)
}

// AuthStatus checks the stored credentials against the identity endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.config.Credentials.UserToken == "" {
		return fmt.Errorf("%w: run 'discosync auth login' first", shared.ErrNotAuthenticated)
	}

	identity, err := r.catalog.Identity(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return r.writePlain("Authenticated as %s (id %d)\n", identity.Username, identity.ID)
}

// AuthLogout removes stored credentials from the config file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.config.Credentials.UserToken = ""
	r.config.Credentials.Username = ""
	if err := shared.SaveConfig(configPath, r.config); err != nil {
		return err
	}
	return r.writePlain("Credentials removed\n")
}
