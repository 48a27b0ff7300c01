package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/formatter"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/desertthunder/discosync/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) marketplaceOptions(cmd *cli.Command) tasks.MarketplaceOptions {
	opts := tasks.MarketplaceOptions{
		MaxVersions: int(cmd.Int("max-versions")),
		Format:      cmd.String("format"),
		Country:     cmd.String("country"),
		Suggestions: cmd.Bool("suggestions"),
		Threshold:   r.threshold(cmd),
	}
	if cmd.IsSet("min-price") {
		min := cmd.Float("min-price")
		opts.MinPrice = &min
	}
	if cmd.IsSet("max-price") {
		max := cmd.Float("max-price")
		opts.MaxPrice = &max
	}
	return opts
}

// MarketplaceSearch prices the versions matching one query.
func (r *Runner) MarketplaceSearch(ctx context.Context, cmd *cli.Command) error {
	query := tasks.MarketplaceQuery{
		MasterID:  int(cmd.Int("master-id")),
		ReleaseID: int(cmd.Int("release-id")),
		Artist:    cmd.String("artist"),
		Album:     cmd.String("album"),
		Format:    cmd.String("format"),
	}
	if query.MasterID == 0 && query.ReleaseID == 0 && query.Artist == "" && query.Album == "" {
		return fmt.Errorf("%w: provide --master-id, --release-id or --artist/--album", shared.ErrMissingArgument)
	}

	r.logger.Info("searching marketplace",
		"master_id", query.MasterID, "release_id", query.ReleaseID, "artist", query.Artist)

	results, err := r.engine.SearchMarketplace(ctx, query, r.marketplaceOptions(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results)
	}
	return r.writePlain("%s", formatter.FormatMarketplace(results))
}

// MarketplaceBatch prices every record in an input file.
func (r *Runner) MarketplaceBatch(ctx context.Context, cmd *cli.Command) error {
	records, err := r.loadRecords(cmd)
	if err != nil {
		return err
	}

	results, failures := r.engine.SearchMarketplaceBatch(ctx, records, r.marketplaceOptions(cmd))

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"results": results, "errors": failures})
	}

	if err := r.writePlain("%s", formatter.FormatMarketplace(results)); err != nil {
		return err
	}
	if len(failures) > 0 {
		if err := r.writePlain("%s", formatter.FormatMarketplaceErrors(failures)); err != nil {
			return err
		}
		if len(results) == 0 {
			return cli.Exit("every record failed", 2)
		}
		return cli.Exit(fmt.Sprintf("%d of %d records failed", len(failures), len(records)), 1)
	}
	return nil
}
