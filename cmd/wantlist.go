package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/discosync/internal/formatter"
	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/parsers"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/desertthunder/discosync/internal/tasks"
	"github.com/urfave/cli/v3"
)

const wantlistCacheKey = "wantlist"

// loadRecords parses the file argument of a sync or batch command.
func (r *Runner) loadRecords(cmd *cli.Command) ([]models.InputRecord, error) {
	path := cmd.StringArg("file")
	if path == "" {
		return nil, fmt.Errorf("%w: input file", shared.ErrMissingArgument)
	}

	records, err := parsers.ParseFile(path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("parsed input file", "path", path, "records", len(records))
	return records, nil
}

func (r *Runner) syncOptions(cmd *cli.Command) tasks.SyncOptions {
	return tasks.SyncOptions{
		DryRun:       cmd.Bool("dry-run"),
		RemoveExtras: cmd.Bool("remove-extras"),
		Threshold:    r.threshold(cmd),
	}
}

// reportOutcome renders a sync report and converts partial or total
// failure into the matching exit code.
func (r *Runner) reportOutcome(cmd *cli.Command, report *models.SyncReport) error {
	if cmd.Bool("json") {
		if err := r.writeJSON(report); err != nil {
			return err
		}
	} else if err := r.writePlain("%s", formatter.FormatReport(report)); err != nil {
		return err
	}

	if code := report.ExitCode(); code != 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records failed", report.Errors, len(report.Actions)), code)
	}
	return nil
}

// WantlistSync reconciles an input file against the wantlist.
func (r *Runner) WantlistSync(ctx context.Context, cmd *cli.Command) error {
	records, err := r.loadRecords(cmd)
	if err != nil {
		return err
	}

	opts := r.syncOptions(cmd)
	r.logger.Info("syncing wantlist", "records", len(records), "dry_run", opts.DryRun)

	report := r.engine.SyncWantlist(ctx, records, opts)
	if !opts.DryRun {
		r.invalidateCache(wantlistCacheKey)
	}
	return r.reportOutcome(cmd, report)
}

// WantlistAdd resolves a single record and adds it to the wantlist.
func (r *Runner) WantlistAdd(ctx context.Context, cmd *cli.Command) error {
	record := models.InputRecord{
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Format: parsers.NormalizeFormat(cmd.String("format")),
	}

	action, err := r.engine.AddWantlistRecord(ctx, record, r.threshold(cmd), cmd.Bool("allow-duplicate"))
	if err != nil {
		return err
	}
	r.invalidateCache(wantlistCacheKey)

	if cmd.Bool("json") {
		return r.writeJSON(action)
	}
	if action.Action == models.ActionSkip {
		return r.writePlain("Skipped: %s (%s)\n", record.DisplayName(), action.Reason)
	}
	return r.writePlain("Added %s (release %d) to wantlist\n", record.DisplayName(), action.ReleaseID)
}

// WantlistRemove removes a release from the wantlist by ID.
func (r *Runner) WantlistRemove(ctx context.Context, cmd *cli.Command) error {
	releaseID, err := strconv.Atoi(cmd.StringArg("release_id"))
	if err != nil {
		return fmt.Errorf("%w: release_id must be an integer", shared.ErrInvalidInput)
	}

	if err := r.engine.RemoveWantlistRelease(ctx, releaseID); err != nil {
		return err
	}
	r.invalidateCache(wantlistCacheKey)
	return r.writePlain("Removed release %d from wantlist\n", releaseID)
}

// WantlistList prints the wantlist, served from the snapshot cache when
// fresh.
func (r *Runner) WantlistList(ctx context.Context, cmd *cli.Command) error {
	var items []models.WantlistItem

	cached := false
	if r.cache != nil && !cmd.Bool("no-cache") {
		hit, err := r.cache.Get(wantlistCacheKey, r.config.Cache.TTL(), &items)
		if err != nil {
			r.logger.Warn("cache read failed", "error", err)
		}
		cached = hit
	}

	if !cached {
		fetched, err := r.engine.ListWantlist(ctx)
		if err != nil {
			return err
		}
		items = fetched
		if r.cache != nil {
			if err := r.cache.Put(wantlistCacheKey, items); err != nil {
				r.logger.Warn("cache write failed", "error", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(items)
	}
	return r.writePlain("%s", formatter.FormatWantlist(items))
}
