package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/discosync/internal/formatter"
	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/parsers"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/urfave/cli/v3"
)

func collectionCacheKey(folderID int) string {
	return fmt.Sprintf("collection:%d", folderID)
}

// CollectionSync reconciles an input file against the collection.
func (r *Runner) CollectionSync(ctx context.Context, cmd *cli.Command) error {
	records, err := r.loadRecords(cmd)
	if err != nil {
		return err
	}

	opts := r.syncOptions(cmd)
	opts.FolderID = int(cmd.Int("folder"))
	if opts.FolderID == 0 {
		opts.FolderID = r.config.Sync.FolderID
	}
	r.logger.Info("syncing collection", "records", len(records), "folder", opts.FolderID, "dry_run", opts.DryRun)

	report := r.engine.SyncCollection(ctx, records, opts)
	if !opts.DryRun {
		r.invalidateCache(collectionCacheKey(0), collectionCacheKey(opts.FolderID))
	}
	return r.reportOutcome(cmd, report)
}

// CollectionAdd resolves a single record and adds it to a folder.
func (r *Runner) CollectionAdd(ctx context.Context, cmd *cli.Command) error {
	record := models.InputRecord{
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Format: parsers.NormalizeFormat(cmd.String("format")),
	}

	folderID := int(cmd.Int("folder"))
	if folderID == 0 {
		folderID = r.config.Sync.FolderID
	}

	action, err := r.engine.AddCollectionRecord(ctx, record, folderID, r.threshold(cmd), cmd.Bool("allow-duplicate"))
	if err != nil {
		return err
	}
	r.invalidateCache(collectionCacheKey(0), collectionCacheKey(folderID))

	if cmd.Bool("json") {
		return r.writeJSON(action)
	}
	if action.Action == models.ActionSkip {
		return r.writePlain("Skipped: %s (%s)\n", record.DisplayName(), action.Reason)
	}
	return r.writePlain("Added %s (release %d) to folder %d\n", record.DisplayName(), action.ReleaseID, folderID)
}

// CollectionRemove removes the first held instance of a release.
func (r *Runner) CollectionRemove(ctx context.Context, cmd *cli.Command) error {
	releaseID, err := strconv.Atoi(cmd.StringArg("release_id"))
	if err != nil {
		return fmt.Errorf("%w: release_id must be an integer", shared.ErrInvalidInput)
	}

	if err := r.engine.RemoveCollectionRelease(ctx, releaseID); err != nil {
		return err
	}
	r.invalidateCache(collectionCacheKey(0), collectionCacheKey(r.config.Sync.FolderID))
	return r.writePlain("Removed release %d from collection\n", releaseID)
}

// CollectionList prints a collection folder, served from the snapshot
// cache when fresh.
func (r *Runner) CollectionList(ctx context.Context, cmd *cli.Command) error {
	folderID := int(cmd.Int("folder"))
	key := collectionCacheKey(folderID)

	var items []models.CollectionItem

	cached := false
	if r.cache != nil && !cmd.Bool("no-cache") {
		hit, err := r.cache.Get(key, r.config.Cache.TTL(), &items)
		if err != nil {
			r.logger.Warn("cache read failed", "error", err)
		}
		cached = hit
	}

	if !cached {
		fetched, err := r.engine.ListCollection(ctx, folderID)
		if err != nil {
			return err
		}
		items = fetched
		if r.cache != nil {
			if err := r.cache.Put(key, items); err != nil {
				r.logger.Warn("cache write failed", "error", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(items)
	}
	return r.writePlain("%s", formatter.FormatCollection(items))
}
