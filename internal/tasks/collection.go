package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
)

// SyncCollection reconciles the input records against the user's collection.
//
// The snapshot reads the "All" pseudo-folder so duplicates are detected
// across folders; adds go to the folder named in opts. A release held as
// multiple instances yields one Remove action per instance during extras
// removal.
func (e *SyncEngine) SyncCollection(ctx context.Context, records []models.InputRecord, opts SyncOptions) *models.SyncReport {
	report := &models.SyncReport{ID: shared.GenerateID(), TotalInput: len(records)}

	resolved := e.resolveRecords(ctx, records, opts.threshold(), report)

	entries, err := fetchAll(func(page int) ([]services.CollectionEntry, error) {
		return e.catalog.Collection(ctx, DefaultReadFolder, page)
	})
	if err != nil {
		for i := range resolved {
			report.AddAction(models.SyncAction{
				Action: models.ActionError,
				Input:  &resolved[i].input,
				Error:  fmt.Sprintf("collection fetch failed: %v", err),
			})
		}
		return report
	}
	snapshot := newSnapshot(collectionItems(entries))

	target := make(map[int]struct{}, len(resolved))
	for i := range resolved {
		r := resolved[i]
		tier, matchedID := snapshot.match(r.releaseID, r.masterID, r.artist, r.title)
		if tier != matchNone {
			target[matchedID] = struct{}{}
			report.AddAction(models.SyncAction{
				Action:    models.ActionSkip,
				Input:     &r.input,
				ReleaseID: r.releaseID,
				MasterID:  r.masterID,
				Title:     r.title,
				Artist:    r.artist,
				Reason:    skipReason("collection", tier),
			})
			continue
		}

		target[r.releaseID] = struct{}{}
		action := models.SyncAction{
			Action:    models.ActionAdd,
			Input:     &r.input,
			ReleaseID: r.releaseID,
			MasterID:  r.masterID,
			Title:     r.title,
			Artist:    r.artist,
		}
		if opts.DryRun {
			action.Reason = "dry run"
		} else if err := e.catalog.AddToCollection(ctx, opts.folder(), r.releaseID); err != nil {
			action.Action = models.ActionError
			action.Error = err.Error()
		}
		report.AddAction(action)
	}

	if opts.RemoveExtras {
		for _, item := range snapshot.items {
			if _, keep := target[item.ReleaseID]; keep {
				continue
			}
			action := models.SyncAction{
				Action:    models.ActionRemove,
				ReleaseID: item.ReleaseID,
				MasterID:  item.MasterID,
				Title:     item.Title,
				Artist:    item.Artist,
				Reason:    "not in input",
			}
			if opts.DryRun {
				action.Reason = "not in input (dry run)"
			} else if err := e.catalog.RemoveFromCollection(ctx, item.FolderID, item.ReleaseID, item.InstanceID); err != nil {
				action.Action = models.ActionError
				action.Error = err.Error()
			}
			report.AddAction(action)
		}
	}

	return report
}

// AddCollectionRecord resolves a single record and adds it to a collection
// folder, running the duplicate check against the "All" pseudo-folder
// unless allowDuplicate is set. Network failures propagate to the caller.
func (e *SyncEngine) AddCollectionRecord(ctx context.Context, record models.InputRecord, folderID int, threshold float64, allowDuplicate bool) (models.SyncAction, error) {
	if folderID <= 0 {
		folderID = DefaultAddFolder
	}

	result := e.SearchRelease(ctx, record, threshold)
	if !result.Matched {
		return models.SyncAction{}, fmt.Errorf("%w: %s", shared.ErrNoMatch, result.Error)
	}
	releaseID, err := e.ResolveToRelease(ctx, &result, "")
	if err != nil {
		return models.SyncAction{}, err
	}

	action := models.SyncAction{
		Action:    models.ActionAdd,
		Input:     &record,
		ReleaseID: releaseID,
		MasterID:  result.MasterID,
		Title:     result.Title,
		Artist:    result.Artist,
	}

	if !allowDuplicate {
		entries, err := fetchAll(func(page int) ([]services.CollectionEntry, error) {
			return e.catalog.Collection(ctx, DefaultReadFolder, page)
		})
		if err != nil {
			return models.SyncAction{}, err
		}
		snapshot := newSnapshot(collectionItems(entries))
		if tier, _ := snapshot.match(releaseID, result.MasterID, result.Artist, result.Title); tier != matchNone {
			action.Action = models.ActionSkip
			action.Reason = skipReason("collection", tier)
			return action, nil
		}
	}

	if err := e.catalog.AddToCollection(ctx, folderID, releaseID); err != nil {
		return models.SyncAction{}, err
	}
	return action, nil
}

// RemoveCollectionRelease removes the first held instance of a release
// from the collection.
func (e *SyncEngine) RemoveCollectionRelease(ctx context.Context, releaseID int) error {
	entries, err := fetchAll(func(page int) ([]services.CollectionEntry, error) {
		return e.catalog.Collection(ctx, DefaultReadFolder, page)
	})
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.ReleaseID == releaseID {
			return e.catalog.RemoveFromCollection(ctx, entry.FolderID, entry.ReleaseID, entry.InstanceID)
		}
	}
	return fmt.Errorf("%w: release %d not in collection", shared.ErrInvalidInput, releaseID)
}

// ListCollection fetches the full contents of a collection folder.
func (e *SyncEngine) ListCollection(ctx context.Context, folderID int) ([]models.CollectionItem, error) {
	entries, err := fetchAll(func(page int) ([]services.CollectionEntry, error) {
		return e.catalog.Collection(ctx, folderID, page)
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.CollectionItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.CollectionItem{
			InstanceID: entry.InstanceID,
			ReleaseID:  entry.ReleaseID,
			MasterID:   entry.MasterID,
			FolderID:   entry.FolderID,
			Title:      entry.Title,
			Artist:     entry.Artist,
			Format:     entry.Format,
			Year:       entry.Year,
		})
	}
	return items, nil
}
