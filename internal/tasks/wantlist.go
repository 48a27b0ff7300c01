package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
)

// SyncWantlist reconciles the input records against the user's wantlist.
//
// Each record resolves to a release, is classified against a fresh snapshot
// of the wantlist (Skip when any duplicate tier matches, Add otherwise) and,
// with RemoveExtras set, wantlist items absent from the input are removed.
// Per-record failures degrade to Error actions; the run always completes.
func (e *SyncEngine) SyncWantlist(ctx context.Context, records []models.InputRecord, opts SyncOptions) *models.SyncReport {
	report := &models.SyncReport{ID: shared.GenerateID(), TotalInput: len(records)}

	resolved := e.resolveRecords(ctx, records, opts.threshold(), report)

	entries, err := fetchAll(func(page int) ([]services.WantlistEntry, error) {
		return e.catalog.Wantlist(ctx, page)
	})
	if err != nil {
		for i := range resolved {
			report.AddAction(models.SyncAction{
				Action: models.ActionError,
				Input:  &resolved[i].input,
				Error:  fmt.Sprintf("wantlist fetch failed: %v", err),
			})
		}
		return report
	}
	snapshot := newSnapshot(wantlistItems(entries))

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
				Reason:    skipReason("wantlist", tier),
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
		} else if err := e.catalog.AddToWantlist(ctx, r.releaseID); err != nil {
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
			} else if err := e.catalog.RemoveFromWantlist(ctx, item.ReleaseID); err != nil {
				action.Action = models.ActionError
				action.Error = err.Error()
			}
			report.AddAction(action)
		}
	}

	return report
}

// skipReason phrases the duplicate tier for a skip action.
func skipReason(list string, tier matchTier) string {
	if tier == matchFuzzy {
		return fmt.Sprintf("already in %s (fuzzy match)", list)
	}
	return "already in " + list
}

// AddWantlistRecord resolves a single record and adds it to the wantlist,
// running the same duplicate check as a batch sync unless allowDuplicate
// is set. Network failures propagate to the caller.
func (e *SyncEngine) AddWantlistRecord(ctx context.Context, record models.InputRecord, threshold float64, allowDuplicate bool) (models.SyncAction, error) {
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
		entries, err := fetchAll(func(page int) ([]services.WantlistEntry, error) {
			return e.catalog.Wantlist(ctx, page)
		})
		if err != nil {
			return models.SyncAction{}, err
		}
		snapshot := newSnapshot(wantlistItems(entries))
		if tier, _ := snapshot.match(releaseID, result.MasterID, result.Artist, result.Title); tier != matchNone {
			action.Action = models.ActionSkip
			action.Reason = skipReason("wantlist", tier)
			return action, nil
		}
	}

	if err := e.catalog.AddToWantlist(ctx, releaseID); err != nil {
		return models.SyncAction{}, err
	}
	return action, nil
}

// RemoveWantlistRelease removes a release from the wantlist by ID.
func (e *SyncEngine) RemoveWantlistRelease(ctx context.Context, releaseID int) error {
	return e.catalog.RemoveFromWantlist(ctx, releaseID)
}

// ListWantlist fetches the full wantlist.
func (e *SyncEngine) ListWantlist(ctx context.Context) ([]models.WantlistItem, error) {
	entries, err := fetchAll(func(page int) ([]services.WantlistEntry, error) {
		return e.catalog.Wantlist(ctx, page)
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.WantlistItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.WantlistItem{
			ReleaseID: entry.ReleaseID,
			MasterID:  entry.MasterID,
			Title:     entry.Title,
			Artist:    entry.Artist,
			Format:    entry.Format,
			Year:      entry.Year,
			Notes:     entry.Notes,
		})
	}
	return items, nil
}
