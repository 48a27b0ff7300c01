package tasks

import (
	"context"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
)

// matchTier classifies how an input record matched an item already on the
// remote list. Checked in order; the first matching tier wins.
type matchTier int

const (
	matchNone matchTier = iota
	matchRelease
	matchMaster
	matchFuzzy
)

// remoteItem is one entry of a remote list snapshot. InstanceID and
// FolderID are zero for wantlist items.
type remoteItem struct {
	ReleaseID  int
	MasterID   int
	InstanceID int
	FolderID   int
	Artist     string
	Title      string
}

// listSnapshot is the full state of a remote list at the start of a
// reconciliation run. Rebuilt from scratch on every run.
type listSnapshot struct {
	items    []remoteItem
	releases map[int]struct{}
	masters  map[int]struct{}
}

func newSnapshot(items []remoteItem) *listSnapshot {
	s := &listSnapshot{
		items:    items,
		releases: make(map[int]struct{}, len(items)),
		masters:  make(map[int]struct{}, len(items)),
	}
	for _, item := range items {
		s.releases[item.ReleaseID] = struct{}{}
		if item.MasterID != 0 {
			s.masters[item.MasterID] = struct{}{}
		}
	}
	return s
}

// match runs the three-tier duplicate check for a resolved record: exact
// release ID, then shared master ID, then fuzzy artist+title similarity.
// It returns the tier and the release ID of the snapshot item that matched,
// so callers can protect that item from extras removal.
func (s *listSnapshot) match(releaseID, masterID int, artist, title string) (matchTier, int) {
	if _, ok := s.releases[releaseID]; ok {
		return matchRelease, releaseID
	}
	if masterID != 0 {
		if _, ok := s.masters[masterID]; ok {
			for _, item := range s.items {
				if item.MasterID == masterID {
					return matchMaster, item.ReleaseID
				}
			}
		}
	}
	for _, item := range s.items {
		if shared.Similarity(artist, item.Artist) >= FuzzyMatchThreshold &&
			shared.Similarity(title, item.Title) >= FuzzyMatchThreshold {
			return matchFuzzy, item.ReleaseID
		}
	}
	return matchNone, 0
}

// resolvedRecord pairs an input record with the catalog identifiers the
// resolver settled on.
type resolvedRecord struct {
	input     models.InputRecord
	releaseID int
	masterID  int
	title     string
	artist    string
}

// resolveRecords runs the resolve phase of a reconciliation: each record
// independently resolved to a concrete release, failures degraded to Error
// actions on the report.
func (e *SyncEngine) resolveRecords(ctx context.Context, records []models.InputRecord, threshold float64, report *models.SyncReport) []resolvedRecord {
	resolved := make([]resolvedRecord, 0, len(records))
	for i := range records {
		record := records[i]
		result := e.SearchRelease(ctx, record, threshold)
		if !result.Matched {
			report.AddAction(models.SyncAction{
				Action: models.ActionError,
				Input:  &record,
				Error:  result.Error,
			})
			continue
		}

		releaseID, err := e.ResolveToRelease(ctx, &result, "")
		if err != nil {
			report.AddAction(models.SyncAction{
				Action:   models.ActionError,
				Input:    &record,
				MasterID: result.MasterID,
				Error:    err.Error(),
			})
			continue
		}

		resolved = append(resolved, resolvedRecord{
			input:     record,
			releaseID: releaseID,
			masterID:  result.MasterID,
			title:     result.Title,
			artist:    result.Artist,
		})
	}
	return resolved
}

// fetchAll drains a paginated listing. A failure on the first page is
// fatal; a failure on a later page ends the listing with what was
// collected so far (the remote API rejects out-of-range pages).
func fetchAll[T any](fetch func(page int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, err := fetch(page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			return all, nil
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
}

func wantlistItems(entries []services.WantlistEntry) []remoteItem {
	items := make([]remoteItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, remoteItem{
			ReleaseID: entry.ReleaseID,
			MasterID:  entry.MasterID,
			Artist:    entry.Artist,
			Title:     entry.Title,
		})
	}
	return items
}

func collectionItems(entries []services.CollectionEntry) []remoteItem {
	items := make([]remoteItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, remoteItem{
			ReleaseID:  entry.ReleaseID,
			MasterID:   entry.MasterID,
			InstanceID: entry.InstanceID,
			FolderID:   entry.FolderID,
			Artist:     entry.Artist,
			Title:      entry.Title,
		})
	}
	return items
}
