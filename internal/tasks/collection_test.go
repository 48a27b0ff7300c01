package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
	tu "github.com/desertthunder/discosync/internal/testing"
)

func TestSyncCollection(t *testing.T) {
	okComputer := models.InputRecord{Artist: "Radiohead", Album: "OK Computer"}

	t.Run("adds go to the requested folder", func(t *testing.T) {
		catalog := &tu.FakeCatalog{}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		report := engine.SyncCollection(context.Background(), []models.InputRecord{okComputer},
			SyncOptions{FolderID: 4})
		if report.Added != 1 {
			t.Fatalf("added = %d, want 1", report.Added)
		}
		if len(catalog.Items) != 1 || catalog.Items[0].FolderID != 4 {
			t.Errorf("items = %+v, want one item in folder 4", catalog.Items)
		}
	})

	t.Run("duplicates detected across folders", func(t *testing.T) {
		catalog := &tu.FakeCatalog{
			Items: []services.CollectionEntry{
				{InstanceID: 1, FolderID: 7, ReleaseID: 10, Artist: "Radiohead", Title: "OK Computer"},
			},
		}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		report := engine.SyncCollection(context.Background(), []models.InputRecord{okComputer},
			SyncOptions{FolderID: 1})
		if report.Skipped != 1 || report.Added != 0 {
			t.Errorf("skipped/added = %d/%d, want 1/0", report.Skipped, report.Added)
		}
		if reason := report.Actions[0].Reason; reason != "already in collection" {
			t.Errorf("reason = %q", reason)
		}
	})

	t.Run("extras removal emits one action per instance", func(t *testing.T) {
		catalog := &tu.FakeCatalog{
			Items: []services.CollectionEntry{
				{InstanceID: 1, FolderID: 1, ReleaseID: 999, Artist: "Nas", Title: "Illmatic"},
				{InstanceID: 2, FolderID: 1, ReleaseID: 999, Artist: "Nas", Title: "Illmatic"},
			},
		}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		report := engine.SyncCollection(context.Background(), []models.InputRecord{okComputer},
			SyncOptions{RemoveExtras: true})
		if report.Removed != 2 {
			t.Fatalf("removed = %d, want one per instance", report.Removed)
		}
		if len(catalog.Items) != 0 {
			t.Errorf("%d items remain, want 0", len(catalog.Items))
		}
	})

	t.Run("classification invariant holds", func(t *testing.T) {
		unresolvable := models.InputRecord{Artist: "Nobody", Album: "Nothing"}
		catalog := &tu.FakeCatalog{}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		report := engine.SyncCollection(context.Background(),
			[]models.InputRecord{okComputer, unresolvable}, SyncOptions{})
		if got := report.Added + report.Skipped + report.Errors; got != 2 {
			t.Errorf("added+skipped+errors = %d, want 2", got)
		}
	})
}

func TestAddCollectionRecord(t *testing.T) {
	okComputer := models.InputRecord{Artist: "Radiohead", Album: "OK Computer"}

	t.Run("defaults to the uncategorized folder", func(t *testing.T) {
		catalog := &tu.FakeCatalog{}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		action, err := engine.AddCollectionRecord(context.Background(), okComputer, 0, 0, false)
		if err != nil {
			t.Fatalf("AddCollectionRecord() error = %v", err)
		}
		if action.Action != models.ActionAdd {
			t.Errorf("action = %v, want add", action.Action)
		}
		if len(catalog.Items) != 1 || catalog.Items[0].FolderID != DefaultAddFolder {
			t.Errorf("items = %+v, want one item in folder %d", catalog.Items, DefaultAddFolder)
		}
	})

	t.Run("skips a held release", func(t *testing.T) {
		catalog := &tu.FakeCatalog{
			Items: []services.CollectionEntry{{InstanceID: 1, FolderID: 1, ReleaseID: 10}},
		}
		script(catalog, okComputer, 10, 0)
		engine := newTestEngine(catalog)

		action, err := engine.AddCollectionRecord(context.Background(), okComputer, 1, 0, false)
		if err != nil {
			t.Fatalf("AddCollectionRecord() error = %v", err)
		}
		if action.Action != models.ActionSkip {
			t.Errorf("action = %v, want skip", action.Action)
		}
	})
}

func TestRemoveCollectionRelease(t *testing.T) {
	t.Run("removes the first held instance", func(t *testing.T) {
		catalog := &tu.FakeCatalog{
			Items: []services.CollectionEntry{
				{InstanceID: 5, FolderID: 1, ReleaseID: 10},
				{InstanceID: 6, FolderID: 1, ReleaseID: 10},
			},
		}
		engine := newTestEngine(catalog)

		if err := engine.RemoveCollectionRelease(context.Background(), 10); err != nil {
			t.Fatalf("RemoveCollectionRelease() error = %v", err)
		}
		if len(catalog.Items) != 1 || catalog.Items[0].InstanceID != 6 {
			t.Errorf("items = %+v, want instance 6 remaining", catalog.Items)
		}
	})

	t.Run("absent release is an input error", func(t *testing.T) {
		engine := newTestEngine(&tu.FakeCatalog{})

		err := engine.RemoveCollectionRelease(context.Background(), 10)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestListCollection(t *testing.T) {
	catalog := &tu.FakeCatalog{
		Items: []services.CollectionEntry{
			{InstanceID: 1, FolderID: 1, ReleaseID: 10, Artist: "Radiohead", Title: "OK Computer"},
			{InstanceID: 2, FolderID: 3, ReleaseID: 11, Artist: "Burial", Title: "Untrue"},
		},
	}
	engine := newTestEngine(catalog)

	t.Run("folder zero lists everything", func(t *testing.T) {
		items, err := engine.ListCollection(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListCollection() error = %v", err)
		}
		if len(items) != 2 {
			t.Errorf("len(items) = %d, want 2", len(items))
		}
	})

	t.Run("specific folder filters", func(t *testing.T) {
		items, err := engine.ListCollection(context.Background(), 3)
		if err != nil {
			t.Fatalf("ListCollection() error = %v", err)
		}
		if len(items) != 1 || items[0].ReleaseID != 11 {
			t.Errorf("items = %+v, want release 11 only", items)
		}
	})
}
