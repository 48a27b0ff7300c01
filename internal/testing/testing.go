// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
)

// FakeCatalog is an in-memory test double for [services.Catalog].
//
// Search behavior is scripted per query via SearchResults; list state
// lives in Wants and Items and is mutated by the add/remove methods so
// reconciliation tests can assert on the final state. Any operation can
// be forced to fail by setting the matching error field.
type FakeCatalog struct {
	User string

	// SearchResults scripts search responses keyed by SearchKey of the
	// query. Queries with no script return no candidates.
	SearchResults map[string][]services.SearchCandidate

	Masters  map[int]*services.Master
	Versions map[int][]services.Version
	Releases map[int]*services.Release
	Stats    map[int]*services.SaleStats

	// Suggestions scripts price-suggestion responses per release;
	// SuggestionsErr fails every suggestion lookup instead.
	Suggestions    map[int]map[string]float64
	SuggestionsErr error

	Wants []services.WantlistEntry
	Items []services.CollectionEntry

	SearchErr error
	ListErr   error
	AddErr    error
	RemoveErr error

	// call counters for asserting dry-run and short-circuit behavior
	SearchCalls      int
	AddCalls         int
	RemoveCalls      int
	SuggestionsCalls int

	nextInstanceID int
}

var _ services.Catalog = (*FakeCatalog)(nil)

// SearchKey derives the script key for a query.
func SearchKey(q services.SearchQuery) string {
	if q.Query != "" {
		return "q:" + q.Query
	}
	return fmt.Sprintf("%s|%s|%s|%d|%s", q.ReleaseTitle, q.Artist, q.Format, q.Year, q.Type)
}

func (f *FakeCatalog) Identity(ctx context.Context) (*services.Identity, error) {
	if f.User == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &services.Identity{ID: 1, Username: f.User}, nil
}

func (f *FakeCatalog) Search(ctx context.Context, q services.SearchQuery) ([]services.SearchCandidate, error) {
	f.SearchCalls++
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.SearchResults[SearchKey(q)], nil
}

func (f *FakeCatalog) Master(ctx context.Context, masterID int) (*services.Master, error) {
	master, ok := f.Masters[masterID]
	if !ok {
		return nil, fmt.Errorf("discogs API error: status 404: master %d", masterID)
	}
	return master, nil
}

func (f *FakeCatalog) MasterVersions(ctx context.Context, masterID, page int) ([]services.Version, error) {
	if page > 1 {
		return nil, nil
	}
	return f.Versions[masterID], nil
}

func (f *FakeCatalog) Release(ctx context.Context, releaseID int) (*services.Release, error) {
	release, ok := f.Releases[releaseID]
	if !ok {
		return nil, fmt.Errorf("discogs API error: status 404: release %d", releaseID)
	}
	return release, nil
}

func (f *FakeCatalog) ReleaseStats(ctx context.Context, releaseID int) (*services.SaleStats, error) {
	stats, ok := f.Stats[releaseID]
	if !ok {
		return &services.SaleStats{Currency: "USD"}, nil
	}
	return stats, nil
}

func (f *FakeCatalog) PriceSuggestions(ctx context.Context, releaseID int) (map[string]float64, error) {
	f.SuggestionsCalls++
	if f.SuggestionsErr != nil {
		return nil, f.SuggestionsErr
	}
	return f.Suggestions[releaseID], nil
}

func (f *FakeCatalog) Wantlist(ctx context.Context, page int) ([]services.WantlistEntry, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if page > 1 {
		return nil, nil
	}
	return f.Wants, nil
}

func (f *FakeCatalog) AddToWantlist(ctx context.Context, releaseID int) error {
	f.AddCalls++
	if f.AddErr != nil {
		return f.AddErr
	}
	f.Wants = append(f.Wants, services.WantlistEntry{ReleaseID: releaseID})
	return nil
}

func (f *FakeCatalog) RemoveFromWantlist(ctx context.Context, releaseID int) error {
	f.RemoveCalls++
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	for i, want := range f.Wants {
		if want.ReleaseID == releaseID {
			f.Wants = append(f.Wants[:i], f.Wants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *FakeCatalog) Collection(ctx context.Context, folderID, page int) ([]services.CollectionEntry, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if page > 1 {
		return nil, nil
	}
	if folderID == 0 {
		return f.Items, nil
	}
	var entries []services.CollectionEntry
	for _, item := range f.Items {
		if item.FolderID == folderID {
			entries = append(entries, item)
		}
	}
	return entries, nil
}

func (f *FakeCatalog) AddToCollection(ctx context.Context, folderID, releaseID int) error {
	f.AddCalls++
	if f.AddErr != nil {
		return f.AddErr
	}
	f.nextInstanceID++
	f.Items = append(f.Items, services.CollectionEntry{
		InstanceID: f.nextInstanceID,
		FolderID:   folderID,
		ReleaseID:  releaseID,
	})
	return nil
}

func (f *FakeCatalog) RemoveFromCollection(ctx context.Context, folderID, releaseID, instanceID int) error {
	f.RemoveCalls++
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	for i, item := range f.Items {
		if item.InstanceID == instanceID && item.ReleaseID == releaseID {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return nil
}
