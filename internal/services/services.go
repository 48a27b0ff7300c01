// package services defines interface Catalog for interacting with the
// Discogs HTTP API.
//
// Response payloads are normalized into the flat types below at the adapter
// boundary, so the resolver and sync engine never branch on wire
// representation.
package services

import "context"

// Catalog defines the operations the sync engine, resolver and marketplace
// aggregator need from the remote catalog and inventory service.
//
// Paginated operations take a 1-based page number and return an empty slice
// once the listing is exhausted.
type Catalog interface {
	// Identity returns the authenticated user.
	Identity(ctx context.Context) (*Identity, error)

	// Search runs a catalog search and returns the first page of candidates.
	Search(ctx context.Context, q SearchQuery) ([]SearchCandidate, error)

	// Master retrieves a master (work) by ID.
	Master(ctx context.Context, masterID int) (*Master, error)

	// MasterVersions retrieves one page of a master's release versions.
	MasterVersions(ctx context.Context, masterID, page int) ([]Version, error)

	// Release retrieves a single release by ID.
	Release(ctx context.Context, releaseID int) (*Release, error)

	// ReleaseStats retrieves marketplace sale statistics for a release.
	ReleaseStats(ctx context.Context, releaseID int) (*SaleStats, error)

	// PriceSuggestions retrieves per-condition price suggestions for a
	// release, keyed by condition grade name.
	PriceSuggestions(ctx context.Context, releaseID int) (map[string]float64, error)

	// Wantlist retrieves one page of the user's wantlist.
	Wantlist(ctx context.Context, page int) ([]WantlistEntry, error)

	// AddToWantlist puts a release on the user's wantlist.
	AddToWantlist(ctx context.Context, releaseID int) error

	// RemoveFromWantlist deletes a release from the user's wantlist.
	RemoveFromWantlist(ctx context.Context, releaseID int) error

	// Collection retrieves one page of a collection folder. Folder 0 is the
	// "All" pseudo-folder.
	Collection(ctx context.Context, folderID, page int) ([]CollectionEntry, error)

	// AddToCollection adds a release instance to a folder.
	AddToCollection(ctx context.Context, folderID, releaseID int) error

	// RemoveFromCollection removes one instance of a release from a folder.
	RemoveFromCollection(ctx context.Context, folderID, releaseID, instanceID int) error
}

// Identity is the authenticated Discogs user.
type Identity struct {
	ID       int
	Username string
}

// SearchQuery describes one catalog search. Query is the free-text form;
// the structured fields are ignored when Query is set.
type SearchQuery struct {
	Query        string
	ReleaseTitle string
	Artist       string
	Format       string
	Year         int
	Type         string // "master" or "release"
}

// SearchCandidate is one search hit. Title is the raw catalog title,
// usually "Artist - Album".
type SearchCandidate struct {
	ID       int
	Type     string // "master" or "release"
	MasterID int    // for release-typed hits that belong to a master
	Title    string
	Year     int
	Formats  []string
	Country  string
}

// Master is an abstract work grouping multiple release versions.
type Master struct {
	ID            int
	Title         string
	MainReleaseID int
}

// Version is one pressing of a master.
type Version struct {
	ID      int
	Title   string
	Formats []string
	Country string
	Year    int
}

// Release is a concrete catalog release with artist/label info flattened.
type Release struct {
	ID            int
	MasterID      int
	Title         string
	Artist        string
	Format        string
	FormatDetails string
	Country       string
	Year          int
	Label         string
	CatNo         string
	CommunityHave *int
	CommunityWant *int
}

// SaleStats holds marketplace statistics for a release. LowestPrice is nil
// when no copies are listed.
type SaleStats struct {
	NumForSale  int
	LowestPrice *float64
	Currency    string
}

// WantlistEntry is one wantlist item as returned by the list endpoint.
type WantlistEntry struct {
	ReleaseID int
	MasterID  int
	Title     string
	Artist    string
	Format    string
	Year      int
	Notes     string
}

// CollectionEntry is one release instance in a collection folder.
type CollectionEntry struct {
	InstanceID int
	FolderID   int
	ReleaseID  int
	MasterID   int
	Title      string
	Artist     string
	Format     string
	Year       int
}
