package models

import "fmt"

// SyncActionType enumerates the terminal classification of a sync decision.
type SyncActionType string

const (
	ActionAdd    SyncActionType = "add"
	ActionRemove SyncActionType = "remove"
	ActionSkip   SyncActionType = "skip"
	ActionError  SyncActionType = "error"
)

// InputRecord is a single record parsed from an input file.
// Immutable once parsed.
type InputRecord struct {
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Format     string `json:"format,omitempty"`
	Year       int    `json:"year,omitempty"`
	Notes      string `json:"notes,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
}

// DisplayName returns "Artist - Album" for log and error messages.
func (r InputRecord) DisplayName() string {
	return fmt.Sprintf("%s - %s", r.Artist, r.Album)
}

// SearchResult is the outcome of resolving one InputRecord against the catalog.
//
// ReleaseID is overwritten once a master is resolved down to a concrete
// pressing; every other field is set once by the resolver.
type SearchResult struct {
	Input     InputRecord `json:"input"`
	ReleaseID int         `json:"release_id,omitempty"`
	MasterID  int         `json:"master_id,omitempty"`
	Title     string      `json:"title,omitempty"`
	Artist    string      `json:"artist,omitempty"`
	Year      int         `json:"year,omitempty"`
	Format    string      `json:"format,omitempty"`
	Country   string      `json:"country,omitempty"`
	Score     float64     `json:"score"`
	Matched   bool        `json:"matched"`
	Error     string      `json:"error,omitempty"`
}

// SyncAction records a single reconciliation decision.
type SyncAction struct {
	Action    SyncActionType `json:"action"`
	Input     *InputRecord   `json:"input,omitempty"`
	ReleaseID int            `json:"release_id,omitempty"`
	MasterID  int            `json:"master_id,omitempty"`
	Title     string         `json:"title,omitempty"`
	Artist    string         `json:"artist,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// SyncReport accumulates the actions of one sync operation.
// Counters are driven exclusively by AddAction.
type SyncReport struct {
	ID         string       `json:"id"`
	Actions    []SyncAction `json:"actions"`
	TotalInput int          `json:"total_input"`
	Added      int          `json:"added"`
	Removed    int          `json:"removed"`
	Skipped    int          `json:"skipped"`
	Errors     int          `json:"errors"`
}

// AddAction appends the action and increments the matching counter.
func (r *SyncReport) AddAction(a SyncAction) {
	r.Actions = append(r.Actions, a)
	switch a.Action {
	case ActionAdd:
		r.Added++
	case ActionRemove:
		r.Removed++
	case ActionSkip:
		r.Skipped++
	case ActionError:
		r.Errors++
	}
}

// Success reports whether the operation completed without errors.
func (r *SyncReport) Success() bool {
	return r.Errors == 0
}

// ExitCode maps the report to a process exit status: 0 for full success,
// 1 when errors coexist with at least one successful action, 2 when every
// action failed.
func (r *SyncReport) ExitCode() int {
	if r.Errors == 0 {
		return 0
	}
	if r.Added > 0 || r.Removed > 0 || r.Skipped > 0 {
		return 1
	}
	return 2
}

// WantlistItem is an item in the user's wantlist.
type WantlistItem struct {
	ReleaseID int    `json:"release_id"`
	MasterID  int    `json:"master_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Format    string `json:"format,omitempty"`
	Year      int    `json:"year,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// CollectionItem is one instance of a release held in a collection folder.
// A single release may appear as multiple separately removable instances.
type CollectionItem struct {
	InstanceID int    `json:"instance_id"`
	ReleaseID  int    `json:"release_id"`
	MasterID   int    `json:"master_id,omitempty"`
	FolderID   int    `json:"folder_id"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Format     string `json:"format,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// MarketplaceResult holds sale statistics for a single release version.
type MarketplaceResult struct {
	MasterID         int                `json:"master_id,omitempty"`
	ReleaseID        int                `json:"release_id,omitempty"`
	Title            string             `json:"title,omitempty"`
	Artist           string             `json:"artist,omitempty"`
	Format           string             `json:"format,omitempty"`
	Country          string             `json:"country,omitempty"`
	Year             int                `json:"year,omitempty"`
	NumForSale       int                `json:"num_for_sale"`
	LowestPrice      *float64           `json:"lowest_price"`
	Currency         string             `json:"currency"`
	PriceSuggestions map[string]float64 `json:"price_suggestions,omitempty"`
	Label            string             `json:"label,omitempty"`
	CatNo            string             `json:"catno,omitempty"`
	FormatDetails    string             `json:"format_details,omitempty"`
	CommunityHave    *int               `json:"community_have,omitempty"`
	CommunityWant    *int               `json:"community_want,omitempty"`
}

// MarketplaceError records a per-record failure in a batch marketplace search.
type MarketplaceError struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Error  string `json:"error"`
}
