package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/discosync/internal/services"
)

// SyncEngine coordinates resolution and reconciliation against the remote
// catalog. It holds no per-operation state; a single engine serves any
// number of sync runs.
type SyncEngine struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewSyncEngine creates an engine backed by the given catalog adapter.
func NewSyncEngine(catalog services.Catalog, logger *log.Logger) *SyncEngine {
	return &SyncEngine{catalog: catalog, logger: logger}
}

// SyncOptions controls a wantlist or collection sync run.
type SyncOptions struct {
	// DryRun previews every decision without mutating the remote list.
	DryRun bool

	// RemoveExtras removes remote items not present in the input file.
	RemoveExtras bool

	// Threshold overrides the minimum match score. Zero means
	// [DefaultThreshold].
	Threshold float64

	// FolderID is the collection folder adds go to. Zero means
	// [DefaultAddFolder].
	FolderID int
}

func (o SyncOptions) threshold() float64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return DefaultThreshold
}

func (o SyncOptions) folder() int {
	if o.FolderID > 0 {
		return o.FolderID
	}
	return DefaultAddFolder
}

// MarketplaceOptions controls a marketplace search.
type MarketplaceOptions struct {
	// MaxVersions caps how many matching versions of a master are priced.
	// Zero means [DefaultMaxVersions].
	MaxVersions int

	// Format keeps only versions whose format list contains this value
	// (case-insensitive substring). Empty disables the filter.
	Format string

	// Country keeps only versions from this country (case-insensitive).
	// Empty disables the filter.
	Country string

	// MinPrice and MaxPrice drop results priced outside the range.
	// Results with no listed copies fail both bounds.
	MinPrice *float64
	MaxPrice *float64

	// Suggestions fetches per-condition price suggestions for each result.
	Suggestions bool

	// Threshold overrides the minimum match score for resolution.
	Threshold float64
}

func (o MarketplaceOptions) maxVersions() int {
	if o.MaxVersions > 0 {
		return o.MaxVersions
	}
	return DefaultMaxVersions
}

func (o MarketplaceOptions) threshold() float64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return DefaultThreshold
}
