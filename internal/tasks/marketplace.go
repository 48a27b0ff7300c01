package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/shared"
)

// ConditionGrades is the fixed set of marketplace condition grades, best
// to worst, matching the keys of a price-suggestions response.
var ConditionGrades = []string{
	"Mint (M)",
	"Near Mint (NM or M-)",
	"Very Good Plus (VG+)",
	"Very Good (VG)",
	"Good Plus (G+)",
	"Good (G)",
	"Fair (F)",
	"Poor (P)",
}

// MarketplaceQuery identifies what to price: a master, a concrete release,
// or an artist/album pair to resolve first. The first non-empty field in
// that order wins.
type MarketplaceQuery struct {
	MasterID  int
	ReleaseID int
	Artist    string
	Album     string
	Format    string // preferred format, also used as resolution hint
}

// marketSession carries per-call aggregation state. Once a price-suggestion
// fetch fails because seller settings are not configured, every later fetch
// in the same call is skipped proactively.
type marketSession struct {
	skipSuggestions bool
}

// SearchMarketplace prices the pressings matching a query.
//
// A master enumerates its versions page by page, applying format and
// country filters before fetching stats and the price band filter after,
// until opts.MaxVersions pressings have been priced or the listing is
// exhausted. A bare release ID is priced directly without enumeration.
// Results sort ascending by lowest price with unpriced entries last.
func (e *SyncEngine) SearchMarketplace(ctx context.Context, query MarketplaceQuery, opts MarketplaceOptions) ([]models.MarketplaceResult, error) {
	session := &marketSession{}

	switch {
	case query.MasterID != 0:
		return e.priceMaster(ctx, query.MasterID, session, opts)
	case query.ReleaseID != 0:
		result, err := e.priceRelease(ctx, query.ReleaseID, session, opts)
		if err != nil {
			return nil, err
		}
		return []models.MarketplaceResult{*result}, nil
	case query.Artist != "" || query.Album != "":
		record := models.InputRecord{Artist: query.Artist, Album: query.Album, Format: query.Format}
		result := e.SearchRelease(ctx, record, opts.threshold())
		if !result.Matched {
			return nil, fmt.Errorf("%w: %s", shared.ErrNoMatch, result.Error)
		}
		if result.MasterID != 0 {
			return e.priceMaster(ctx, result.MasterID, session, opts)
		}
		priced, err := e.priceRelease(ctx, result.ReleaseID, session, opts)
		if err != nil {
			return nil, err
		}
		return []models.MarketplaceResult{*priced}, nil
	default:
		return nil, fmt.Errorf("%w: marketplace query needs a master id, release id or artist/album", shared.ErrInvalidInput)
	}
}

// priceMaster enumerates a master's versions and prices the ones that pass
// the filters.
func (e *SyncEngine) priceMaster(ctx context.Context, masterID int, session *marketSession, opts MarketplaceOptions) ([]models.MarketplaceResult, error) {
	var results []models.MarketplaceResult
	priced := 0

pages:
	for page := 1; ; page++ {
		versions, err := e.catalog.MasterVersions(ctx, masterID, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}
		if len(versions) == 0 {
			break
		}

		for _, v := range versions {
			if priced >= opts.maxVersions() {
				break pages
			}
			if !formatMatches(v.Formats, opts.Format) {
				continue
			}
			if opts.Country != "" && !strings.EqualFold(v.Country, opts.Country) {
				continue
			}

			stats, err := e.catalog.ReleaseStats(ctx, v.ID)
			if err != nil {
				e.logger.Warn("stats fetch failed", "release_id", v.ID, "error", err)
				continue
			}
			priced++

			if !priceInRange(stats.LowestPrice, opts.MinPrice, opts.MaxPrice) {
				continue
			}

			result := models.MarketplaceResult{
				MasterID:    masterID,
				ReleaseID:   v.ID,
				Title:       v.Title,
				Format:      strings.Join(v.Formats, ", "),
				Country:     v.Country,
				Year:        v.Year,
				NumForSale:  stats.NumForSale,
				LowestPrice: stats.LowestPrice,
				Currency:    stats.Currency,
			}
			if opts.Suggestions {
				result.PriceSuggestions = e.fetchSuggestions(ctx, v.ID, session)
			}
			results = append(results, result)
		}
	}

	sortByPrice(results)
	return results, nil
}

// priceRelease prices a single concrete release, with full release details
// attached since no enumeration amortizes the lookup.
func (e *SyncEngine) priceRelease(ctx context.Context, releaseID int, session *marketSession, opts MarketplaceOptions) (*models.MarketplaceResult, error) {
	release, err := e.catalog.Release(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	stats, err := e.catalog.ReleaseStats(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	result := &models.MarketplaceResult{
		MasterID:      release.MasterID,
		ReleaseID:     release.ID,
		Title:         release.Title,
		Artist:        release.Artist,
		Format:        release.Format,
		Country:       release.Country,
		Year:          release.Year,
		NumForSale:    stats.NumForSale,
		LowestPrice:   stats.LowestPrice,
		Currency:      stats.Currency,
		Label:         release.Label,
		CatNo:         release.CatNo,
		FormatDetails: release.FormatDetails,
		CommunityHave: release.CommunityHave,
		CommunityWant: release.CommunityWant,
	}
	if opts.Suggestions {
		result.PriceSuggestions = e.fetchSuggestions(ctx, releaseID, session)
	}
	return result, nil
}

// fetchSuggestions retrieves price suggestions, degrading to nil on any
// failure. An account without seller settings fails every suggestion
// lookup the same way, so that failure short-circuits the session.
func (e *SyncEngine) fetchSuggestions(ctx context.Context, releaseID int, session *marketSession) map[string]float64 {
	if session.skipSuggestions {
		return nil
	}
	suggestions, err := e.catalog.PriceSuggestions(ctx, releaseID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "seller settings") {
			e.logger.Warn("seller settings not configured, skipping price suggestions for this search")
			session.skipSuggestions = true
		} else {
			e.logger.Warn("price suggestions fetch failed", "release_id", releaseID, "error", err)
		}
		return nil
	}
	return suggestions
}

// SearchMarketplaceBatch prices every input record independently, collecting
// per-record failures instead of aborting.
func (e *SyncEngine) SearchMarketplaceBatch(ctx context.Context, records []models.InputRecord, opts MarketplaceOptions) ([]models.MarketplaceResult, []models.MarketplaceError) {
	var results []models.MarketplaceResult
	var failures []models.MarketplaceError

	for _, record := range records {
		query := MarketplaceQuery{Artist: record.Artist, Album: record.Album, Format: record.Format}
		priced, err := e.SearchMarketplace(ctx, query, opts)
		if err != nil {
			failures = append(failures, models.MarketplaceError{
				Artist: record.Artist,
				Album:  record.Album,
				Error:  err.Error(),
			})
			continue
		}
		results = append(results, priced...)
	}

	sortByPrice(results)
	return results, failures
}

// formatMatches reports whether any declared format contains want
// (case-insensitive). An empty want matches everything.
func formatMatches(formats []string, want string) bool {
	if want == "" {
		return true
	}
	want = strings.ToLower(want)
	for _, f := range formats {
		if strings.Contains(strings.ToLower(f), want) {
			return true
		}
	}
	return false
}

// priceInRange applies the min/max price band. An unknown price fails
// both bounds.
func priceInRange(price, min, max *float64) bool {
	if min != nil && (price == nil || *price < *min) {
		return false
	}
	if max != nil && (price == nil || *price > *max) {
		return false
	}
	return true
}

// sortByPrice orders results ascending by lowest price, unpriced last.
func sortByPrice(results []models.MarketplaceResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].LowestPrice, results[j].LowestPrice
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
