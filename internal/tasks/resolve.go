package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
)

const (
	// DefaultThreshold is the minimum match score for release resolution.
	DefaultThreshold = 0.7

	// FuzzyMatchThreshold is the similarity both artist and title must reach
	// for two items to count as duplicates of each other.
	FuzzyMatchThreshold = 0.85

	// DefaultAddFolder is the collection folder new items go to
	// (1 = Uncategorized). Folder 0 is the read-only "All" pseudo-folder.
	DefaultAddFolder  = 1
	DefaultReadFolder = 0

	// DefaultMaxVersions caps pressing enumeration in marketplace searches.
	DefaultMaxVersions = 25
)

// scoring weights; year and format are bonuses on top of the text score
const (
	artistWeight = 0.4
	titleWeight  = 0.4
	yearBonus    = 0.1
	formatBonus  = 0.1
)

// SearchRelease resolves one input record to a scored catalog candidate.
//
// Three passes, stopping at the first that produces a match at or above
// threshold: a structured master search with all known fields, the same
// search without format and year, and finally a free-text release search.
// The returned result is unmatched with an explanatory error when every
// pass comes up short.
func (e *SyncEngine) SearchRelease(ctx context.Context, record models.InputRecord, threshold float64) models.SearchResult {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	passes := []services.SearchQuery{
		{
			ReleaseTitle: record.Album,
			Artist:       record.Artist,
			Format:       record.Format,
			Year:         record.Year,
			Type:         "master",
		},
		{
			ReleaseTitle: record.Album,
			Artist:       record.Artist,
			Type:         "master",
		},
		{
			Query: record.Artist + " " + record.Album,
			Type:  "release",
		},
	}

	var lastErr error
	for i, query := range passes {
		candidates, err := e.catalog.Search(ctx, query)
		if err != nil {
			e.logger.Warn("search pass failed", "pass", i+1, "record", record.DisplayName(), "error", err)
			lastErr = err
			continue
		}

		best, score := bestCandidate(candidates, record)
		if best == nil || score < threshold {
			continue
		}

		e.logger.Debug("matched", "record", record.DisplayName(), "pass", i+1, "score", score, "id", best.ID)
		return candidateResult(record, *best, score)
	}

	result := models.SearchResult{Input: record, Matched: false}
	if lastErr != nil {
		result.Error = lastErr.Error()
	} else {
		result.Error = fmt.Sprintf("%v: no candidate scored >= %.2f", shared.ErrNoMatch, threshold)
	}
	return result
}

// bestCandidate scores every candidate and returns the highest scorer.
// Ties keep the first candidate encountered.
func bestCandidate(candidates []services.SearchCandidate, record models.InputRecord) (*services.SearchCandidate, float64) {
	var best *services.SearchCandidate
	bestScore := 0.0
	for i := range candidates {
		if score := scoreCandidate(candidates[i], record); score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best, bestScore
}

// scoreCandidate computes the weighted match score of a candidate against
// an input record. Artist and title similarity carry most of the weight;
// exact year and format matches add fixed bonuses.
func scoreCandidate(c services.SearchCandidate, record models.InputRecord) float64 {
	candArtist, candTitle := splitCandidateTitle(c.Title)

	score := artistWeight*shared.Similarity(record.Artist, candArtist) +
		titleWeight*shared.Similarity(record.Album, candTitle)

	if record.Year != 0 && record.Year == c.Year {
		score += yearBonus
	}
	if record.Format != "" {
		want := strings.ToLower(record.Format)
		for _, f := range c.Formats {
			if strings.Contains(strings.ToLower(f), want) {
				score += formatBonus
				break
			}
		}
	}
	return score
}

// splitCandidateTitle splits a catalog title of the form "Artist - Album".
// Titles without the separator are treated as album-only.
func splitCandidateTitle(title string) (artist, album string) {
	if before, after, found := strings.Cut(title, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", strings.TrimSpace(title)
}

// candidateResult builds a matched SearchResult from a scored candidate.
func candidateResult(record models.InputRecord, c services.SearchCandidate, score float64) models.SearchResult {
	artist, album := splitCandidateTitle(c.Title)
	result := models.SearchResult{
		Input:   record,
		Title:   album,
		Artist:  artist,
		Year:    c.Year,
		Country: c.Country,
		Score:   score,
		Matched: true,
	}
	if len(c.Formats) > 0 {
		result.Format = c.Formats[0]
	}
	if c.Type == "master" {
		result.MasterID = c.ID
	} else {
		result.ReleaseID = c.ID
		result.MasterID = c.MasterID
	}
	return result
}

// ResolveToRelease narrows a matched search result down to one concrete
// release ID, overwriting result.ReleaseID on success.
//
// A result that already names a release without a master is returned as-is.
// When a master is present, version selection prefers a format match among
// the master's versions, then the master's main release, then whatever
// release ID the search itself produced.
func (e *SyncEngine) ResolveToRelease(ctx context.Context, result *models.SearchResult, preferredFormat string) (int, error) {
	if !result.Matched {
		return 0, fmt.Errorf("%w: %s", shared.ErrUnresolvable, result.Input.DisplayName())
	}
	if result.MasterID == 0 {
		if result.ReleaseID == 0 {
			return 0, fmt.Errorf("%w: %s has neither release nor master id", shared.ErrUnresolvable, result.Input.DisplayName())
		}
		return result.ReleaseID, nil
	}

	if preferredFormat == "" {
		preferredFormat = result.Input.Format
	}

	releaseID, err := e.ResolveMaster(ctx, result.MasterID, preferredFormat)
	if err != nil {
		if result.ReleaseID != 0 {
			return result.ReleaseID, nil
		}
		return 0, err
	}
	result.ReleaseID = releaseID
	return releaseID, nil
}

// ResolveMaster selects one concrete release for a master ID. With a format
// preference the first page of versions is scanned for a format match;
// otherwise (or when no version matches) the master's main release is used.
func (e *SyncEngine) ResolveMaster(ctx context.Context, masterID int, preferredFormat string) (int, error) {
	if preferredFormat != "" {
		versions, err := e.catalog.MasterVersions(ctx, masterID, 1)
		if err != nil {
			e.logger.Warn("version listing failed", "master_id", masterID, "error", err)
		} else {
			want := strings.ToLower(preferredFormat)
			for _, v := range versions {
				for _, f := range v.Formats {
					if strings.Contains(strings.ToLower(f), want) {
						return v.ID, nil
					}
				}
			}
		}
	}

	master, err := e.catalog.Master(ctx, masterID)
	if err != nil {
		return 0, fmt.Errorf("%w: master %d: %v", shared.ErrUnresolvable, masterID, err)
	}
	if master.MainReleaseID == 0 {
		return 0, fmt.Errorf("%w: master %d has no main release", shared.ErrUnresolvable, masterID)
	}
	return master.MainReleaseID, nil
}
