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

func price(v float64) *float64 { return &v }

// threePressings builds a master with a UK vinyl, a US vinyl and a US CD,
// priced 30/20/unpriced.
func threePressings() *tu.FakeCatalog {
	return &tu.FakeCatalog{
		Versions: map[int][]services.Version{
			7: {
				{ID: 70, Title: "OK Computer", Formats: []string{"Vinyl", "LP"}, Country: "UK", Year: 1997},
				{ID: 71, Title: "OK Computer", Formats: []string{"Vinyl"}, Country: "US", Year: 1997},
				{ID: 72, Title: "OK Computer", Formats: []string{"CD"}, Country: "US", Year: 1997},
			},
		},
		Stats: map[int]*services.SaleStats{
			70: {NumForSale: 3, LowestPrice: price(30), Currency: "USD"},
			71: {NumForSale: 5, LowestPrice: price(20), Currency: "USD"},
			72: {NumForSale: 0, Currency: "USD"},
		},
	}
}

func TestSearchMarketplaceMaster(t *testing.T) {
	t.Run("prices every version sorted ascending with unpriced last", func(t *testing.T) {
		engine := newTestEngine(threePressings())

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("len(results) = %d, want 3", len(results))
		}

		if results[0].ReleaseID != 71 || results[1].ReleaseID != 70 {
			t.Errorf("order = %d, %d, want 71, 70 ascending by price",
				results[0].ReleaseID, results[1].ReleaseID)
		}
		if results[2].LowestPrice != nil {
			t.Errorf("last result should be the unpriced one, got %+v", results[2])
		}
	})

	t.Run("country filter keeps only matching versions", func(t *testing.T) {
		engine := newTestEngine(threePressings())

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Country: "uk"})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 1 || results[0].ReleaseID != 70 {
			t.Errorf("results = %+v, want only the UK pressing", results)
		}
	})

	t.Run("format filter applies before stats", func(t *testing.T) {
		catalog := threePressings()
		engine := newTestEngine(catalog)

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Format: "cd"})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 1 || results[0].ReleaseID != 72 {
			t.Errorf("results = %+v, want only the CD", results)
		}
	})

	t.Run("price band drops out-of-range and unpriced versions", func(t *testing.T) {
		engine := newTestEngine(threePressings())

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7},
			MarketplaceOptions{MinPrice: price(25), MaxPrice: price(50)})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 1 || results[0].ReleaseID != 70 {
			t.Errorf("results = %+v, want only the 30 USD pressing", results)
		}
	})

	t.Run("max versions caps enumeration", func(t *testing.T) {
		engine := newTestEngine(threePressings())

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{MaxVersions: 2})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("len(results) = %d, want 2", len(results))
		}
	})
}

func TestSearchMarketplaceSuggestions(t *testing.T) {
	t.Run("suggestions attach per release", func(t *testing.T) {
		catalog := threePressings()
		catalog.Suggestions = map[int]map[string]float64{
			70: {"Near Mint (NM or M-)": 28.0},
		}
		engine := newTestEngine(catalog)

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7},
			MarketplaceOptions{Country: "UK", Suggestions: true})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("len(results) = %d, want 1", len(results))
		}
		if got := results[0].PriceSuggestions["Near Mint (NM or M-)"]; got != 28.0 {
			t.Errorf("suggestion = %v, want 28.0", got)
		}
	})

	t.Run("seller settings failure short-circuits the call", func(t *testing.T) {
		catalog := threePressings()
		catalog.SuggestionsErr = errors.New("you must have your seller settings completed")
		engine := newTestEngine(catalog)

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Suggestions: true})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if catalog.SuggestionsCalls != 1 {
			t.Errorf("SuggestionsCalls = %d, want 1 (later fetches skipped)", catalog.SuggestionsCalls)
		}
		for _, result := range results {
			if result.PriceSuggestions != nil {
				t.Errorf("suggestions = %v, want absent", result.PriceSuggestions)
			}
		}
	})

	t.Run("short-circuit resets between calls", func(t *testing.T) {
		catalog := threePressings()
		catalog.SuggestionsErr = errors.New("you must have your seller settings completed")
		engine := newTestEngine(catalog)

		engine.SearchMarketplace(context.Background(), MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Suggestions: true})
		engine.SearchMarketplace(context.Background(), MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Suggestions: true})

		if catalog.SuggestionsCalls != 2 {
			t.Errorf("SuggestionsCalls = %d, want one probe per top-level call", catalog.SuggestionsCalls)
		}
	})

	t.Run("other suggestion failures do not short-circuit", func(t *testing.T) {
		catalog := threePressings()
		catalog.SuggestionsErr = errors.New("transient")
		engine := newTestEngine(catalog)

		_, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{MasterID: 7}, MarketplaceOptions{Suggestions: true})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if catalog.SuggestionsCalls != 3 {
			t.Errorf("SuggestionsCalls = %d, want 3", catalog.SuggestionsCalls)
		}
	})
}

func TestSearchMarketplaceRelease(t *testing.T) {
	catalog := &tu.FakeCatalog{
		Releases: map[int]*services.Release{
			42: {
				ID: 42, MasterID: 7, Title: "OK Computer", Artist: "Radiohead",
				Format: "Vinyl", Country: "UK", Year: 1997, Label: "Parlophone", CatNo: "NODATA 02",
			},
		},
		Stats: map[int]*services.SaleStats{
			42: {NumForSale: 2, LowestPrice: price(45), Currency: "USD"},
		},
	}
	engine := newTestEngine(catalog)

	results, err := engine.SearchMarketplace(context.Background(),
		MarketplaceQuery{ReleaseID: 42}, MarketplaceOptions{})
	if err != nil {
		t.Fatalf("SearchMarketplace() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	result := results[0]
	if result.Artist != "Radiohead" || result.Label != "Parlophone" {
		t.Errorf("release details missing: %+v", result)
	}
	if result.LowestPrice == nil || *result.LowestPrice != 45 {
		t.Errorf("LowestPrice = %v, want 45", result.LowestPrice)
	}
}

func TestSearchMarketplaceFreeText(t *testing.T) {
	okComputer := models.InputRecord{Artist: "Radiohead", Album: "OK Computer"}

	t.Run("resolved master enumerates versions", func(t *testing.T) {
		catalog := threePressings()
		catalog.SearchResults = map[string][]services.SearchCandidate{
			structuredKey(okComputer): {{ID: 7, Type: "master", Title: "Radiohead - OK Computer"}},
		}
		engine := newTestEngine(catalog)

		results, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{Artist: "Radiohead", Album: "OK Computer"}, MarketplaceOptions{})
		if err != nil {
			t.Fatalf("SearchMarketplace() error = %v", err)
		}
		if len(results) != 3 {
			t.Errorf("len(results) = %d, want 3", len(results))
		}
	})

	t.Run("unresolvable text returns ErrNoMatch", func(t *testing.T) {
		engine := newTestEngine(&tu.FakeCatalog{})

		_, err := engine.SearchMarketplace(context.Background(),
			MarketplaceQuery{Artist: "Nobody", Album: "Nothing"}, MarketplaceOptions{})
		if !errors.Is(err, shared.ErrNoMatch) {
			t.Errorf("error = %v, want ErrNoMatch", err)
		}
	})

	t.Run("empty query is an input error", func(t *testing.T) {
		engine := newTestEngine(&tu.FakeCatalog{})

		_, err := engine.SearchMarketplace(context.Background(), MarketplaceQuery{}, MarketplaceOptions{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestSearchMarketplaceBatch(t *testing.T) {
	okComputer := models.InputRecord{Artist: "Radiohead", Album: "OK Computer"}
	nothing := models.InputRecord{Artist: "Nobody", Album: "Nothing"}

	catalog := threePressings()
	catalog.SearchResults = map[string][]services.SearchCandidate{
		structuredKey(okComputer): {{ID: 7, Type: "master", Title: "Radiohead - OK Computer"}},
	}
	engine := newTestEngine(catalog)

	results, failures := engine.SearchMarketplaceBatch(context.Background(),
		[]models.InputRecord{okComputer, nothing}, MarketplaceOptions{})

	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3", len(results))
	}
	if len(failures) != 1 || failures[0].Artist != "Nobody" {
		t.Errorf("failures = %+v, want one for the unresolvable record", failures)
	}
}
