package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/discosync/internal/models"
)

func price(v float64) *float64 { return &v }

func TestFormatReport(t *testing.T) {
	report := &models.SyncReport{TotalInput: 2}
	report.AddAction(models.SyncAction{
		Action: models.ActionAdd, Artist: "Radiohead", Title: "OK Computer", ReleaseID: 10,
	})
	report.AddAction(models.SyncAction{
		Action: models.ActionError,
		Input:  &models.InputRecord{Artist: "Burial", Album: "Untrue"},
		Error:  "no match found",
	})

	out := FormatReport(report)
	for _, want := range []string{"Radiohead", "OK Computer", "Burial", "no match found",
		"2 input: 1 added, 0 removed, 0 skipped, 1 errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatWantlist(t *testing.T) {
	items := []models.WantlistItem{
		{ReleaseID: 1, Artist: "Radiohead", Title: "OK Computer", Format: "Vinyl", Year: 1997},
	}
	out := FormatWantlist(items)
	for _, want := range []string{"Radiohead", "Vinyl", "1997", "1 items"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMarketplace(t *testing.T) {
	t.Run("unpriced results render a dash", func(t *testing.T) {
		results := []models.MarketplaceResult{
			{ReleaseID: 1, Title: "OK Computer", NumForSale: 0, Currency: "USD"},
		}
		out := FormatMarketplace(results)
		if !strings.Contains(out, "-") {
			t.Errorf("output missing dash for nil price:\n%s", out)
		}
	})

	t.Run("suggestions ordered best condition first", func(t *testing.T) {
		results := []models.MarketplaceResult{
			{
				ReleaseID: 1, Title: "OK Computer", Currency: "USD",
				LowestPrice: price(20),
				PriceSuggestions: map[string]float64{
					"Very Good (VG)":       8,
					"Mint (M)":             30,
					"Near Mint (NM or M-)": 25,
				},
			},
		}
		out := FormatMarketplace(results)

		mint := strings.Index(out, "Mint (M)")
		nearMint := strings.Index(out, "Near Mint (NM or M-)")
		veryGood := strings.Index(out, "Very Good (VG)")
		if mint == -1 || nearMint == -1 || veryGood == -1 {
			t.Fatalf("missing grades:\n%s", out)
		}
		if !(mint < nearMint && nearMint < veryGood) {
			t.Errorf("grades out of order:\n%s", out)
		}
	})
}

func TestFormatMarketplaceErrors(t *testing.T) {
	if out := FormatMarketplaceErrors(nil); out != "" {
		t.Errorf("output = %q, want empty for no failures", out)
	}

	out := FormatMarketplaceErrors([]models.MarketplaceError{
		{Artist: "Nobody", Album: "Nothing", Error: "no match found"},
	})
	if !strings.Contains(out, "Nobody - Nothing") {
		t.Errorf("output missing record: %s", out)
	}
}
