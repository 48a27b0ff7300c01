// package formatter renders sync reports, list contents and marketplace
// results as tables or JSON for the CLI layer.
package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/desertthunder/discosync/internal/tasks"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// ToJSON renders any output value as indented JSON.
func ToJSON(data any) ([]byte, error) {
	return shared.MarshalJSON(data, true)
}

// FormatReport renders a sync report as an action table followed by a
// summary line.
func FormatReport(report *models.SyncReport) string {
	t := newTable("Action", "Artist", "Title", "Release", "Detail")
	for _, action := range report.Actions {
		artist, title := action.Artist, action.Title
		if artist == "" && action.Input != nil {
			artist, title = action.Input.Artist, action.Input.Album
		}
		detail := action.Reason
		if action.Error != "" {
			detail = action.Error
		}
		t.Row(string(action.Action), artist, title, idString(action.ReleaseID), detail)
	}

	summary := fmt.Sprintf("%d input: %d added, %d removed, %d skipped, %d errors",
		report.TotalInput, report.Added, report.Removed, report.Skipped, report.Errors)
	return t.Render() + "\n" + summary + "\n"
}

// FormatWantlist renders wantlist items as a table.
func FormatWantlist(items []models.WantlistItem) string {
	t := newTable("Release", "Artist", "Title", "Format", "Year")
	for _, item := range items {
		t.Row(strconv.Itoa(item.ReleaseID), item.Artist, item.Title, item.Format, idString(item.Year))
	}
	return t.Render() + "\n" + fmt.Sprintf("%d items\n", len(items))
}

// FormatCollection renders collection items as a table.
func FormatCollection(items []models.CollectionItem) string {
	t := newTable("Instance", "Release", "Artist", "Title", "Format", "Year")
	for _, item := range items {
		t.Row(strconv.Itoa(item.InstanceID), strconv.Itoa(item.ReleaseID),
			item.Artist, item.Title, item.Format, idString(item.Year))
	}
	return t.Render() + "\n" + fmt.Sprintf("%d items\n", len(items))
}

// FormatMarketplace renders marketplace results as a table, with price
// suggestions listed under each priced release that has them.
func FormatMarketplace(results []models.MarketplaceResult) string {
	t := newTable("Release", "Title", "Format", "Country", "Year", "For Sale", "Lowest")
	for _, result := range results {
		t.Row(strconv.Itoa(result.ReleaseID), result.Title, result.Format,
			result.Country, idString(result.Year),
			strconv.Itoa(result.NumForSale), priceString(result.LowestPrice, result.Currency))
	}

	var b strings.Builder
	b.WriteString(t.Render() + "\n")
	for _, result := range results {
		if len(result.PriceSuggestions) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("Suggested prices for %d:\n", result.ReleaseID))
		for _, grade := range suggestionGrades(result.PriceSuggestions) {
			b.WriteString(fmt.Sprintf("  %-22s %.2f %s\n", grade, result.PriceSuggestions[grade], result.Currency))
		}
	}
	b.WriteString(fmt.Sprintf("%d results\n", len(results)))
	return b.String()
}

// FormatMarketplaceErrors renders per-record batch failures.
func FormatMarketplaceErrors(failures []models.MarketplaceError) string {
	if len(failures) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d records failed:\n", len(failures)))
	for _, failure := range failures {
		b.WriteString(fmt.Sprintf("  %s - %s: %s\n", failure.Artist, failure.Album, failure.Error))
	}
	return b.String()
}

// suggestionGrades orders the grades present in a suggestions map from
// best to worst condition, with unknown grades appended alphabetically.
func suggestionGrades(suggestions map[string]float64) []string {
	var grades []string
	seen := make(map[string]bool, len(suggestions))
	for _, grade := range tasks.ConditionGrades {
		if _, ok := suggestions[grade]; ok {
			grades = append(grades, grade)
			seen[grade] = true
		}
	}
	var extra []string
	for grade := range suggestions {
		if !seen[grade] {
			extra = append(extra, grade)
		}
	}
	sort.Strings(extra)
	return append(grades, extra...)
}

func idString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func priceString(price *float64, currency string) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", *price, currency)
}
