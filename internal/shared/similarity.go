package shared

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Similarity computes a normalized string similarity in [0.0, 1.0].
//
// Both inputs are lowercased and whitespace-trimmed before comparison; the
// score is a normalized Levenshtein ratio, symmetric, and 1.0 only for
// identical normalized strings. Empty input on either side scores 0.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}
	return strutil.Similarity(a, b, metrics.NewLevenshtein())
}
