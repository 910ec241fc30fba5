package service

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/boxoffice/internal/domain"
)

// FilterResults keeps hits whose title fuzzily matches filter. Kept hits
// stay in the catalog's relevance order.
func FilterResults(results []domain.SearchResult, filter string) []domain.SearchResult {
	if filter == "" {
		return results
	}
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if fuzzy.MatchNormalizedFold(filter, r.GetTitle()) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
