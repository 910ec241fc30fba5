package tui

import (
	"strings"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/sahilm/fuzzy"
)

// filterShows returns the indices of shows whose name fuzzy-matches query,
// best match first. An empty query matches nothing and returns nil.
func filterShows(shows []*domain.Show, query string) []int {
	if query == "" {
		return nil
	}

	lowerTitles := make([]string, len(shows))
	for i, s := range shows {
		lowerTitles[i] = strings.ToLower(s.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	return idx
}
