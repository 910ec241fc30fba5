package tvmaze

import (
	"fmt"

	"github.com/google/go-querystring/query"
	"github.com/mmcdole/boxoffice/internal/domain"
)

type searchQuery struct {
	Q string `url:"q"`
}

// SearchPath builds /search/{shows|people}?q=... with q encoded
func SearchPath(kind domain.SearchKind, q string) (string, error) {
	if kind == "" {
		kind = domain.SearchShows
	}
	v, err := query.Values(searchQuery{Q: q})
	if err != nil {
		return "", fmt.Errorf("failed to encode search query: %w", err)
	}
	return fmt.Sprintf("/search/%s?%s", kind, v.Encode()), nil
}

// ShowDetailsPath builds the detail path with seasons and cast embedded
func ShowDetailsPath(id int) string {
	return fmt.Sprintf("/shows/%d?embed[]=seasons&embed[]=cast", id)
}

// ShowPath builds the plain show path
func ShowPath(id int) string {
	return fmt.Sprintf("/shows/%d", id)
}
