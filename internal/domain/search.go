package domain

import "fmt"

// SearchKind selects which catalog index a search runs against.
type SearchKind string

const (
	SearchShows  SearchKind = "shows"
	SearchPeople SearchKind = "people"
)

// ParseSearchKind converts user input into a SearchKind.
func ParseSearchKind(s string) (SearchKind, error) {
	switch SearchKind(s) {
	case SearchShows, "":
		return SearchShows, nil
	case SearchPeople, "actors":
		return SearchPeople, nil
	default:
		return "", fmt.Errorf("unknown search kind: %q", s)
	}
}

// Toggle flips between show and people search.
func (k SearchKind) Toggle() SearchKind {
	if k == SearchPeople {
		return SearchShows
	}
	return SearchPeople
}

// SearchResult is a single hit from /search/{shows|people}. Exactly one of
// Show or Person is set, matching Kind.
type SearchResult struct {
	Kind   SearchKind
	Score  float64
	Show   *Show
	Person *Person
}

// GetTitle returns the display name of the hit
func (r SearchResult) GetTitle() string {
	switch {
	case r.Show != nil:
		return r.Show.Name
	case r.Person != nil:
		return r.Person.Name
	}
	return ""
}
