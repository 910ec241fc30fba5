package domain

import (
	"context"
	"encoding/json"
)

// ResourceFetcher issues a GET for a path relative to the catalog base URL
// and returns the raw JSON body
type ResourceFetcher interface {
	FetchJSON(ctx context.Context, path string) (json.RawMessage, error)
}

// CatalogRepository provides typed access to the remote show catalog
type CatalogRepository interface {
	// Search runs a show or people search
	Search(ctx context.Context, kind SearchKind, query string) ([]SearchResult, error)

	// ShowDetails returns a show with its seasons and cast embedded
	ShowDetails(ctx context.Context, id int) (*Show, error)

	// Show returns a show without embeds
	Show(ctx context.Context, id int) (*Show, error)
}
