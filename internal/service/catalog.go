package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
)

// CatalogService is what the views talk to: remote lookups plus the
// persisted starred set and last query
type CatalogService struct {
	repo      domain.CatalogRepository
	starred   *state.Starred
	lastQuery *state.Scalar
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, starred *state.Starred, lastQuery *state.Scalar, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:      repo,
		starred:   starred,
		lastQuery: lastQuery,
		logger:    logger,
	}
}

// Starred exposes the starred-set container
func (s *CatalogService) Starred() *state.Starred { return s.starred }

// LastQuery returns the remembered search text
func (s *CatalogService) LastQuery() string { return s.lastQuery.Value() }

// SetLastQuery remembers the search text for this session
func (s *CatalogService) SetLastQuery(q string) error { return s.lastQuery.Set(q) }

// Search runs a one-shot catalog search. Hits keep the catalog's relevance
// order. An empty query returns no results without a request.
func (s *CatalogService) Search(ctx context.Context, kind domain.SearchKind, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	s.logger.Debug("searching", "kind", kind, "query", query)

	results, err := s.repo.Search(ctx, kind, query)
	if err != nil {
		s.logger.Error("search failed", "kind", kind, "query", query, "error", err)
		return nil, err
	}

	s.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}

// ShowDetails fetches a show with seasons and cast
func (s *CatalogService) ShowDetails(ctx context.Context, id int) (*domain.Show, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidShowID, id)
	}
	return s.repo.ShowDetails(ctx, id)
}

// NewShowFetcher returns a detail fetcher keyed by show id
func (s *CatalogService) NewShowFetcher(opts ...state.Option) *state.Fetcher[int, *domain.Show] {
	opts = append([]state.Option{state.WithLogger(s.logger)}, opts...)
	return state.NewFetcher[int, *domain.Show](s.ShowDetails, opts...)
}

// StarredShows fetches every starred show concurrently. Any failure fails
// the whole list.
func (s *CatalogService) StarredShows(ctx context.Context) ([]*domain.Show, error) {
	return s.FetchShows(ctx, s.starred.IDs())
}

// FetchShows fetches ids concurrently, all or nothing, in id order
func (s *CatalogService) FetchShows(ctx context.Context, ids []int) ([]*domain.Show, error) {
	shows, err := state.FetchAll(ctx, ids, s.repo.Show)
	if err != nil {
		s.logger.Error("failed to fetch starred shows", "count", len(ids), "error", err)
		return nil, err
	}
	s.logger.Debug("fetched starred shows", "count", len(shows))
	return shows, nil
}

// ToggleStar stars or unstars id and returns the new state
func (s *CatalogService) ToggleStar(id int) (bool, error) {
	starred, err := s.starred.Toggle(id)
	if err != nil {
		return starred, fmt.Errorf("failed to save starred shows: %w", err)
	}
	s.logger.Info("toggled star", "showID", id, "starred", starred)
	return starred, nil
}
