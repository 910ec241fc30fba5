package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
	"github.com/mmcdole/boxoffice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	shows     map[int]*domain.Show
	failShow  map[int]error
	results   []domain.SearchResult
	searches  []string
	showCalls []int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shows: map[int]*domain.Show{}, failShow: map[int]error{}}
}

func (f *fakeRepo) addShow(id int, name string) {
	f.shows[id] = &domain.Show{ID: id, Name: name}
}

func (f *fakeRepo) Search(ctx context.Context, kind domain.SearchKind, q string) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, string(kind)+":"+q)
	return f.results, nil
}

func (f *fakeRepo) ShowDetails(ctx context.Context, id int) (*domain.Show, error) {
	return f.Show(ctx, id)
}

func (f *fakeRepo) Show(ctx context.Context, id int) (*domain.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showCalls = append(f.showCalls, id)
	if err, ok := f.failShow[id]; ok {
		return nil, err
	}
	if s, ok := f.shows[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %d", domain.ErrShowNotFound, id)
}

func newTestService(repo *fakeRepo, mem *store.Memory) *CatalogService {
	return NewCatalogService(repo,
		state.NewStarred(store.Persistent(mem)),
		state.LastQuery(store.Session(mem)),
		nil,
	)
}

func TestCatalogService_SearchEmptyQuery(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, store.NewMemory())

	results, err := svc.Search(context.Background(), domain.SearchShows, "   ")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, repo.searches)
}

func TestCatalogService_SearchKeepsCatalogOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.results = []domain.SearchResult{
		{Kind: domain.SearchShows, Show: &domain.Show{ID: 1, Name: "The Office"}},
		{Kind: domain.SearchShows, Show: &domain.Show{ID: 2, Name: "Office"}},
		{Kind: domain.SearchShows, Show: &domain.Show{ID: 3, Name: "Office Girls"}},
	}
	svc := newTestService(repo, store.NewMemory())

	results, err := svc.Search(context.Background(), domain.SearchShows, "office")
	require.NoError(t, err)
	assert.Equal(t, repo.results, results)
	assert.Equal(t, []string{"shows:office"}, repo.searches)
}

func TestCatalogService_LastQuery(t *testing.T) {
	mem := store.NewMemory()
	svc := newTestService(newFakeRepo(), mem)

	require.NoError(t, svc.SetLastQuery("girls"))
	assert.Equal(t, "girls", svc.LastQuery())

	// A new service over the same session sees it
	assert.Equal(t, "girls", newTestService(newFakeRepo(), mem).LastQuery())
}

func TestCatalogService_StarredShows(t *testing.T) {
	t.Run("all succeed in starred order", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addShow(9, "Nine")
		repo.addShow(5, "Five")
		mem := store.NewMemory()
		require.NoError(t, mem.Set(store.ScopePersistent, "shows", "[9,5]"))

		shows, err := newTestService(repo, mem).StarredShows(context.Background())
		require.NoError(t, err)
		require.Len(t, shows, 2)
		assert.Equal(t, "Nine", shows[0].Name)
		assert.Equal(t, "Five", shows[1].Name)
	})

	t.Run("one failure fails all", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addShow(1, "One")
		repo.addShow(3, "Three")
		repo.failShow[2] = errors.New("boom")
		mem := store.NewMemory()
		require.NoError(t, mem.Set(store.ScopePersistent, "shows", "[1,2,3]"))

		shows, err := newTestService(repo, mem).StarredShows(context.Background())
		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
		assert.Nil(t, shows)
	})

	t.Run("show removed upstream fails all", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addShow(1, "One")
		mem := store.NewMemory()
		require.NoError(t, mem.Set(store.ScopePersistent, "shows", "[1,404]"))

		shows, err := newTestService(repo, mem).StarredShows(context.Background())
		assert.ErrorIs(t, err, domain.ErrShowNotFound)
		assert.Contains(t, err.Error(), "404")
		assert.Nil(t, shows)
	})

	t.Run("nothing starred", func(t *testing.T) {
		repo := newFakeRepo()
		shows, err := newTestService(repo, store.NewMemory()).StarredShows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, shows)
		assert.Empty(t, repo.showCalls)
	})
}

func TestCatalogService_ToggleStar(t *testing.T) {
	mem := store.NewMemory()
	svc := newTestService(newFakeRepo(), mem)

	on, err := svc.ToggleStar(42)
	require.NoError(t, err)
	assert.True(t, on)

	v, _, _ := mem.Get(store.ScopePersistent, "shows")
	assert.Equal(t, "[42]", v)

	mem.FailWrites(errors.New("quota exceeded"))
	_, err = svc.ToggleStar(42)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestCatalogService_ShowFetcher(t *testing.T) {
	repo := newFakeRepo()
	repo.addShow(82, "Game of Thrones")
	svc := newTestService(repo, store.NewMemory())

	f := svc.NewShowFetcher()
	f.SetKey(82)
	f.Wait()

	s := f.State()
	require.NotNil(t, s.Data)
	assert.Equal(t, "Game of Thrones", (*s.Data).Name)

	f.SetKey(-1)
	f.Wait()
	assert.Contains(t, f.State().Err, "invalid show id")
}

func TestFilterResults(t *testing.T) {
	results := []domain.SearchResult{
		{Show: &domain.Show{Name: "Breaking Bad"}},
		{Show: &domain.Show{Name: "Better Call Saul"}},
	}
	assert.Len(t, FilterResults(results, ""), 2)

	got := FilterResults(results, "bcs")
	require.Len(t, got, 1)
	assert.Equal(t, "Better Call Saul", got[0].GetTitle())
}
