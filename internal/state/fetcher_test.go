package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	value string
	err   error
}

// gate hands out one blocking channel per key so tests decide completion order
type gate struct {
	mu    sync.Mutex
	chans map[int]chan result
	calls []int
}

func newGate() *gate {
	return &gate{chans: make(map[int]chan result)}
}

func (g *gate) ch(key int) chan result {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chans[key]
	if !ok {
		c = make(chan result, 1)
		g.chans[key] = c
	}
	return c
}

func (g *gate) fetch(ctx context.Context, key int) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, key)
	g.mu.Unlock()

	r := <-g.ch(key)
	return r.value, r.err
}

func (g *gate) resolve(key int, value string) { g.ch(key) <- result{value: value} }
func (g *gate) reject(key int, err error)     { g.ch(key) <- result{err: err} }

func TestFetcher_Success(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	assert.Equal(t, StatusIdle, f.Status())

	f.SetKey(1)
	s := f.State()
	assert.True(t, s.IsLoading)
	assert.Nil(t, s.Data)
	assert.Empty(t, s.Err)
	assert.Equal(t, StatusLoading, f.Status())

	g.resolve(1, "show-1")
	f.Wait()

	s = f.State()
	assert.False(t, s.IsLoading)
	require.NotNil(t, s.Data)
	assert.Equal(t, "show-1", *s.Data)
	assert.Empty(t, s.Err)
	assert.Equal(t, StatusSuccess, f.Status())
}

func TestFetcher_Failure(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	f.SetKey(1)
	g.reject(1, errors.New("network unreachable"))
	f.Wait()

	s := f.State()
	assert.False(t, s.IsLoading)
	assert.Nil(t, s.Data)
	assert.Equal(t, "network unreachable", s.Err)
	assert.Equal(t, StatusFailed, f.Status())
}

func TestFetcher_StaleKeyResultIsDiscarded(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	var mu sync.Mutex
	var observed []FetchState[string]
	f.OnChange(func(key int, s FetchState[string]) {
		mu.Lock()
		observed = append(observed, s)
		mu.Unlock()
	})

	f.SetKey(1)
	f.SetKey(2)

	// New key resolves first, then the old one lands late
	g.resolve(2, "show-2")
	g.resolve(1, "show-1")
	f.Wait()

	s := f.State()
	require.NotNil(t, s.Data)
	assert.Equal(t, "show-2", *s.Data)
	key, _ := f.Key()
	assert.Equal(t, 2, key)

	mu.Lock()
	defer mu.Unlock()
	for _, o := range observed {
		if o.Data != nil {
			assert.NotEqual(t, "show-1", *o.Data, "superseded result leaked")
		}
	}
}

func TestFetcher_StaleFailureIsDiscarded(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	f.SetKey(1)
	f.SetKey(2)
	g.reject(1, errors.New("old failure"))
	g.resolve(2, "show-2")
	f.Wait()

	s := f.State()
	assert.Empty(t, s.Err)
	require.NotNil(t, s.Data)
	assert.Equal(t, "show-2", *s.Data)
}

func TestFetcher_KeyChangeResetsToLoading(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	f.SetKey(1)
	g.resolve(1, "show-1")
	f.Wait()
	require.Equal(t, StatusSuccess, f.Status())

	f.SetKey(2)
	s := f.State()
	assert.True(t, s.IsLoading)
	assert.Nil(t, s.Data)

	g.resolve(2, "show-2")
	f.Wait()
}

func TestFetcher_SameKeyIsNoop(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	f.SetKey(1)
	f.SetKey(1)
	g.resolve(1, "show-1")
	f.Wait()

	assert.Equal(t, []int{1}, g.calls)
}

func TestFetcher_CloseDiscardsPending(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	notified := 0
	f.OnChange(func(int, FetchState[string]) { notified++ })

	f.SetKey(1)
	require.Equal(t, 1, notified)

	f.Close()
	g.resolve(1, "show-1")
	f.Wait()

	assert.True(t, f.State().IsLoading, "no transition after teardown")
	assert.Equal(t, 1, notified)

	f.SetKey(2)
	assert.Equal(t, []int{1}, g.calls, "closed fetcher issues nothing")
}

func TestFetcher_OneTransitionPerKey(t *testing.T) {
	g := newGate()
	f := NewFetcher[int, string](g.fetch)

	var mu sync.Mutex
	var statuses []bool
	f.OnChange(func(_ int, s FetchState[string]) {
		mu.Lock()
		statuses = append(statuses, s.IsLoading)
		mu.Unlock()
	})

	f.SetKey(1)
	g.resolve(1, "a")
	f.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, statuses)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
