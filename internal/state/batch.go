package state

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every key concurrently and returns the results in key
// order. It is all-or-nothing: the first error is returned and no partial
// results are exposed. Remaining fetches see a cancelled context. An empty
// key list returns an empty slice without calling fetch.
func FetchAll[K, T any](ctx context.Context, keys []K, fetch func(ctx context.Context, key K) (T, error)) ([]T, error) {
	if len(keys) == 0 {
		return []T{}, nil
	}

	results := make([]T, len(keys))
	g, gctx := errgroup.WithContext(ctx)

	for i, key := range keys {
		g.Go(func() error {
			v, err := fetch(gctx, key)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
