// Package state holds the persisted and asynchronous state containers that
// back the client's views.
//
//   - Reducer: a reduction-driven value seeded from and mirrored to a store.KV
//     on every transition (the starred-show set).
//   - Scalar: a string seeded from and mirrored to a store.KV (the last query).
//   - Fetcher: a single remote fetch bound to a changing key, discarding
//     results that arrive after the key changed or the fetcher was closed.
//   - FetchAll: concurrent fan-out with all-or-nothing aggregation.
//
// Containers own their in-memory value. The store is read once at
// construction and written after each accepted change; later external edits
// to the store are not observed.
package state

import (
	"context"
	"log/slog"
)

type options struct {
	logger *slog.Logger
	ctx    context.Context
}

// Option configures a container
type Option func(*options)

// WithLogger sets the logger used for load failures and discarded results
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithContext sets the context fetches run under (Fetcher only)
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
