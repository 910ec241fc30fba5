package state

import (
	"context"
	"log/slog"
	"sync"
)

// Status is the phase of a Fetcher
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchState is the consumer-facing view of a fetch: data, loading flag and
// error message.
type FetchState[T any] struct {
	Data      *T
	IsLoading bool
	Err       string
}

// FetchFunc loads the resource for key
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Fetcher drives one remote fetch per key value. Every SetKey starts a new
// generation; a completion is applied only while its generation is current
// and the fetcher is open, so results for a superseded key or a closed
// consumer are dropped. In-flight requests are not aborted.
type Fetcher[K comparable, T any] struct {
	mu       sync.Mutex
	fetch    FetchFunc[K, T]
	ctx      context.Context
	logger   *slog.Logger
	key      K
	hasKey   bool
	gen      uint64
	status   Status
	state    FetchState[T]
	closed   bool
	onChange func(key K, s FetchState[T])

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// NewFetcher creates an idle fetcher
func NewFetcher[K comparable, T any](fetch FetchFunc[K, T], opts ...Option) *Fetcher[K, T] {
	o := buildOptions(opts)
	return &Fetcher[K, T]{
		fetch:  fetch,
		ctx:    o.ctx,
		logger: o.logger,
	}
}

// OnChange registers fn to observe state transitions. fn always receives
// the latest state and key; it runs outside the fetcher's lock.
func (f *Fetcher[K, T]) OnChange(fn func(key K, s FetchState[T])) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// SetKey moves the fetcher to key. If key differs from the current key the
// state resets to loading and a new fetch is issued. Same key is a no-op.
func (f *Fetcher[K, T]) SetKey(key K) {
	f.mu.Lock()
	if f.closed || (f.hasKey && f.key == key) {
		f.mu.Unlock()
		return
	}
	f.gen++
	gen := f.gen
	f.key, f.hasKey = key, true
	f.status = StatusLoading
	f.state = FetchState[T]{IsLoading: true}
	f.wg.Add(1)
	f.mu.Unlock()

	f.notify()
	go f.run(gen, key)
}

func (f *Fetcher[K, T]) run(gen uint64, key K) {
	defer f.wg.Done()

	data, err := f.fetch(f.ctx, key)

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		f.logger.Debug("discarding stale fetch result", "key", key, "generation", gen)
		return
	}
	if err != nil {
		f.status = StatusFailed
		f.state = FetchState[T]{Data: f.state.Data, Err: err.Error()}
	} else {
		f.status = StatusSuccess
		f.state = FetchState[T]{Data: &data}
	}
	f.mu.Unlock()

	f.notify()
}

// notify delivers the latest snapshot; serialized so observers never see
// an older state after a newer one.
func (f *Fetcher[K, T]) notify() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	fn, key, s, closed := f.onChange, f.key, f.state, f.closed
	f.mu.Unlock()

	if fn != nil && !closed {
		fn(key, s)
	}
}

// State returns the current fetch state
func (f *Fetcher[K, T]) State() FetchState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Status returns the current phase
func (f *Fetcher[K, T]) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Key returns the current key and whether one was ever set
func (f *Fetcher[K, T]) Key() (K, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key, f.hasKey
}

// Close detaches the consumer. Pending results are discarded and further
// SetKey calls are ignored.
func (f *Fetcher[K, T]) Close() {
	f.mu.Lock()
	f.closed = true
	f.gen++
	f.mu.Unlock()
}

// Wait blocks until every issued fetch has returned
func (f *Fetcher[K, T]) Wait() {
	f.wg.Wait()
}
