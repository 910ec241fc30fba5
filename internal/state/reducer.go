package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/boxoffice/internal/store"
)

// ReduceFunc computes the next state. changed must be false when next is
// semantically the current state; only changed transitions are installed
// and persisted. Implementations must not mutate state in place.
type ReduceFunc[S, A any] func(state S, action A) (next S, changed bool)

// ReducerConfig describes a persisted reducer
type ReducerConfig[S, A any] struct {
	// Key the JSON-encoded state is stored under
	Key string

	Reduce  ReduceFunc[S, A]
	Initial S

	// Load, if set, normalizes a state decoded from the store
	Load func(S) S
}

// Reducer is a state container driven by a pure reduction, seeded from a
// store.KV and written back to it synchronously on every transition.
type Reducer[S, A any] struct {
	mu     sync.Mutex
	kv     store.KV
	cfg    ReducerConfig[S, A]
	state  S
	logger *slog.Logger

	subs   map[int]func(S)
	nextID int
}

// NewReducer creates a reducer. The initial state is the decoded value under
// cfg.Key, or cfg.Initial when that is absent, unreadable or undecodable.
func NewReducer[S, A any](kv store.KV, cfg ReducerConfig[S, A], opts ...Option) *Reducer[S, A] {
	o := buildOptions(opts)
	r := &Reducer[S, A]{
		kv:     kv,
		cfg:    cfg,
		logger: o.logger,
		subs:   make(map[int]func(S)),
	}
	r.state = r.load()
	return r
}

func (r *Reducer[S, A]) load() S {
	raw, ok, err := r.kv.Get(r.cfg.Key)
	if err != nil {
		r.logger.Warn("failed to read persisted state, using initial", "key", r.cfg.Key, "error", err)
		return r.cfg.Initial
	}
	if !ok || raw == "" {
		return r.cfg.Initial
	}

	var s S
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		r.logger.Warn("failed to decode persisted state, using initial", "key", r.cfg.Key, "error", err)
		return r.cfg.Initial
	}
	if r.cfg.Load != nil {
		s = r.cfg.Load(s)
	}
	return s
}

// State returns the current state
func (r *Reducer[S, A]) State() S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch applies action. A changed state is installed, written to the
// store, and then delivered to subscribers. A failed write is returned; the
// in-memory transition is kept.
func (r *Reducer[S, A]) Dispatch(action A) error {
	r.mu.Lock()
	next, changed := r.cfg.Reduce(r.state, action)
	if !changed {
		r.mu.Unlock()
		return nil
	}
	r.state = next
	persistErr := r.persist(next)

	subs := make([]func(S), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return persistErr
}

func (r *Reducer[S, A]) persist(s S) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode state %q: %w", r.cfg.Key, err)
	}
	if err := r.kv.Set(r.cfg.Key, string(data)); err != nil {
		r.logger.Error("failed to persist state", "key", r.cfg.Key, "error", err)
		return err
	}
	return nil
}

// Subscribe registers fn to receive every installed state. The returned
// func unregisters it.
func (r *Reducer[S, A]) Subscribe(fn func(S)) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}
