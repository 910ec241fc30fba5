package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/boxoffice/internal/store"
)

// LastQueryKey is the session key holding the last search text
const LastQueryKey = "lastQuery"

// Scalar is a single string seeded from a store.KV (JSON string encoding)
// and written back on every Set. No history, no transformation.
type Scalar struct {
	mu     sync.RWMutex
	kv     store.KV
	key    string
	value  string
	logger *slog.Logger
}

// NewScalar creates a scalar initialized from key, or "" when absent
func NewScalar(kv store.KV, key string, opts ...Option) *Scalar {
	o := buildOptions(opts)
	s := &Scalar{kv: kv, key: key, logger: o.logger}

	raw, ok, err := kv.Get(key)
	switch {
	case err != nil:
		s.logger.Warn("failed to read persisted value", "key", key, "error", err)
	case ok && raw != "":
		if err := json.Unmarshal([]byte(raw), &s.value); err != nil {
			s.logger.Warn("failed to decode persisted value", "key", key, "error", err)
			s.value = ""
		}
	}
	return s
}

// LastQuery binds a Scalar to the session's last search text
func LastQuery(session store.KV, opts ...Option) *Scalar {
	return NewScalar(session, LastQueryKey, opts...)
}

// Value returns the current value
func (s *Scalar) Value() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and writes it to the store
func (s *Scalar) Set(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Error("failed to persist value", "key", s.key, "error", err)
		return err
	}
	return nil
}
