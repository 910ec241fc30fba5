package store

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Memory is an in-process Backend. It backs storage.backend=memory and
// stands in for the file stores in tests.
type Memory struct {
	mu        sync.RWMutex
	data      map[Scope]map[string]string
	failRead  error
	failWrite error
	writes    int
	closed    bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: map[Scope]map[string]string{
			ScopeSession:    {},
			ScopePersistent: {},
		},
	}
}

// FailReads makes every subsequent Get fail with err (nil restores).
func (m *Memory) FailReads(err error) *Memory {
	m.mu.Lock()
	m.failRead = err
	m.mu.Unlock()
	return m
}

// FailWrites makes every subsequent Set fail with err (nil restores).
func (m *Memory) FailWrites(err error) *Memory {
	m.mu.Lock()
	m.failWrite = err
	m.mu.Unlock()
	return m
}

// Writes returns the number of successful Set calls.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *Memory) Get(scope Scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, wrapErr("get", scope, key, ErrClosed)
	}
	if m.failRead != nil {
		return "", false, wrapErr("get", scope, key, m.failRead)
	}
	v, ok := m.data[scope][key]
	return v, ok, nil
}

func (m *Memory) Set(scope Scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return wrapErr("set", scope, key, ErrClosed)
	}
	if m.failWrite != nil {
		return wrapErr("set", scope, key, m.failWrite)
	}
	bucket, ok := m.data[scope]
	if !ok {
		bucket = make(map[string]string)
		m.data[scope] = bucket
	}
	bucket[key] = value
	m.writes++
	return nil
}

// EndSession drops everything in the session scope.
func (m *Memory) EndSession() {
	m.mu.Lock()
	m.data[ScopeSession] = make(map[string]string)
	m.mu.Unlock()
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
