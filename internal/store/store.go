// Package store provides the durable key-value layer behind persisted state.
//
// Two scopes exist. ScopePersistent survives indefinitely. ScopeSession is
// namespaced by a session id and is discarded when the session ends (the
// backend is closed with EndSessionOnClose) or when it has not been touched
// for the configured TTL. Values are opaque strings; callers encode them.
package store

import (
	"fmt"
	"time"

	"github.com/mmcdole/boxoffice/internal/domain"
)

// Scope selects the lifetime of a stored value.
type Scope int

const (
	ScopeSession Scope = iota
	ScopePersistent
)

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopePersistent:
		return "persistent"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Backend is a two-scope string store.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(scope Scope, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(scope Scope, key, value string) error

	Close() error
}

// KV is a single scope of a Backend. State containers depend on this so a
// test can hand them an in-memory fake.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type scopedKV struct {
	backend Backend
	scope   Scope
}

func (s scopedKV) Get(key string) (string, bool, error) { return s.backend.Get(s.scope, key) }
func (s scopedKV) Set(key, value string) error          { return s.backend.Set(s.scope, key, value) }

// Session returns the session scope of b.
func Session(b Backend) KV { return scopedKV{backend: b, scope: ScopeSession} }

// Persistent returns the persistent scope of b.
func Persistent(b Backend) KV { return scopedKV{backend: b, scope: ScopePersistent} }

// Options controls session handling for the file-backed stores.
type Options struct {
	// SessionID namespaces ScopeSession. Empty means "default".
	SessionID string

	// SessionTTL purges other sessions idle for longer than this on open.
	// Zero disables purging.
	SessionTTL time.Duration

	// EndSessionOnClose deletes this session's values on Close.
	EndSessionOnClose bool
}

func (o Options) sessionID() string {
	if o.SessionID == "" {
		return "default"
	}
	return o.SessionID
}

// Error reports a failed store operation. It matches domain.ErrStorage.
type Error struct {
	Op    string
	Scope Scope
	Key   string
	Err   error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s (%s): %v", e.Op, e.Scope, e.Err)
	}
	return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Scope, e.Key, e.Err)
}

func (e *Error) Unwrap() []error { return []error{domain.ErrStorage, e.Err} }

func wrapErr(op string, scope Scope, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Scope: scope, Key: key, Err: err}
}

// WrapError is wrapErr for backends living outside this package.
func WrapError(op string, scope Scope, key string, err error) error {
	return wrapErr(op, scope, key, err)
}
