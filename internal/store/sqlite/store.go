// Package sqlite implements store.Backend on top of an SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/boxoffice/internal/store"
	_ "modernc.org/sqlite"
)

// Store implements store.Backend using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	opts   store.Options
	closed bool
}

// Open opens (creating if needed) the database at path.
func Open(path string, opts store.Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, store.WrapError("open", store.ScopePersistent, "", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, store.WrapError("open", store.ScopePersistent, "", fmt.Errorf("failed to open database: %w", err))
	}
	return newStore(db, opts)
}

// NewInMemory creates a store backed by a private in-memory database (useful for testing).
func NewInMemory(opts store.Options) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Each connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	return newStore(db, opts)
}

func newStore(db *sql.DB, opts store.Options) (*Store, error) {
	s := &Store{db: db, opts: opts}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, store.WrapError("open", store.ScopePersistent, "", fmt.Errorf("failed to initialize database: %w", err))
	}
	now := time.Now()
	if err := s.purgeIdleSessions(now); err != nil {
		db.Close()
		return nil, store.WrapError("open", store.ScopeSession, "", err)
	}
	if err := s.touch(context.Background(), s.db, now); err != nil {
		db.Close()
		return nil, store.WrapError("open", store.ScopeSession, "", err)
	}
	return s, nil
}

// initialize creates the necessary tables.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv_persistent (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS kv_session (
			session_id TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			PRIMARY KEY (session_id, key)
		);

		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			touched_at INTEGER NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) sessionID() string {
	if s.opts.SessionID == "" {
		return "default"
	}
	return s.opts.SessionID
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) touch(ctx context.Context, db execer, now time.Time) error {
	_, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (session_id, touched_at) VALUES (?, ?)",
		s.sessionID(), now.Unix(),
	)
	return err
}

func (s *Store) purgeIdleSessions(now time.Time) error {
	if s.opts.SessionTTL <= 0 {
		return nil
	}
	cutoff := now.Add(-s.opts.SessionTTL).Unix()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM kv_session WHERE session_id IN (
			SELECT session_id FROM sessions WHERE touched_at < ? AND session_id != ?
		)`, cutoff, s.sessionID()); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE touched_at < ? AND session_id != ?", cutoff, s.sessionID()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(scope store.Scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, store.WrapError("get", scope, key, store.ErrClosed)
	}

	var (
		value string
		err   error
	)
	if scope == store.ScopeSession {
		err = s.db.QueryRow(
			"SELECT value FROM kv_session WHERE session_id = ? AND key = ?",
			s.sessionID(), key,
		).Scan(&value)
	} else {
		err = s.db.QueryRow("SELECT value FROM kv_persistent WHERE key = ?", key).Scan(&value)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.WrapError("get", scope, key, err)
	}
	return value, true, nil
}

func (s *Store) Set(scope store.Scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.WrapError("set", scope, key, store.ErrClosed)
	}

	ctx := context.Background()
	if scope != store.ScopeSession {
		_, err := s.db.ExecContext(ctx,
			"INSERT OR REPLACE INTO kv_persistent (key, value) VALUES (?, ?)",
			key, value,
		)
		return store.WrapError("set", scope, key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.WrapError("set", scope, key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv_session (session_id, key, value) VALUES (?, ?, ?)",
		s.sessionID(), key, value,
	); err != nil {
		return store.WrapError("set", scope, key, err)
	}
	if err := s.touch(ctx, tx, time.Now()); err != nil {
		return store.WrapError("set", scope, key, err)
	}
	return store.WrapError("set", scope, key, tx.Commit())
}

// EndSession deletes every value in this session's scope.
func (s *Store) EndSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endSessionLocked()
}

func (s *Store) endSessionLocked() error {
	if _, err := s.db.Exec("DELETE FROM kv_session WHERE session_id = ?", s.sessionID()); err != nil {
		return store.WrapError("end session", store.ScopeSession, "", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions WHERE session_id = ?", s.sessionID()); err != nil {
		return store.WrapError("end session", store.ScopeSession, "", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var endErr error
	if s.opts.EndSessionOnClose {
		endErr = s.endSessionLocked()
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	return endErr
}
