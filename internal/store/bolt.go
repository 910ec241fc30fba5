package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPersistent = []byte("persistent")
	bucketSessions   = []byte("sessions") // session id -> last touched (unix seconds)
)

const sessionBucketPrefix = "session:"

// Bolt implements Backend using BoltDB.
type Bolt struct {
	db   *bolt.DB
	opts Options
	mu   sync.RWMutex // Protects memory cache

	// Read-through cache, written on every Set
	cache map[string]string
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string, opts Options) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, wrapErr("open", ScopePersistent, "", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, wrapErr("open", ScopePersistent, "", fmt.Errorf("failed to open bolt db: %w", err))
	}

	s := &Bolt{db: db, opts: opts, cache: make(map[string]string)}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPersistent, bucketSessions, s.sessionBucket()} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		if err := s.purgeIdleSessions(tx, time.Now()); err != nil {
			return err
		}
		return s.touch(tx, time.Now())
	})
	if err != nil {
		db.Close()
		return nil, wrapErr("open", ScopeSession, "", err)
	}

	return s, nil
}

func (s *Bolt) sessionBucket() []byte {
	return []byte(sessionBucketPrefix + s.opts.sessionID())
}

func (s *Bolt) bucketFor(scope Scope) []byte {
	if scope == ScopeSession {
		return s.sessionBucket()
	}
	return bucketPersistent
}

func (s *Bolt) touch(tx *bolt.Tx, now time.Time) error {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now.Unix()))
	return tx.Bucket(bucketSessions).Put([]byte(s.opts.sessionID()), ts[:])
}

// purgeIdleSessions drops session buckets (other than ours) idle past the TTL.
func (s *Bolt) purgeIdleSessions(tx *bolt.Tx, now time.Time) error {
	if s.opts.SessionTTL <= 0 {
		return nil
	}
	meta := tx.Bucket(bucketSessions)
	cutoff := now.Add(-s.opts.SessionTTL).Unix()
	self := s.opts.sessionID()

	var idle []string
	c := meta.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if string(k) == self || len(v) != 8 {
			continue
		}
		if int64(binary.BigEndian.Uint64(v)) < cutoff {
			idle = append(idle, string(k))
		}
	}

	for _, id := range idle {
		if err := tx.DeleteBucket([]byte(sessionBucketPrefix + id)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		if err := meta.Delete([]byte(id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Bolt) Get(scope Scope, key string) (string, bool, error) {
	bucket := s.bucketFor(scope)
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if v, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, wrapErr("get", scope, key, err)
	}
	if !found {
		return "", false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = value
	s.mu.Unlock()

	return value, true, nil
}

func (s *Bolt) Set(scope Scope, key, value string) error {
	bucket := s.bucketFor(scope)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return err
		}
		if scope == ScopeSession {
			return s.touch(tx, time.Now())
		}
		return nil
	})
	if err != nil {
		return wrapErr("set", scope, key, err)
	}

	// Only cache once the write is durable
	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = value
	s.mu.Unlock()

	return nil
}

// EndSession deletes every value in this session's scope.
func (s *Bolt) EndSession() error {
	bucket := s.sessionBucket()

	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		return tx.Bucket(bucketSessions).Delete([]byte(s.opts.sessionID()))
	})
	return wrapErr("end session", ScopeSession, "", err)
}

func (s *Bolt) Close() error {
	if s.opts.EndSessionOnClose {
		if err := s.EndSession(); err != nil {
			s.db.Close()
			return err
		}
	}
	return s.db.Close()
}
