package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBolt(t *testing.T, path string, opts Options) *Bolt {
	t.Helper()
	s, err := OpenBolt(path, opts)
	require.NoError(t, err)
	return s
}

func TestBolt_GetSet(t *testing.T) {
	s := openTestBolt(t, filepath.Join(t.TempDir(), "boxoffice.db"), Options{})
	defer s.Close()

	_, ok, err := s.Get(ScopePersistent, "shows")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ScopePersistent, "shows", "[1,2]"))

	v, ok, err := s.Get(ScopePersistent, "shows")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,2]", v)
}

func TestBolt_ScopesAreIndependent(t *testing.T) {
	s := openTestBolt(t, filepath.Join(t.TempDir(), "boxoffice.db"), Options{SessionID: "a"})
	defer s.Close()

	require.NoError(t, s.Set(ScopeSession, "k", "session"))
	require.NoError(t, s.Set(ScopePersistent, "k", "persistent"))

	v, _, err := s.Get(ScopeSession, "k")
	require.NoError(t, err)
	assert.Equal(t, "session", v)

	v, _, err = s.Get(ScopePersistent, "k")
	require.NoError(t, err)
	assert.Equal(t, "persistent", v)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.db")

	s := openTestBolt(t, path, Options{SessionID: "tty1"})
	require.NoError(t, s.Set(ScopePersistent, "shows", "[5,9]"))
	require.NoError(t, s.Set(ScopeSession, "lastQuery", `"girls"`))
	require.NoError(t, s.Close())

	s = openTestBolt(t, path, Options{SessionID: "tty1"})
	defer s.Close()

	v, ok, err := s.Get(ScopePersistent, "shows")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[5,9]", v)

	v, ok, err = s.Get(ScopeSession, "lastQuery")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"girls"`, v)
}

func TestBolt_SessionsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.db")

	s := openTestBolt(t, path, Options{SessionID: "tty1"})
	require.NoError(t, s.Set(ScopeSession, "lastQuery", `"girls"`))
	require.NoError(t, s.Close())

	s = openTestBolt(t, path, Options{SessionID: "tty2"})
	defer s.Close()

	_, ok, err := s.Get(ScopeSession, "lastQuery")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBolt_EndSessionOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.db")

	s := openTestBolt(t, path, Options{SessionID: "tui", EndSessionOnClose: true})
	require.NoError(t, s.Set(ScopeSession, "lastQuery", `"girls"`))
	require.NoError(t, s.Set(ScopePersistent, "shows", "[1]"))
	require.NoError(t, s.Close())

	s = openTestBolt(t, path, Options{SessionID: "tui"})
	defer s.Close()

	_, ok, err := s.Get(ScopeSession, "lastQuery")
	require.NoError(t, err)
	assert.False(t, ok, "session values must not outlive the session")

	_, ok, err = s.Get(ScopePersistent, "shows")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBolt_PurgesIdleSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.db")

	s := openTestBolt(t, path, Options{SessionID: "old"})
	require.NoError(t, s.Set(ScopeSession, "lastQuery", `"x"`))
	require.NoError(t, s.Close())

	time.Sleep(1100 * time.Millisecond)

	// A second session with a tiny TTL sweeps the idle one
	s = openTestBolt(t, path, Options{SessionID: "new", SessionTTL: time.Millisecond})
	require.NoError(t, s.Close())

	s = openTestBolt(t, path, Options{SessionID: "old"})
	defer s.Close()
	_, ok, err := s.Get(ScopeSession, "lastQuery")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBolt_ErrorsMatchStorageSentinel(t *testing.T) {
	s := openTestBolt(t, filepath.Join(t.TempDir(), "boxoffice.db"), Options{})
	require.NoError(t, s.Close())

	err := s.Set(ScopePersistent, "shows", "[]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "set", storeErr.Op)
	assert.Equal(t, "shows", storeErr.Key)
}
