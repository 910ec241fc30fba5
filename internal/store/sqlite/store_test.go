package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	s, err := NewInMemory(store.Options{})
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(store.ScopePersistent, "shows")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(store.ScopePersistent, "shows", "[1]"))
	require.NoError(t, s.Set(store.ScopePersistent, "shows", "[1,2]"))

	v, ok, err := s.Get(store.ScopePersistent, "shows")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,2]", v)
}

func TestStore_ScopesAreIndependent(t *testing.T) {
	s, err := NewInMemory(store.Options{SessionID: "a"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(store.ScopeSession, "k", "session"))
	require.NoError(t, s.Set(store.ScopePersistent, "k", "persistent"))

	v, _, err := s.Get(store.ScopeSession, "k")
	require.NoError(t, err)
	assert.Equal(t, "session", v)

	v, _, err = s.Get(store.ScopePersistent, "k")
	require.NoError(t, err)
	assert.Equal(t, "persistent", v)
}

func TestStore_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.sqlite")

	s, err := Open(path, store.Options{SessionID: "tty1", EndSessionOnClose: true})
	require.NoError(t, err)
	require.NoError(t, s.Set(store.ScopePersistent, "shows", "[5,9]"))
	require.NoError(t, s.Set(store.ScopeSession, "lastQuery", `"girls"`))
	require.NoError(t, s.Close())

	s, err = Open(path, store.Options{SessionID: "tty1"})
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(store.ScopePersistent, "shows")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[5,9]", v)

	_, ok, err = s.Get(store.ScopeSession, "lastQuery")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClosedReturnsStorageError(t *testing.T) {
	s, err := NewInMemory(store.Options{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set(store.ScopePersistent, "shows", "[]")
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, store.ErrClosed)

	_, _, err = s.Get(store.ScopeSession, "lastQuery")
	assert.ErrorIs(t, err, store.ErrClosed)
}
