package state

import (
	"testing"

	"github.com/mmcdole/boxoffice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterAction int

func reduceCounter(n int, delta counterAction) (int, bool) {
	if delta == 0 {
		return n, false
	}
	return n + int(delta), true
}

func newCounter(kv store.KV) *Reducer[int, counterAction] {
	return NewReducer(kv, ReducerConfig[int, counterAction]{
		Key:     "counter",
		Reduce:  reduceCounter,
		Initial: 10,
	})
}

func TestReducer_PersistsEveryTransition(t *testing.T) {
	mem := store.NewMemory()
	r := newCounter(store.Persistent(mem))
	assert.Equal(t, 10, r.State())

	require.NoError(t, r.Dispatch(5))
	require.NoError(t, r.Dispatch(-2))

	assert.Equal(t, 13, r.State())
	assert.Equal(t, 2, mem.Writes())

	v, _, err := mem.Get(store.ScopePersistent, "counter")
	require.NoError(t, err)
	assert.Equal(t, "13", v)
}

func TestReducer_UnchangedDoesNotWrite(t *testing.T) {
	mem := store.NewMemory()
	r := newCounter(store.Persistent(mem))

	require.NoError(t, r.Dispatch(0))
	assert.Equal(t, 0, mem.Writes())
}

func TestReducer_SeededFromStore(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Set(store.ScopePersistent, "counter", "42"))

	r := newCounter(store.Persistent(mem))
	assert.Equal(t, 42, r.State())
}

func TestReducer_StoreIsNotReobserved(t *testing.T) {
	mem := store.NewMemory()
	r := newCounter(store.Persistent(mem))

	require.NoError(t, mem.Set(store.ScopePersistent, "counter", "99"))
	assert.Equal(t, 10, r.State())
}

func TestReducer_Subscribe(t *testing.T) {
	r := newCounter(store.Persistent(store.NewMemory()))

	var seen []int
	cancel := r.Subscribe(func(n int) { seen = append(seen, n) })

	require.NoError(t, r.Dispatch(1))
	require.NoError(t, r.Dispatch(0))
	require.NoError(t, r.Dispatch(1))
	cancel()
	require.NoError(t, r.Dispatch(1))

	assert.Equal(t, []int{11, 12}, seen)
}
