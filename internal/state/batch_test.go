package state

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll_EmptyMakesNoCalls(t *testing.T) {
	var calls atomic.Int32
	got, err := FetchAll(context.Background(), []int{}, func(ctx context.Context, id int) (string, error) {
		calls.Add(1)
		return "", nil
	})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFetchAll_PreservesInputOrder(t *testing.T) {
	ids := []int{3, 1, 2}
	got, err := FetchAll(context.Background(), ids, func(ctx context.Context, id int) (string, error) {
		// Later ids finish first
		time.Sleep(time.Duration(4-id) * 5 * time.Millisecond)
		return fmt.Sprintf("show-%d", id), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"show-3", "show-1", "show-2"}, got)
}

func TestFetchAll_OneFailureFailsBatch(t *testing.T) {
	boom := errors.New("show 2 unavailable")

	got, err := FetchAll(context.Background(), []int{1, 2, 3}, func(ctx context.Context, id int) (string, error) {
		if id == 2 {
			return "", boom
		}
		return fmt.Sprintf("show-%d", id), nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "show 2 unavailable", err.Error())
	assert.Nil(t, got, "no partial results")
}

func TestFetchAll_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := FetchAll(context.Background(), []int{1, 2, 3, 4}, func(ctx context.Context, id int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			inFlight.Add(-1)
			return id, nil
		})
		done <- err
	}()

	require.Eventually(t, func() bool { return peak.Load() == 4 }, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-done)
}
