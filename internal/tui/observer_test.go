package tui

import (
	"testing"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestShowObserver_CoalescesToLatest(t *testing.T) {
	o := NewShowObserver()
	defer o.Close()

	o.OnChange(1, state.FetchState[*domain.Show]{IsLoading: true})
	o.OnChange(2, state.FetchState[*domain.Show]{IsLoading: true})
	o.OnChange(2, state.FetchState[*domain.Show]{Err: "boom"})

	msg, ok := o.Next()
	assert.True(t, ok)
	assert.Equal(t, 2, msg.ShowID)
	assert.Equal(t, "boom", msg.State.Err)
}

func TestShowObserver_Close(t *testing.T) {
	o := NewShowObserver()
	o.Close()
	o.Close()

	// Late callbacks after close are dropped
	o.OnChange(1, state.FetchState[*domain.Show]{})

	_, ok := o.Next()
	assert.False(t, ok)
}
