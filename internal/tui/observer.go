package tui

import (
	"sync"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
)

// ShowObserver adapts Fetcher change callbacks to Bubble Tea messages.
// Updates coalesce: a reader always gets the most recent state, and the
// final state of a fetch is never dropped.
type ShowObserver struct {
	mu      sync.Mutex
	latest  ShowFetchMsg
	pending bool
	closed  bool
	signal  chan struct{}
}

// NewShowObserver creates an observer with nothing pending
func NewShowObserver() *ShowObserver {
	return &ShowObserver{signal: make(chan struct{}, 1)}
}

// OnChange records s as the latest state. It never blocks.
func (o *ShowObserver) OnChange(id int, s state.FetchState[*domain.Show]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.latest = ShowFetchMsg{ShowID: id, State: s}
	o.pending = true

	select {
	case o.signal <- struct{}{}:
	default:
	}
}

// Next blocks until an update is pending and returns it. ok is false once
// the observer is closed.
func (o *ShowObserver) Next() (msg ShowFetchMsg, ok bool) {
	for range o.signal {
		o.mu.Lock()
		msg, ok = o.latest, o.pending
		o.pending = false
		closed := o.closed
		o.mu.Unlock()

		if closed {
			return ShowFetchMsg{}, false
		}
		if ok {
			return msg, true
		}
	}
	return ShowFetchMsg{}, false
}

// Close wakes any waiting reader
func (o *ShowObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.signal)
	}
}
