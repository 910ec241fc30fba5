package tui

import (
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SearchResultsMsg signals that a search completed
type SearchResultsMsg struct {
	Gen     int
	Query   string
	Kind    domain.SearchKind
	Results []domain.SearchResult
	Err     error
}

// ShowFetchMsg carries the latest state of the detail fetcher
type ShowFetchMsg struct {
	ShowID int
	State  state.FetchState[*domain.Show]
}

// StarredLoadedMsg signals that the starred shows were fetched.
// Gen identifies the load so late results for an older starred set are dropped.
type StarredLoadedMsg struct {
	Gen   int
	Shows []*domain.Show
	Err   error
}

// StarToggledMsg signals that a show was starred or unstarred
type StarToggledMsg struct {
	ShowID  int
	Title   string
	Starred bool
	Err     error
}

// StatusMsg displays a status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// TickMsg advances the spinner
type TickMsg struct{}
