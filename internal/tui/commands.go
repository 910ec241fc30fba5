package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/service"
)

// Command factories for async operations

// SearchCmd queries the catalog
func SearchCmd(svc *service.CatalogService, gen int, kind domain.SearchKind, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.Search(ctx, kind, query)
		return SearchResultsMsg{Gen: gen, Query: query, Kind: kind, Results: results, Err: err}
	}
}

// LoadStarredCmd fetches every starred show at once
func LoadStarredCmd(svc *service.CatalogService, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shows, err := svc.StarredShows(ctx)
		return StarredLoadedMsg{Gen: gen, Shows: shows, Err: err}
	}
}

// ToggleStarCmd stars or unstars a show
func ToggleStarCmd(svc *service.CatalogService, id int, title string) tea.Cmd {
	return func() tea.Msg {
		starred, err := svc.ToggleStar(id)
		return StarToggledMsg{ShowID: id, Title: title, Starred: starred, Err: err}
	}
}

// WaitForShowCmd waits for the next detail fetch update
func WaitForShowCmd(o *ShowObserver) tea.Cmd {
	return func() tea.Msg {
		msg, ok := o.Next()
		if !ok {
			return nil
		}
		return msg
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
