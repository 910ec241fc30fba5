package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/service"
	"github.com/mmcdole/boxoffice/internal/state"
)

// Screen identifies the active view
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenDetail
	ScreenStarred
)

// Vertical chrome: header, blank line, footer
const ChromeHeight = 3

// Model is the main Bubble Tea model for the application
type Model struct {
	Svc  *service.CatalogService
	Keys KeyMap

	Screen     Screen
	backScreen Screen // where Back leaves the detail view for
	ShowHelp bool
	Ready    bool

	// Dimensions
	Width  int
	Height int

	// Search
	Input     textinput.Model
	Kind      domain.SearchKind
	Results   []domain.SearchResult
	Searched  bool
	Searching bool
	SearchErr string
	searchGen int
	cursor    int

	// Detail, driven by a fetcher keyed by show id
	fetcher  *state.Fetcher[int, *domain.Show]
	observer *ShowObserver
	Detail   ShowFetchMsg

	// Starred
	Starred        []*domain.Show
	StarredLoading bool
	StarredErr     string
	starredGen     int
	starredCursor  int
	FilterInput    textinput.Model
	Filtering      bool
	filteredIdx    []int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates the application model. The search box starts with the
// session's last query.
func NewModel(svc *service.CatalogService, kind domain.SearchKind) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder(kind)
	ti.CharLimit = 200
	ti.SetValue(svc.LastQuery())
	ti.Focus()

	fi := textinput.New()
	fi.Prompt = "/"
	fi.CharLimit = 100

	observer := NewShowObserver()
	fetcher := svc.NewShowFetcher()
	fetcher.OnChange(observer.OnChange)

	return Model{
		Svc:         svc,
		Keys:        DefaultKeyMap(),
		Screen:      ScreenSearch,
		Input:       ti,
		Kind:        kind,
		fetcher:     fetcher,
		observer:    observer,
		FilterInput: fi,
	}
}

// Close detaches the detail fetcher; results still in flight are dropped
func (m Model) Close() {
	m.fetcher.Close()
	m.observer.Close()
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		TickCmd(100*time.Millisecond),
		WaitForShowCmd(m.observer),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Input.Width = max(msg.Width-12, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case SearchResultsMsg:
		if msg.Gen != m.searchGen {
			return m, nil
		}
		m.Searching = false
		if msg.Err != nil {
			m.SearchErr = msg.Err.Error()
			return m, nil
		}
		m.SearchErr = ""
		m.Searched = true
		m.Results = msg.Results
		m.cursor = 0
		return m, nil

	case ShowFetchMsg:
		// The message only signals a change; a closed fetcher's last update
		// may still be queued, so the state is read from the live one.
		if m.Screen == ScreenDetail && msg.ShowID == m.Detail.ShowID {
			m.Detail.State = m.fetcher.State()
		}
		return m, WaitForShowCmd(m.observer)

	case StarredLoadedMsg:
		if msg.Gen != m.starredGen {
			return m, nil
		}
		m.StarredLoading = false
		if msg.Err != nil {
			m.StarredErr = msg.Err.Error()
			return m, nil
		}
		m.StarredErr = ""
		m.Starred = msg.Shows
		m.applyFilter()
		m.starredCursor = min(m.starredCursor, max(len(m.visibleStarred())-1, 0))
		return m, nil

	case StarToggledMsg:
		if msg.Err != nil {
			return m.setStatus(fmt.Sprintf("An error occurred: %v", msg.Err), true)
		}
		verb := "Unstarred"
		if msg.Starred {
			verb = "Starred"
		}
		var cmd tea.Cmd
		m, cmd = m.setStatus(verb+": "+msg.Title, false)
		if m.Screen == ScreenStarred {
			reload := m.loadStarred()
			return m, tea.Batch(cmd, reload)
		}
		return m, cmd

	case ErrMsg:
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return m, ClearStatusCmd(delay)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.Screen == ScreenSearch && m.Input.Focused() {
		return m.handleInputKey(msg)
	}
	if m.Screen == ScreenStarred && m.Filtering {
		return m.handleFilterKey(msg)
	}

	if m.ShowHelp {
		// Any key closes help
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, m.Keys.SearchView):
		m.switchScreen(ScreenSearch)
		return m, nil
	case key.Matches(msg, m.Keys.StarredView):
		m.switchScreen(ScreenStarred)
		cmd := m.loadStarred()
		return m, cmd
	}

	switch m.Screen {
	case ScreenSearch:
		return m.handleSearchKey(msg)
	case ScreenDetail:
		return m.handleDetailKey(msg)
	case ScreenStarred:
		return m.handleStarredKey(msg)
	}
	return m, nil
}

// handleInputKey routes keys to the focused search box
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Input.Blur()
		cmd := m.submitSearch()
		return m, cmd
	case tea.KeyEsc:
		m.Input.Blur()
		return m, nil
	case tea.KeyTab:
		m.toggleKind()
		return m, nil
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	after := m.Input.Value()
	if after == before {
		return m, cmd
	}

	// Saved inline so the stored query is always the last one typed
	if err := m.Svc.SetLastQuery(after); err != nil {
		var status tea.Cmd
		m, status = m.setStatus(ErrMsg{Err: err, Context: "saving query"}.Error(), true)
		return m, tea.Batch(cmd, status)
	}
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Filtering = false
		m.FilterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.Filtering = false
		m.FilterInput.Blur()
		m.FilterInput.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	m.applyFilter()
	m.starredCursor = 0
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Focus):
		m.Input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.Keys.ToggleKind):
		m.toggleKind()
		return m, nil
	case key.Matches(msg, m.Keys.Refresh):
		cmd := m.submitSearch()
		return m, cmd
	case key.Matches(msg, m.Keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.Keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.Results)-1, 0))
	case key.Matches(msg, m.Keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.Keys.End):
		m.cursor = max(len(m.Results)-1, 0)
	case key.Matches(msg, m.Keys.Enter):
		if r := m.selectedResult(); r != nil && r.Show != nil {
			return m.openDetail(r.Show.ID)
		}
	case key.Matches(msg, m.Keys.Star):
		if r := m.selectedResult(); r != nil && r.Show != nil {
			return m, ToggleStarCmd(m.Svc, r.Show.ID, r.Show.Name)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.switchScreen(m.backScreen)
		if m.Screen == ScreenStarred {
			cmd := m.loadStarred()
			return m, cmd
		}
	case key.Matches(msg, m.Keys.Star):
		if data := m.Detail.State.Data; data != nil && *data != nil {
			show := *data
			return m, ToggleStarCmd(m.Svc, show.ID, show.Name)
		}
	}
	return m, nil
}

func (m Model) handleStarredKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleStarred()

	switch {
	case key.Matches(msg, m.Keys.Filter):
		m.Filtering = true
		m.FilterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.Keys.Refresh):
		cmd := m.loadStarred()
		return m, cmd
	case key.Matches(msg, m.Keys.Up):
		m.starredCursor = max(m.starredCursor-1, 0)
	case key.Matches(msg, m.Keys.Down):
		m.starredCursor = min(m.starredCursor+1, max(len(visible)-1, 0))
	case key.Matches(msg, m.Keys.Home):
		m.starredCursor = 0
	case key.Matches(msg, m.Keys.End):
		m.starredCursor = max(len(visible)-1, 0)
	case key.Matches(msg, m.Keys.Enter):
		if s := m.selectedStarred(); s != nil {
			return m.openDetail(s.ID)
		}
	case key.Matches(msg, m.Keys.Star):
		if s := m.selectedStarred(); s != nil {
			return m, ToggleStarCmd(m.Svc, s.ID, s.Name)
		}
	}
	return m, nil
}

func (m *Model) toggleKind() {
	m.Kind = m.Kind.Toggle()
	m.Input.Placeholder = placeholder(m.Kind)
}

func (m *Model) submitSearch() tea.Cmd {
	q := strings.TrimSpace(m.Input.Value())
	if q == "" {
		return nil
	}
	m.searchGen++
	m.Searching = true
	m.SearchErr = ""
	return SearchCmd(m.Svc, m.searchGen, m.Kind, q)
}

// switchScreen changes the active view. Leaving the detail view drops its
// fetcher so the next open starts a fresh load.
func (m *Model) switchScreen(s Screen) {
	if m.Screen == ScreenDetail && s != ScreenDetail {
		m.fetcher.Close()
		m.fetcher = m.Svc.NewShowFetcher()
		m.fetcher.OnChange(m.observer.OnChange)
		m.Detail = ShowFetchMsg{}
	}
	m.Screen = s
}

// openDetail points the detail fetcher at id
func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	if m.Screen != ScreenDetail {
		m.backScreen = m.Screen
	}
	m.Screen = ScreenDetail
	m.fetcher.SetKey(id)
	m.Detail = ShowFetchMsg{ShowID: id, State: m.fetcher.State()}
	return m, nil
}

// loadStarred refetches every starred show. Results of an earlier load
// that complete later are ignored.
func (m *Model) loadStarred() tea.Cmd {
	m.starredGen++
	m.StarredErr = ""
	if len(m.Svc.Starred().IDs()) == 0 {
		m.Starred = nil
		m.StarredLoading = false
		m.applyFilter()
		return nil
	}
	m.StarredLoading = true
	return LoadStarredCmd(m.Svc, m.starredGen)
}

func (m *Model) applyFilter() {
	m.filteredIdx = filterShows(m.Starred, m.FilterInput.Value())
}

func (m Model) visibleStarred() []*domain.Show {
	if m.FilterInput.Value() == "" {
		return m.Starred
	}
	shows := make([]*domain.Show, len(m.filteredIdx))
	for i, idx := range m.filteredIdx {
		shows[i] = m.Starred[idx]
	}
	return shows
}

func (m Model) selectedStarred() *domain.Show {
	visible := m.visibleStarred()
	if m.starredCursor < 0 || m.starredCursor >= len(visible) {
		return nil
	}
	return visible[m.starredCursor]
}

func (m Model) selectedResult() *domain.SearchResult {
	if m.cursor < 0 || m.cursor >= len(m.Results) {
		return nil
	}
	return &m.Results[m.cursor]
}

func placeholder(kind domain.SearchKind) string {
	if kind == domain.SearchPeople {
		return "Search for people"
	}
	return "Search for shows"
}
