package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/tui/styles"
)

// User-visible messages
const (
	loadingText   = "Loading..."
	noResultsText = "No results found"
	noStarredText = "No shows were added"
)

func errorText(msg string) string {
	return "An error occurred: " + msg
}

// castLimit caps the cast list on the detail view
const castLimit = 10

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return loadingText
	}

	var body string
	switch {
	case m.ShowHelp:
		body = m.renderHelp()
	case m.Screen == ScreenDetail:
		body = m.renderDetail()
	case m.Screen == ScreenStarred:
		body = m.renderStarred()
	default:
		body = m.renderSearch()
	}

	bodyHeight := max(m.Height-ChromeHeight, 1)
	body = lipgloss.NewStyle().
		Width(m.Width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		PaddingLeft(1).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	tab := func(label string, active bool) string {
		if active {
			return styles.TabActiveStyle.Render(label)
		}
		return styles.TabInactiveStyle.Render(label)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HeaderStyle.Render("boxoffice"),
		" ",
		tab("1 Search", m.Screen == ScreenSearch || (m.Screen == ScreenDetail && m.backScreen == ScreenSearch)),
		tab("2 Starred", m.Screen == ScreenStarred || (m.Screen == ScreenDetail && m.backScreen == ScreenStarred)),
	)
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.AccentStyle.Render(m.StatusMsg)
	}

	parts := make([]string, 0, len(m.Keys.ShortHelp()))
	for _, b := range m.Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(strings.Join(parts, "  "))
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, col := range m.Keys.FullHelp() {
		for _, binding := range col {
			h := binding.Help()
			fmt.Fprintf(&b, "  %s  %s\n",
				styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
				styles.HelpDescStyle.Render(h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("press any key to close"))
	return b.String()
}

func (m Model) spinner() string {
	frame := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
	return styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render(loadingText)
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.SearchBoxStyle.Render(m.Input.View()))
	b.WriteString("\n")

	radio := func(label string, on bool) string {
		if on {
			return styles.AccentStyle.Render("(•) " + label)
		}
		return styles.DimStyle.Render("( ) " + label)
	}
	b.WriteString(" " + radio("Shows", m.Kind == domain.SearchShows) + "  " + radio("Actors", m.Kind == domain.SearchPeople))
	b.WriteString("\n\n")

	switch {
	case m.Searching:
		b.WriteString(m.spinner())
	case m.SearchErr != "":
		b.WriteString(styles.ErrorStyle.Render(errorText(m.SearchErr)))
	case m.Searched && len(m.Results) == 0:
		b.WriteString(styles.DimStyle.Render(noResultsText))
	default:
		// Search box (3) + radio (1) + blank (1)
		rows := max(m.Height-ChromeHeight-5, 1)
		b.WriteString(m.renderResults(rows))
	}
	return b.String()
}

func (m Model) renderResults(rows int) string {
	starred := m.Svc.Starred()
	start := scrollOffset(m.cursor, len(m.Results), rows)
	end := min(start+rows, len(m.Results))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.Results[i]
		selected := i == m.cursor && !m.Input.Focused()

		var parts []styles.RowPart
		switch {
		case r.Show != nil:
			parts = showRow(*r.Show, starred.IsStarred(r.Show.ID))
		case r.Person != nil:
			parts = []styles.RowPart{
				{Text: "  "},
				{Text: r.Person.Name},
				{Text: "  " + r.Person.GetDescription(), Foreground: &styles.DimGray},
			}
		}
		lines = append(lines, styles.RenderListRow(parts, selected, m.Width-2))
	}
	return strings.Join(lines, "\n")
}

func showRow(s domain.Show, isStarred bool) []styles.RowPart {
	star := styles.RowPart{Text: styles.NoStarChar + " ", Foreground: &styles.DimGray}
	if isStarred {
		star = styles.RowPart{Text: styles.StarChar + " ", Foreground: &styles.Gold}
	}
	return []styles.RowPart{
		star,
		{Text: s.Name},
		{Text: "  " + s.GetDescription(), Foreground: &styles.DimGray},
	}
}

func (m Model) renderDetail() string {
	st := m.Detail.State
	switch {
	case st.IsLoading:
		return m.spinner()
	case st.Err != "":
		return styles.ErrorStyle.Render(errorText(st.Err))
	case st.Data == nil || *st.Data == nil:
		return ""
	}
	show := *st.Data
	width := max(m.Width-4, 20)

	var b strings.Builder
	b.WriteString(styles.RenderStar(m.Svc.Starred().IsStarred(show.ID)))
	b.WriteString(" ")
	b.WriteString(styles.TitleStyle.Render(show.Name))
	b.WriteString("\n")
	if desc := show.GetDescription(); desc != "" {
		b.WriteString(styles.SubtitleStyle.Render(desc))
		b.WriteString("\n")
	}

	meta := []string{"Rating " + show.Rating.String()}
	if len(show.Genres) > 0 {
		meta = append(meta, strings.Join(show.Genres, ", "))
	}
	if show.Premiered != "" {
		meta = append(meta, "Premiered "+show.Premiered)
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if summary := show.PlainSummary(); summary != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(summary))
		b.WriteString("\n\n")
	}

	if seasons := show.Seasons(); len(seasons) > 0 {
		b.WriteString(styles.AccentStyle.Render(fmt.Sprintf("Seasons (%d)", len(seasons))))
		b.WriteString("\n")
		for _, s := range seasons {
			line := "  " + s.DisplayTitle()
			if n := s.EpisodeCount(); n > 0 {
				line += fmt.Sprintf("  %d episodes", n)
			}
			if s.PremiereDate != "" {
				line += styles.DimStyle.Render("  " + s.PremiereDate + " – " + s.EndDate)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if cast := show.Cast(); len(cast) > 0 {
		b.WriteString(styles.AccentStyle.Render("Cast"))
		b.WriteString("\n")
		for _, c := range cast[:min(len(cast), castLimit)] {
			b.WriteString("  " + c.Person.Name + styles.DimStyle.Render(" as "+c.Character.Name) + "\n")
		}
	}

	return b.String()
}

func (m Model) renderStarred() string {
	var b strings.Builder

	if m.Filtering || m.FilterInput.Value() != "" {
		b.WriteString(styles.FilterPromptStyle.Render(m.FilterInput.View()))
		b.WriteString("\n\n")
	}

	switch {
	case m.StarredLoading:
		b.WriteString(m.spinner())
	case m.StarredErr != "":
		b.WriteString(styles.ErrorStyle.Render(errorText(m.StarredErr)))
	case len(m.Starred) == 0:
		b.WriteString(styles.DimStyle.Render(noStarredText))
	default:
		visible := m.visibleStarred()
		rows := max(m.Height-ChromeHeight-2, 1)
		start := scrollOffset(m.starredCursor, len(visible), rows)
		end := min(start+rows, len(visible))

		lines := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			selected := i == m.starredCursor && !m.Filtering
			lines = append(lines, styles.RenderListRow(showRow(*visible[i], true), selected, m.Width-2))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

// scrollOffset returns the first visible row keeping cursor on screen
func scrollOffset(cursor, total, rows int) int {
	if total <= rows || cursor < rows {
		return 0
	}
	return min(cursor-rows+1, total-rows)
}
