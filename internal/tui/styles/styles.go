package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Teal       = lipgloss.Color("#3C948B")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Gold       = lipgloss.Color("#F5C518")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Teal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Teal).
			Bold(true).
			Padding(0, 1)
)

// Star indicator
const (
	StarChar   = "★"
	NoStarChar = "☆"
)

var (
	StarStyle = lipgloss.NewStyle().Foreground(Gold)

	Star   = StarStyle.Render(StarChar)
	NoStar = DimStyle.Render(NoStarChar)
)

// RenderStar renders the starred indicator
func RenderStar(starred bool) string {
	if starred {
		return Star
	}
	return NoStar
}

// Panel styles
var (
	ViewStyle = lipgloss.NewStyle().
			Padding(1, 2)

	SearchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Teal).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Teal).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Teal)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Teal).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Teal).
				Bold(true)
)

// SpinnerFrames are the frames of the loading indicator
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerStyle colors the loading indicator
var SpinnerStyle = lipgloss.NewStyle().Foreground(Teal)

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled separately so ANSI resets do not clear the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(SlateLight)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	margin := lipgloss.NewStyle()
	if selected {
		margin = margin.Background(SlateLight)
	}

	// Subtract 2 for left/right margin
	if pad := width - visible - 2; pad > 0 {
		b.WriteString(margin.Render(strings.Repeat(" ", pad)))
	}

	return margin.Render(" ") + b.String() + margin.Render(" ")
}

// RowPart is a segment of a row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
