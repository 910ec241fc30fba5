package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/tui/styles"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func starMark(starred bool) string {
	if starred {
		return styles.StarStyle.Render(styles.StarChar)
	}
	return styles.DimStyle.Render(styles.NoStarChar)
}

func printShowLine(out io.Writer, s *domain.Show, starred bool) {
	fmt.Fprintf(out, "%8d  %s  %s", s.ID, starMark(starred), styles.TitleStyle.Render(s.Name))
	if desc := s.GetDescription(); desc != "" {
		fmt.Fprintf(out, "  %s", styles.DimStyle.Render(desc))
	}
	fmt.Fprintln(out)
}

func printPersonLine(out io.Writer, p *domain.Person) {
	fmt.Fprintf(out, "%8d  %s", p.ID, styles.TitleStyle.Render(p.Name))
	if desc := p.GetDescription(); desc != "" {
		fmt.Fprintf(out, "  %s", styles.DimStyle.Render(desc))
	}
	fmt.Fprintln(out)
}

func printShowDetail(out io.Writer, s *domain.Show, starred bool) {
	fmt.Fprintf(out, "%s %s\n", starMark(starred), styles.TitleStyle.Render(s.Name))
	if desc := s.GetDescription(); desc != "" {
		fmt.Fprintln(out, styles.SubtitleStyle.Render(desc))
	}
	fmt.Fprintf(out, "Rating:    %s\n", s.Rating.String())
	if len(s.Genres) > 0 {
		fmt.Fprintf(out, "Genres:    %s\n", strings.Join(s.Genres, ", "))
	}
	if s.Premiered != "" {
		fmt.Fprintf(out, "Premiered: %s\n", s.Premiered)
	}
	if s.URL != "" {
		fmt.Fprintf(out, "URL:       %s\n", s.URL)
	}

	if summary := s.PlainSummary(); summary != "" {
		fmt.Fprintf(out, "\n%s\n", summary)
	}

	if seasons := s.Seasons(); len(seasons) > 0 {
		fmt.Fprintf(out, "\n%s\n", styles.AccentStyle.Render(fmt.Sprintf("Seasons (%d)", len(seasons))))
		for _, season := range seasons {
			fmt.Fprintf(out, "  %s", season.DisplayTitle())
			if n := season.EpisodeCount(); n > 0 {
				fmt.Fprintf(out, "  %d episodes", n)
			}
			fmt.Fprintln(out)
		}
	}

	if cast := s.Cast(); len(cast) > 0 {
		fmt.Fprintf(out, "\n%s\n", styles.AccentStyle.Render("Cast"))
		for _, c := range cast {
			fmt.Fprintf(out, "  %s as %s\n", c.Person.Name, c.Character.Name)
		}
	}
}

// showJSON is the --json form of a show
type showJSON struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Year    int      `json:"year,omitempty"`
	Network string   `json:"network,omitempty"`
	Status  string   `json:"status,omitempty"`
	Genres  []string `json:"genres,omitempty"`
	Starred bool     `json:"starred"`
}

func toShowJSON(s *domain.Show, starred bool) showJSON {
	return showJSON{
		ID:      s.ID,
		Name:    s.Name,
		Year:    s.Year(),
		Network: s.NetworkName(),
		Status:  s.Status,
		Genres:  s.Genres,
		Starred: starred,
	}
}

func showsJSON(shows []*domain.Show, isStarred func(int) bool) []showJSON {
	return lo.Map(shows, func(s *domain.Show, _ int) showJSON {
		return toShowJSON(s, isStarred(s.ID))
	})
}
