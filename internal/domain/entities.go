package domain

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Image holds poster URLs in the two sizes the catalog serves
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Rating is the community rating on a 0-10 scale. Average is nil when unrated.
type Rating struct {
	Average *float64 `json:"average"`
}

// String formats the rating for display ("8.4" or "n/a")
func (r Rating) String() string {
	if r.Average == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*r.Average, 'f', 1, 64)
}

// Country identifies a network's country of origin
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Network is the broadcaster (or web channel) that airs a show
type Network struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Country *Country `json:"country"`
}

// Show is a TV show as returned by /shows/{id}
type Show struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Language   string   `json:"language"`
	Genres     []string `json:"genres"`
	Status     string   `json:"status"`
	Runtime    *int     `json:"runtime"`
	Premiered  string   `json:"premiered"`
	Ended      string   `json:"ended"`
	Rating     Rating   `json:"rating"`
	Network    *Network `json:"network"`
	WebChannel *Network `json:"webChannel"`
	Image      *Image   `json:"image"`
	Summary    string   `json:"summary"`
	URL        string   `json:"url"`

	Embedded *ShowEmbeds `json:"_embedded,omitempty"`
}

// ShowEmbeds carries the embed[]=seasons&embed[]=cast payload
type ShowEmbeds struct {
	Seasons []Season     `json:"seasons"`
	Cast    []CastCredit `json:"cast"`
}

// Year returns the premiere year, or 0 if unknown
func (s Show) Year() int {
	if len(s.Premiered) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s.Premiered[:4])
	if err != nil {
		return 0
	}
	return y
}

// NetworkName returns the broadcaster name, falling back to the web channel
func (s Show) NetworkName() string {
	switch {
	case s.Network != nil:
		return s.Network.Name
	case s.WebChannel != nil:
		return s.WebChannel.Name
	}
	return ""
}

// PlainSummary returns the summary with HTML markup removed
func (s Show) PlainSummary() string {
	return StripHTML(s.Summary)
}

// Seasons returns embedded seasons (nil if the show was fetched without embeds)
func (s Show) Seasons() []Season {
	if s.Embedded == nil {
		return nil
	}
	return s.Embedded.Seasons
}

// Cast returns embedded cast credits (nil if the show was fetched without embeds)
func (s Show) Cast() []CastCredit {
	if s.Embedded == nil {
		return nil
	}
	return s.Embedded.Cast
}

// GetDescription returns secondary info for list display (e.g. "2011 · HBO · Ended")
func (s Show) GetDescription() string {
	parts := make([]string, 0, 3)
	if y := s.Year(); y > 0 {
		parts = append(parts, strconv.Itoa(y))
	}
	if n := s.NetworkName(); n != "" {
		parts = append(parts, n)
	}
	if s.Status != "" {
		parts = append(parts, s.Status)
	}
	return strings.Join(parts, " · ")
}

// Season is one season of a show
type Season struct {
	ID           int    `json:"id"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	EpisodeOrder *int   `json:"episodeOrder"`
	PremiereDate string `json:"premiereDate"`
	EndDate      string `json:"endDate"`
}

// DisplayTitle returns the season name, or "Season N" when unnamed
func (s Season) DisplayTitle() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// EpisodeCount returns the number of episodes, 0 if unannounced
func (s Season) EpisodeCount() int {
	if s.EpisodeOrder == nil {
		return 0
	}
	return *s.EpisodeOrder
}

// Person is an actor or crew member
type Person struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Country  *Country `json:"country"`
	Birthday string   `json:"birthday"`
	Deathday string   `json:"deathday"`
	Gender   string   `json:"gender"`
	Image    *Image   `json:"image"`
	URL      string   `json:"url"`
}

// GetDescription returns secondary info for list display
func (p Person) GetDescription() string {
	parts := make([]string, 0, 3)
	if p.Gender != "" {
		parts = append(parts, p.Gender)
	}
	if p.Country != nil && p.Country.Name != "" {
		parts = append(parts, p.Country.Name)
	}
	if p.Birthday != "" {
		parts = append(parts, "born "+p.Birthday)
	}
	return strings.Join(parts, " · ")
}

// Character is the role a person plays in a show
type Character struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastCredit pairs a person with the character they play
type CastCredit struct {
	Person    Person    `json:"person"`
	Character Character `json:"character"`
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes tags and unescapes entities
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTag.ReplaceAllString(s, "")))
}
