package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/boxoffice/internal/domain"
)

// apiError is the body TVmaze returns alongside 4xx/5xx statuses
type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type searchHit struct {
	Score  float64        `json:"score"`
	Show   *domain.Show   `json:"show"`
	Person *domain.Person `json:"person"`
}

// Search runs a show or people search
func (c *Client) Search(ctx context.Context, kind domain.SearchKind, q string) ([]domain.SearchResult, error) {
	path, err := SearchPath(kind, q)
	if err != nil {
		return nil, err
	}
	body, err := c.FetchJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	var hits []searchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, c.decodeError(body, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Show == nil && h.Person == nil {
			continue
		}
		results = append(results, domain.SearchResult{
			Kind:   kind,
			Score:  h.Score,
			Show:   h.Show,
			Person: h.Person,
		})
	}
	return results, nil
}

// ShowDetails fetches a show with its seasons and cast embedded
func (c *Client) ShowDetails(ctx context.Context, id int) (*domain.Show, error) {
	return c.fetchShow(ctx, ShowDetailsPath(id))
}

// Show fetches a show without embeds
func (c *Client) Show(ctx context.Context, id int) (*domain.Show, error) {
	return c.fetchShow(ctx, ShowPath(id))
}

func (c *Client) fetchShow(ctx context.Context, path string) (*domain.Show, error) {
	body, err := c.FetchJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	var show domain.Show
	if err := json.Unmarshal(body, &show); err != nil {
		return nil, c.decodeError(body, err)
	}
	if show.ID == 0 {
		// 404 bodies decode into an empty show
		return nil, c.decodeError(body, domain.ErrShowNotFound)
	}
	return &show, nil
}

// decodeError prefers the API's own error message when the body carries one
func (c *Client) decodeError(body []byte, cause error) error {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Status >= 400 {
		if apiErr.Status == 404 {
			return fmt.Errorf("%w: %s", domain.ErrShowNotFound, apiErr.Message)
		}
		return fmt.Errorf("tvmaze %d %s: %s", apiErr.Status, apiErr.Name, apiErr.Message)
	}
	return fmt.Errorf("failed to parse response: %w", cause)
}
