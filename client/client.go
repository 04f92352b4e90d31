package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"assochub/internal/model"
)

// Client fetches paginated collections over the REST gateway.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

type eventsResponse struct {
	Events     []model.Event `json:"events"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"totalPages"`
}

type postsResponse struct {
	Posts      []model.ResolvedPost `json:"posts"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"totalPages"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchEvents loads one page of events into a fresh cache page.
func (c *Client) FetchEvents(ctx context.Context, page, limit int) (*EventsPage, error) {
	var out eventsResponse
	if err := c.get(ctx, fmt.Sprintf("/api/events?page=%d&limit=%d", page, limit), &out); err != nil {
		return nil, err
	}
	return &EventsPage{
		Page:       page,
		Events:     out.Events,
		Total:      out.Total,
		TotalPages: out.TotalPages,
	}, nil
}

// FetchPosts loads one page of posts into a fresh cache page.
func (c *Client) FetchPosts(ctx context.Context, page, limit int) (*PostsPage, error) {
	var out postsResponse
	if err := c.get(ctx, fmt.Sprintf("/api/posts?page=%d&limit=%d", page, limit), &out); err != nil {
		return nil, err
	}
	return &PostsPage{
		Page:       page,
		PageSize:   limit,
		Posts:      out.Posts,
		Total:      out.Total,
		TotalPages: out.TotalPages,
	}, nil
}
