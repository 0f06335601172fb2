package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultPageSize = 100

// StatusError is returned when the CMS answers with a non-success status.
// The whole fetch aborts; partial results are never returned.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("strapi request failed with status %d: %s", e.StatusCode, e.URL)
}

// Client is a read-only client for the Strapi REST API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize overrides the fixed page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewClient creates a Strapi client for the given base URL and access token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		pageSize:   defaultPageSize,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll pages through the collection at path and returns every record
// whose createdAt or updatedAt exceeds since, or all records when since is
// nil. Pagination is strictly sequential; any non-success response aborts
// the fetch.
func (c *Client) FetchAll(ctx context.Context, path string, since *time.Time) ([]Agreement, error) {
	var all []Agreement

	for page := 1; ; page++ {
		items, pg, err := c.fetchPage(ctx, path, page, since)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if pg != nil {
			if pg.Page >= pg.PageCount {
				break
			}
			continue
		}
		// No pagination metadata: keep going while pages come back full.
		if len(items) < c.pageSize {
			break
		}
	}

	slog.Info("Fetched agreements from strapi", "count", len(all), "path", path)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, path string, page int, since *time.Time) ([]Agreement, *pagination, error) {
	reqURL := c.pageURL(path, page, since)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build strapi request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch strapi page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, nil, StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
		Meta meta              `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to decode strapi page %d: %w", page, err)
	}

	items := make([]Agreement, 0, len(envelope.Data))
	for _, raw := range envelope.Data {
		item, err := flattenItem(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode strapi item on page %d: %w", page, err)
		}
		items = append(items, item)
	}

	return items, envelope.Meta.Pagination, nil
}

// pageURL builds the collection URL with pagination, populate and, when since
// is set, the createdAt/updatedAt OR filter.
func (c *Client) pageURL(path string, page int, since *time.Time) string {
	q := url.Values{}
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(c.pageSize))
	q.Set("populate", "*")
	if since != nil {
		ts := since.UTC().Format(time.RFC3339)
		q.Set("filters[$or][0][createdAt][$gt]", ts)
		q.Set("filters[$or][1][updatedAt][$gt]", ts)
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()
}

// flattenItem merges a nested attributes envelope into a flat record keeping
// the item's top-level id. Items without the envelope pass through as-is.
func flattenItem(raw json.RawMessage) (Agreement, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Agreement{}, err
	}

	if attrs, ok := generic["attributes"]; ok {
		var flat map[string]json.RawMessage
		if err := json.Unmarshal(attrs, &flat); err != nil {
			return Agreement{}, err
		}
		if id, ok := generic["id"]; ok {
			flat["id"] = id
		}
		merged, err := json.Marshal(flat)
		if err != nil {
			return Agreement{}, err
		}
		raw = merged
	}

	var item Agreement
	if err := json.Unmarshal(raw, &item); err != nil {
		return Agreement{}, err
	}
	return item, nil
}
