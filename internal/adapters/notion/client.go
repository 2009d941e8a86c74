// Package notion is a minimal client for the hosted document-store
// backend that owns the member, event and history databases. It covers
// only the three operations the console needs: database query (with
// cursor pagination), page creation and page patching.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/rankdesk/pkg/metrics"
)

// Client defaults.
const (
	defaultBaseURL    = "https://api.notion.com/v1"
	defaultAPIVersion = "2022-06-28"
	defaultTimeout    = 20 * time.Second
	maxErrorBodyBytes = 1024
)

// Client talks to the document-store HTTP API. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

// New builds a client authenticated with the integration token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		version: defaultAPIVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query is one page worth of database query parameters.
type Query struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// QueryResult is a single page of query results with its continuation.
type QueryResult struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase runs one page of a database query.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q Query) (*QueryResult, error) {
	var out QueryResult
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
	if err := c.do(ctx, http.MethodPost, url, "query_database", q, &out); err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return &out, nil
}

// QueryDatabaseAll drains a database query across all pages. Any page
// failure fails the whole call; a partial result is never returned,
// so callers can distinguish "empty" from "fetch failed".
func (c *Client) QueryDatabaseAll(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		res, err := c.QueryDatabase(ctx, databaseID, Query{Filter: filter, StartCursor: cursor})
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if !res.HasMore || res.NextCursor == "" {
			return pages, nil
		}
		cursor = res.NextCursor
	}
}

// CreatePage appends a new page to the given database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props map[string]Property) error {
	body := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": props,
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/pages", "create_page", body, nil); err != nil {
		return fmt.Errorf("create page in %s: %w", databaseID, err)
	}
	return nil
}

// PatchPage updates properties on an existing page.
func (c *Client) PatchPage(ctx context.Context, pageID string, props map[string]Property) error {
	body := map[string]any{"properties": props}
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/pages/"+pageID, "patch_page", body, nil); err != nil {
		return fmt.Errorf("patch page %s: %w", pageID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url, operation string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest(operation, "transport_error", time.Since(start).Seconds())
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackendRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
