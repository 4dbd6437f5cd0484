// Package notion reads the pages of a Notion database as a flat table.
// Only reads are supported; the tracker is never written back to.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
	"github.com/bromptonhealth/dmrecall/tracker"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

// Config holds the connection settings for one database.
type Config struct {
	Token      string
	DatabaseID string
	// BaseURL overrides the API host, used in tests.
	BaseURL string
	Timeout time.Duration
}

// Client is a read-only client for a single Notion database.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the configured database.
func NewClient(config Config, log zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		baseURL:    config.BaseURL,
		token:      config.Token,
		databaseID: config.DatabaseID,
		httpClient: retryClient.StandardClient(),
		log:        log.With().Str("component", "notion_client").Logger(),
	}
}

// queryRequest is the paged database query body.
type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

// queryResponse is one page of database query results.
type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type page struct {
	Properties map[string]property `json:"properties"`
}

// Records fetches every page of the database and flattens the recognized
// property types into table cells. Unrecognized property types are
// dropped with a recorded warning.
func (c *Client) Records(ctx context.Context) (*tabular.Table, error) {
	table := tabular.NewTable(nil)
	cursor := ""
	pages := 0

	for {
		resp, err := c.queryPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		pages++

		for _, p := range resp.Results {
			row := make(tabular.Row, len(p.Properties))
			for name, prop := range p.Properties {
				value, ok := flattenProperty(prop)
				if !ok {
					c.log.Warn().
						Str("property", name).
						Str("type", prop.Type).
						Msg("Dropping unrecognized property type")
					continue
				}
				table.AddColumn(name)
				row[name] = value
			}
			table.Append(row)
		}

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	c.log.Debug().
		Int("pages", pages).
		Int("records", table.Len()).
		Msg("Fetched database records")
	return table, nil
}

// FetchActioned implements tracker.ActionedSource.
func (c *Client) FetchActioned(ctx context.Context) (*tabular.Table, error) {
	records, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}
	return tracker.NormalizeIdentifiers(records, c.log), nil
}

func (c *Client) queryPage(ctx context.Context, cursor string) (*queryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query body: %w", err)
	}

	uri := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("database query returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var page queryResponse
	if err := json.Unmarshal(respBody, &page); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &page, nil
}
