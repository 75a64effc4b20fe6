// Package notion implements the record-store contract against a
// Notion-compatible property API.
package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL    = "https://api.notion.com"
	defaultAPIVersion = "2022-06-28"

	// Paragraph blocks reject longer text; bodies are chunked to fit.
	maxBlockRunes = 2000
)

// Config captures connection parameters for the record-store API.
type Config struct {
	BaseURL          string
	Token            string
	APIVersion       string
	Timeout          time.Duration
	SourceDatabaseID string
	RecordDatabaseID string
}

// Client speaks the raw property API: query, update fields, create pages.
type Client struct {
	http *resty.Client
	cfg  Config
}

// NewClient builds a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Notion-Version", cfg.APIVersion).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, cfg: cfg}
}

// Entry is one page row: an ID plus a bag of typed properties.
type Entry struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

// PropertyValue decodes the property types this core reads.
type PropertyValue struct {
	Checkbox *bool        `json:"checkbox,omitempty"`
	Number   *float64     `json:"number,omitempty"`
	URL      *string      `json:"url,omitempty"`
	Title    []RichText   `json:"title,omitempty"`
	RichText []RichText   `json:"rich_text,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
}

// RichText is one text run inside a title or rich_text property.
type RichText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

// TextContent is the writable half of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// SelectValue names a select option.
type SelectValue struct {
	Name string `json:"name"`
}

// DateValue carries an ISO date start.
type DateValue struct {
	Start string `json:"start"`
}

type queryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Entry `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// QueryAll returns every entry of a database matching filter (nil for all),
// following pagination cursors.
func (c *Client) QueryAll(ctx context.Context, databaseID string, filter any) ([]Entry, error) {
	var all []Entry
	cursor := ""
	for {
		reqBody := queryRequest{Filter: filter, StartCursor: cursor}
		var page queryResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(reqBody).
			SetResult(&page).
			Post(fmt.Sprintf("/v1/databases/%s/query", databaseID))
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("query database %s: status %d: %s", databaseID, resp.StatusCode(), resp.String())
		}
		all = append(all, page.Results...)
		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// UpdateFields patches the named properties of an entry.
func (c *Client) UpdateFields(ctx context.Context, entryID string, properties map[string]any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"properties": properties}).
		Patch(fmt.Sprintf("/v1/pages/%s", entryID))
	if err != nil {
		return fmt.Errorf("update entry %s: %w", entryID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("update entry %s: status %d: %s", entryID, resp.StatusCode(), resp.String())
	}
	return nil
}

// CreateRecord creates a page in databaseID with the given properties and a
// body rendered as paragraph blocks. Returns the created entry's ID.
func (c *Client) CreateRecord(ctx context.Context, databaseID string, properties map[string]any, body string) (string, error) {
	payload := map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	}
	if body != "" {
		payload["children"] = paragraphBlocks(body)
	}

	var created struct {
		ID string `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post("/v1/pages")
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create record: status %d: %s", resp.StatusCode(), resp.String())
	}
	if created.ID == "" {
		return "", fmt.Errorf("create record: response carried no id")
	}
	return created.ID, nil
}

// paragraphBlocks splits body into paragraph blocks within the rune limit.
func paragraphBlocks(body string) []map[string]any {
	runes := []rune(body)
	var blocks []map[string]any
	for start := 0; start < len(runes); start += maxBlockRunes {
		end := start + maxBlockRunes
		if end > len(runes) {
			end = len(runes)
		}
		blocks = append(blocks, map[string]any{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": []map[string]any{
					{"type": "text", "text": map[string]any{"content": string(runes[start:end])}},
				},
			},
		})
	}
	return blocks
}
