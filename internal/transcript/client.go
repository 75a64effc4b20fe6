// Package transcript retrieves the plain-text transcript for a video, with
// language fallback and bounded retries.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.youtube.com"

// Client fetches caption tracks from the timedtext endpoint. It implements
// watch.TranscriptSource.
type Client struct {
	http *resty.Client
}

// NewClient builds a Client. An empty baseURL targets the real endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)
	return &Client{http: c}
}

// timedTextPayload is the json3 caption format: events carrying text segments.
type timedTextPayload struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch retrieves the caption track for videoID, trying each language in
// order. An empty languages slice requests the default (auto-selected) track.
func (c *Client) Fetch(ctx context.Context, videoID string, languages []string) (string, error) {
	if len(languages) == 0 {
		languages = []string{""}
	}
	var lastErr error
	for _, lang := range languages {
		text, err := c.fetchTrack(ctx, videoID, lang)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *Client) fetchTrack(ctx context.Context, videoID, lang string) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("v", videoID).
		SetQueryParam("fmt", "json3")
	if lang != "" {
		req.SetQueryParam("lang", lang)
	}

	resp, err := req.Get("/api/timedtext")
	if err != nil {
		return "", fmt.Errorf("timedtext request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("timedtext status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		// The endpoint answers 200 with an empty body when no track exists.
		return "", fmt.Errorf("no caption track for video %s (lang %q)", videoID, lang)
	}

	var payload timedTextPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode timedtext payload: %w", err)
	}

	var parts []string
	for _, event := range payload.Events {
		for _, seg := range event.Segs {
			piece := strings.TrimSpace(seg.UTF8)
			if piece != "" {
				parts = append(parts, piece)
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("caption track for video %s is empty", videoID)
	}
	return strings.Join(parts, " "), nil
}
