package notion

import (
	"context"
	"fmt"
	"time"

	"channelwatch/internal/watch"
)

// RecordProperties names the columns of the record database.
type RecordProperties struct {
	Title   string
	URL     string
	Date    string
	Channel string
	Length  string
	Status  string
}

// DefaultRecordProperties returns the stock column names.
func DefaultRecordProperties() RecordProperties {
	return RecordProperties{
		Title:   "Title",
		URL:     "URL",
		Date:    "Video Date",
		Channel: "Channel",
		Length:  "Length",
		Status:  "Status",
	}
}

// RecordStore implements watch.RecordStore over the property API.
type RecordStore struct {
	client *Client
	props  RecordProperties
}

// NewRecordStore builds a RecordStore.
func NewRecordStore(client *Client, props RecordProperties) *RecordStore {
	return &RecordStore{client: client, props: props}
}

// Exists reports whether a record with the given URL is already present.
func (s *RecordStore) Exists(ctx context.Context, url string) (bool, error) {
	filter := map[string]any{
		"property": s.props.URL,
		"url":      map[string]any{"equals": url},
	}
	entries, err := s.client.QueryAll(ctx, s.client.cfg.RecordDatabaseID, filter)
	if err != nil {
		return false, fmt.Errorf("record exists: %w", err)
	}
	return len(entries) > 0, nil
}

// CreateRecord inserts one record row with its body as page content.
func (s *RecordStore) CreateRecord(ctx context.Context, rec watch.Record) (string, error) {
	properties := map[string]any{
		s.props.Title: map[string]any{
			"title": []map[string]any{
				{"text": map[string]any{"content": rec.Title}},
			},
		},
		s.props.URL: map[string]any{"url": rec.URL},
		s.props.Date: map[string]any{
			"date": map[string]any{"start": rec.VideoDate.Format(time.RFC3339)},
		},
		s.props.Channel: map[string]any{
			"select": map[string]any{"name": rec.Channel},
		},
		s.props.Length: map[string]any{
			"rich_text": []map[string]any{
				{"text": map[string]any{"content": rec.Length}},
			},
		},
		s.props.Status: map[string]any{
			"select": map[string]any{"name": string(rec.Status)},
		},
	}
	id, err := s.client.CreateRecord(ctx, s.client.cfg.RecordDatabaseID, properties, rec.Body)
	if err != nil {
		return "", err
	}
	return id, nil
}
