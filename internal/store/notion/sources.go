package notion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"channelwatch/internal/watch"
)

// SourceProperties names the columns of the tracked-source database.
type SourceProperties struct {
	Active  string
	Title   string
	URL     string
	Channel string
	Hour    string
}

// DefaultSourceProperties returns the stock column names.
func DefaultSourceProperties() SourceProperties {
	return SourceProperties{
		Active:  "Active",
		Title:   "Title",
		URL:     "URL",
		Channel: "Channel",
		Hour:    "Hour",
	}
}

// SourceStore implements watch.SourceStore over the property API.
type SourceStore struct {
	client *Client
	props  SourceProperties
	logger *zap.Logger
}

// NewSourceStore builds a SourceStore.
func NewSourceStore(client *Client, props SourceProperties, logger *zap.Logger) *SourceStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceStore{client: client, props: props, logger: logger}
}

// ListSources queries every row of the source database. Rows with unusable
// properties are returned as-is; validation is the state machine's concern.
func (s *SourceStore) ListSources(ctx context.Context) ([]watch.Source, error) {
	entries, err := s.client.QueryAll(ctx, s.client.cfg.SourceDatabaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	sources := make([]watch.Source, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, s.sourceFromEntry(entry))
	}
	return sources, nil
}

func (s *SourceStore) sourceFromEntry(entry Entry) watch.Source {
	src := watch.Source{
		ID:           entry.ID,
		Name:         "Other",
		ExpectedHour: watch.DefaultExpectedHour,
	}
	if p, ok := entry.Properties[s.props.Active]; ok && p.Checkbox != nil {
		src.Active = *p.Checkbox
	}
	if p, ok := entry.Properties[s.props.Title]; ok && len(p.Title) > 0 {
		src.Keyword = strings.TrimSpace(plainText(p.Title))
	}
	if p, ok := entry.Properties[s.props.URL]; ok && p.URL != nil {
		src.URL = *p.URL
	}
	if p, ok := entry.Properties[s.props.Channel]; ok && p.Select != nil {
		src.Name = p.Select.Name
	}
	if p, ok := entry.Properties[s.props.Hour]; ok && p.Number != nil {
		src.ExpectedHour = int(*p.Number)
	} else {
		s.logger.Warn("source row has no hour property, defaulting",
			zap.String("source_id", entry.ID),
			zap.Int("hour", watch.DefaultExpectedHour))
	}
	return src
}

// SetActive patches the activation checkbox of one source row.
func (s *SourceStore) SetActive(ctx context.Context, sourceID string, active bool) error {
	return s.client.UpdateFields(ctx, sourceID, map[string]any{
		s.props.Active: map[string]any{"checkbox": active},
	})
}

// ActivateAll flips every source row active, regardless of prior state.
// Rows that fail to update are logged and skipped; the count of updated
// rows is returned.
func (s *SourceStore) ActivateAll(ctx context.Context) (int, error) {
	entries, err := s.client.QueryAll(ctx, s.client.cfg.SourceDatabaseID, nil)
	if err != nil {
		return 0, fmt.Errorf("activate all: %w", err)
	}
	updated := 0
	for _, entry := range entries {
		if err := s.SetActive(ctx, entry.ID, true); err != nil {
			s.logger.Error("activate source failed",
				zap.String("source_id", entry.ID),
				zap.Error(err))
			continue
		}
		updated++
	}
	return updated, nil
}

func plainText(runs []RichText) string {
	var b strings.Builder
	for _, run := range runs {
		if run.PlainText != "" {
			b.WriteString(run.PlainText)
		} else if run.Text != nil {
			b.WriteString(run.Text.Content)
		}
	}
	return b.String()
}
