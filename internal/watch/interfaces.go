package watch

import (
	"context"
	"time"
)

// SourceStore reads tracked sources and flips their activation flag.
// It is the only writer of source state the core touches.
type SourceStore interface {
	ListSources(ctx context.Context) ([]Source, error)
	SetActive(ctx context.Context, sourceID string, active bool) error
	ActivateAll(ctx context.Context) (int, error)
}

// RecordStore files processed records and answers the dedup question.
type RecordStore interface {
	Exists(ctx context.Context, url string) (bool, error)
	CreateRecord(ctx context.Context, rec Record) (string, error)
}

// PageFetcher retrieves a channel listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (PageResponse, error)
}

// TranscriptSource fetches a transcript by video ID for the given language
// preference order. An empty languages slice means auto-detect.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string, languages []string) (string, error)
}

// Publisher pushes record-created events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
