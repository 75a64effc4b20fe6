package transcript

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"channelwatch/internal/metrics"
	"channelwatch/internal/watch"
)

// UnavailablePrefix marks the sentinel returned when every retrieval attempt
// failed. The remainder of the sentinel carries the last error.
const UnavailablePrefix = "transcript unavailable: "

// Unavailable builds the sentinel string for err.
func Unavailable(err error) string {
	return UnavailablePrefix + err.Error()
}

// IsUnavailable reports whether text is the unavailable sentinel.
func IsUnavailable(text string) bool {
	return strings.HasPrefix(text, UnavailablePrefix)
}

// Retriever wraps a transcript source with language fallback and retries.
type Retriever struct {
	source     watch.TranscriptSource
	languages  []string
	maxRetries int
	sleep      watch.Sleeper
	logger     *zap.Logger
}

// NewRetriever constructs a Retriever. languages is the preference order
// tried before falling back to the auto-selected track; sleep may be nil.
func NewRetriever(source watch.TranscriptSource, languages []string, maxRetries int, sleep watch.Sleeper, logger *zap.Logger) *Retriever {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		source:     source,
		languages:  languages,
		maxRetries: maxRetries,
		sleep:      sleep,
		logger:     logger,
	}
}

// Retrieve returns the transcript text for videoID, or the unavailable
// sentinel after the retry budget is spent. It never returns an error.
func (r *Retriever) Retrieve(ctx context.Context, videoID string) string {
	text, err := watch.Retry(ctx, r.maxRetries, r.sleep, nil,
		func(ctx context.Context) (string, error) {
			return r.attempt(ctx, videoID)
		})
	if err != nil {
		r.logger.Warn("transcript retrieval failed",
			zap.String("video_id", videoID),
			zap.Int("max_retries", r.maxRetries),
			zap.Error(err))
		metrics.ObserveTranscriptFetch("unavailable")
		return Unavailable(err)
	}
	metrics.ObserveTranscriptFetch("success")
	return text
}

// attempt tries the preferred languages first, then the auto-selected track.
func (r *Retriever) attempt(ctx context.Context, videoID string) (string, error) {
	if len(r.languages) > 0 {
		text, err := r.source.Fetch(ctx, videoID, r.languages)
		if err == nil {
			return text, nil
		}
		r.logger.Debug("preferred-language transcript miss",
			zap.String("video_id", videoID),
			zap.Strings("languages", r.languages),
			zap.Error(err))
	}
	return r.source.Fetch(ctx, videoID, nil)
}
