// Package channel runs the per-source state machine: fetch, dedup,
// transcript retrieval, record creation, deactivation.
package channel

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"channelwatch/internal/metrics"
	"channelwatch/internal/pipeline"
	"channelwatch/internal/reltime"
	"channelwatch/internal/transcript"
	"channelwatch/internal/watch"
)

// EventTopic is the topic record-created events are published to.
const EventTopic = "record-created"

// Machine processes one tracked source per trigger hour. Every failure is
// contained inside Process; the caller only sees an Outcome.
type Machine struct {
	sources    watch.SourceStore
	records    watch.RecordStore
	pipeline   *pipeline.Pipeline
	transcript *transcript.Retriever
	publisher  watch.Publisher
	archive    watch.BlobStore
	clock      watch.Clock
	logger     *zap.Logger
}

// New wires the state machine. Publisher and archive may be nil; the
// corresponding side effects are then skipped.
func New(
	sources watch.SourceStore,
	records watch.RecordStore,
	pipe *pipeline.Pipeline,
	retriever *transcript.Retriever,
	publisher watch.Publisher,
	archive watch.BlobStore,
	clock watch.Clock,
	logger *zap.Logger,
) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		sources:    sources,
		records:    records,
		pipeline:   pipe,
		transcript: retriever,
		publisher:  publisher,
		archive:    archive,
		clock:      clock,
		logger:     logger,
	}
}

// Process runs the state machine once for source at triggerHour and returns
// the outcome. It never returns an error; faults are logged and mapped to a
// non-terminal outcome so sibling sources keep processing.
func (m *Machine) Process(ctx context.Context, src watch.Source, triggerHour int) watch.Outcome {
	outcome := m.process(ctx, src, triggerHour)
	metrics.ObserveSourceOutcome(string(outcome))
	return outcome
}

func (m *Machine) process(ctx context.Context, src watch.Source, triggerHour int) watch.Outcome {
	log := m.logger.With(
		zap.String("source", src.Name),
		zap.String("source_id", src.ID),
		zap.Int("trigger_hour", triggerHour),
	)

	if !src.Active {
		log.Debug("source inactive, skipping")
		return watch.OutcomeSkipped
	}
	if src.Keyword == "" || src.URL == "" {
		log.Warn("source row missing keyword or url, skipping")
		return watch.OutcomeSkipped
	}
	if !watch.IsChannelURL(src.URL) {
		log.Warn("source url is not a channel url, skipping", zap.String("url", src.URL))
		return watch.OutcomeSkipped
	}

	candidate, err := m.pipeline.FindLatest(ctx, src.URL, src.Keyword)
	if err != nil {
		if errors.Is(err, watch.ErrLiveOnly) {
			log.Info("matching content still live or upcoming")
			return watch.OutcomeLiveOrUpcoming
		}
		if errors.Is(err, watch.ErrNotFound) {
			log.Info("no matching candidate this hour")
			return watch.OutcomeNoMatch
		}
		log.Error("fetch pipeline failed", zap.Error(err))
		return watch.OutcomeNoMatch
	}

	// Drifting pages can surface a candidate whose badge flipped between
	// extraction and selection.
	if !candidate.Completed() {
		log.Info("candidate still live or upcoming", zap.String("video_id", candidate.VideoID))
		return watch.OutcomeLiveOrUpcoming
	}

	exists, err := m.records.Exists(ctx, candidate.URL)
	if err != nil {
		log.Error("dedup check failed", zap.Error(err))
		return watch.OutcomeStoreFailed
	}
	if exists {
		log.Info("record already filed, deactivating", zap.String("url", candidate.URL))
		m.deactivate(ctx, src, log)
		return watch.OutcomeDuplicate
	}

	text := m.transcript.Retrieve(ctx, candidate.VideoID)
	if transcript.IsUnavailable(text) {
		log.Warn("transcript unavailable", zap.String("video_id", candidate.VideoID))
		return watch.OutcomeTranscriptUnavailable
	}

	uploadedAt := candidate.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = reltime.ParseAt(candidate.UploadedText, m.clock.Now())
	}

	rec := watch.Record{
		Title:     src.Keyword,
		URL:       candidate.URL,
		VideoDate: uploadedAt,
		Channel:   src.Name,
		Length:    candidate.Length,
		Status:    watch.RecordStatusAnalysis,
		Body:      text,
	}
	recordID, err := m.records.CreateRecord(ctx, rec)
	if err != nil {
		log.Error("record creation failed, source stays active", zap.Error(err))
		return watch.OutcomeStoreFailed
	}
	metrics.ObserveRecordCreated()
	log.Info("record created",
		zap.String("record_id", recordID),
		zap.String("url", candidate.URL))

	m.announce(ctx, src, candidate, recordID, log)
	m.archiveTranscript(ctx, src, candidate, text, log)
	m.deactivate(ctx, src, log)
	return watch.OutcomeCreated
}

// deactivate flips the source off. A failed flip is logged and tolerated;
// the daily reset squares the flag either way.
func (m *Machine) deactivate(ctx context.Context, src watch.Source, log *zap.Logger) {
	if err := m.sources.SetActive(ctx, src.ID, false); err != nil {
		log.Error("deactivate source failed", zap.Error(err))
	}
}

func (m *Machine) announce(ctx context.Context, src watch.Source, c watch.Candidate, recordID string, log *zap.Logger) {
	if m.publisher == nil {
		return
	}
	event := watch.RecordCreatedEvent{
		Source:    src.Name,
		Keyword:   src.Keyword,
		URL:       c.URL,
		RecordID:  recordID,
		CreatedAt: m.clock.Now(),
	}
	if _, err := m.publisher.Publish(ctx, EventTopic, event); err != nil {
		log.Warn("record-created event publish failed", zap.Error(err))
	}
}

func (m *Machine) archiveTranscript(ctx context.Context, src watch.Source, c watch.Candidate, text string, log *zap.Logger) {
	if m.archive == nil {
		return
	}
	path := fmt.Sprintf("%s/%s.txt", src.Name, c.VideoID)
	uri, err := m.archive.PutObject(ctx, path, "text/plain; charset=utf-8", []byte(text))
	if err != nil {
		log.Warn("transcript archive failed", zap.Error(err))
		return
	}
	log.Debug("transcript archived", zap.String("uri", uri))
}
