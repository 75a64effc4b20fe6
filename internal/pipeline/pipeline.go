// Package pipeline orchestrates page retrieval, payload extraction, and
// candidate selection with bounded retries.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"channelwatch/internal/metrics"
	"channelwatch/internal/pagedata"
	"channelwatch/internal/watch"
)

// errNoPayload marks an attempt whose page came back without an embedded
// payload. It is transient: consent walls and partial renders clear up.
var errNoPayload = errors.New("no embedded payload extracted")

// Config controls retry behavior. Per-attempt timeouts live in the fetcher.
type Config struct {
	MaxRetries int
}

// Pipeline finds the most recent completed candidate on a channel's listing
// page. A headless renderer, when configured, is consulted within an attempt
// if the static page carries no payload.
type Pipeline struct {
	cfg      Config
	fetcher  watch.PageFetcher
	renderer watch.PageFetcher
	sleep    watch.Sleeper
	logger   *zap.Logger
}

// New constructs a Pipeline. renderer and sleep may be nil.
func New(cfg Config, fetcher, renderer watch.PageFetcher, sleep watch.Sleeper, logger *zap.Logger) *Pipeline {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		fetcher:  fetcher,
		renderer: renderer,
		sleep:    sleep,
		logger:   logger,
	}
}

// FindLatest fetches the channel's listing page and returns the most recent
// completed candidate whose title contains keyword. Transient failures are
// retried with exponential backoff up to the budget; a parsed page with no
// matching or no completed candidates returns watch.ErrNotFound without
// retrying. An exhausted budget also surfaces as watch.ErrNotFound.
func (p *Pipeline) FindLatest(ctx context.Context, channelURL, keyword string) (watch.Candidate, error) {
	listingURL := watch.NormalizeListingURL(channelURL)

	candidate, err := watch.Retry(ctx, p.cfg.MaxRetries, p.sleep,
		func(err error) bool { return !errors.Is(err, watch.ErrNotFound) },
		func(ctx context.Context) (watch.Candidate, error) {
			return p.attempt(ctx, listingURL, keyword)
		})
	if err != nil {
		if errors.Is(err, watch.ErrNotFound) {
			return watch.Candidate{}, err
		}
		p.logger.Warn("fetch pipeline budget exhausted",
			zap.String("url", listingURL),
			zap.Int("max_retries", p.cfg.MaxRetries),
			zap.Error(err))
		return watch.Candidate{}, watch.ErrNotFound
	}
	return candidate, nil
}

func (p *Pipeline) attempt(ctx context.Context, listingURL, keyword string) (watch.Candidate, error) {
	resp, err := p.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		metrics.ObserveFetchAttempt("transport_error", resp.Duration)
		return watch.Candidate{}, fmt.Errorf("fetch listing page: %w", err)
	}

	data := pagedata.Extract(resp.Body, p.logger)
	if data == nil && p.renderer != nil {
		rendered, rerr := p.renderer.Fetch(ctx, listingURL)
		if rerr != nil {
			p.logger.Debug("headless render unavailable", zap.Error(rerr))
		} else {
			data = pagedata.Extract(rendered.Body, p.logger)
		}
	}
	if data == nil {
		metrics.ObserveFetchAttempt("no_payload", resp.Duration)
		return watch.Candidate{}, errNoPayload
	}

	candidates := pagedata.FindCandidates(data, keyword)
	if len(candidates) == 0 {
		metrics.ObserveFetchAttempt("not_found", resp.Duration)
		return watch.Candidate{}, fmt.Errorf("keyword %q: %w", keyword, watch.ErrNotFound)
	}

	for _, c := range candidates {
		if c.Completed() {
			metrics.ObserveFetchAttempt("success", resp.Duration)
			p.logger.Info("found completed candidate",
				zap.String("title", c.Title),
				zap.String("video_id", c.VideoID))
			return c, nil
		}
	}
	metrics.ObserveFetchAttempt("live_only", resp.Duration)
	return watch.Candidate{}, fmt.Errorf("keyword %q: %w", keyword, watch.ErrLiveOnly)
}
