// Package app initializes and holds the long-lived services of the watcher,
// acting as the dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	archivegcs "channelwatch/internal/archive/gcs"
	archivelocal "channelwatch/internal/archive/local"
	archivemem "channelwatch/internal/archive/memory"
	"channelwatch/internal/channel"
	"channelwatch/internal/clock/system"
	"channelwatch/internal/config"
	"channelwatch/internal/dispatch"
	collyfetcher "channelwatch/internal/fetcher/colly"
	"channelwatch/internal/fetcher/headless"
	"channelwatch/internal/metrics"
	"channelwatch/internal/pipeline"
	pubsubpub "channelwatch/internal/publisher/pubsub"
	"channelwatch/internal/scheduler"
	memstore "channelwatch/internal/store/memory"
	"channelwatch/internal/store/notion"
	"channelwatch/internal/transcript"
	"channelwatch/internal/watch"
)

// App bundles the wired service graph.
type App struct {
	Logger    *zap.Logger
	Sources   watch.SourceStore
	Records   watch.RecordStore
	Scheduler *scheduler.Scheduler

	closers []func()
}

// Build assembles every service from configuration. It fails fast: any
// provider that cannot be initialized aborts startup.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	a := &App{Logger: logger}

	sources, records, err := a.buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Sources = sources
	a.Records = records

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	clk := system.New(location)

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.Fetch.UserAgent,
		AcceptLanguage: cfg.Fetch.AcceptLanguage,
		Timeout:        cfg.FetchTimeout(),
	})

	var renderer watch.PageFetcher = headless.Noop{}
	if cfg.Headless.Enabled {
		r, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Fetch.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("init headless renderer: %w", err)
		}
		a.closers = append(a.closers, r.Close)
		renderer = r
		logger.Info("headless rendering enabled",
			zap.Int("max_parallel", cfg.Headless.MaxParallel))
	}

	pipe := pipeline.New(pipeline.Config{MaxRetries: cfg.Fetch.MaxRetries},
		fetcher, renderer, watch.SleepContext, logger.Named("pipeline"))

	transcripts := transcript.NewClient(cfg.Transcript.BaseURL, cfg.TranscriptTimeout())
	retriever := transcript.NewRetriever(transcripts, cfg.Transcript.Languages,
		cfg.Transcript.MaxRetries, watch.SleepContext, logger.Named("transcript"))

	publisher, err := a.buildPublisher(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	archive, err := a.buildArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	machine := channel.New(sources, records, pipe, retriever,
		publisher, archive, clk, logger.Named("channel"))
	disp := dispatch.New(sources, machine, cfg.Dispatch.Concurrency,
		logger.Named("dispatch"))
	a.Scheduler = scheduler.New(scheduler.Config{
		Location:    location,
		TickTimeout: cfg.TickTimeout(),
	}, disp, sources, clk, logger.Named("scheduler"))

	return a, nil
}

func (a *App) buildStores(cfg config.Config, logger *zap.Logger) (watch.SourceStore, watch.RecordStore, error) {
	switch cfg.Store.Provider {
	case "notion":
		client := notion.NewClient(notion.Config{
			BaseURL:          cfg.Store.BaseURL,
			Token:            cfg.Store.Token,
			APIVersion:       cfg.Store.APIVersion,
			Timeout:          time.Duration(cfg.Store.TimeoutSeconds) * time.Second,
			SourceDatabaseID: cfg.Store.SourceDatabaseID,
			RecordDatabaseID: cfg.Store.RecordDatabaseID,
		})
		sources := notion.NewSourceStore(client, notion.DefaultSourceProperties(), logger.Named("store"))
		records := notion.NewRecordStore(client, notion.DefaultRecordProperties())
		return sources, records, nil
	case "memory":
		logger.Warn("using in-memory store, state is lost on restart")
		store := memstore.New()
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}
}

func (a *App) buildPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (watch.Publisher, error) {
	if !cfg.PubSub.Enabled {
		return nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("init pubsub client: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			logger.Warn("close pubsub client", zap.Error(err))
		}
	})
	logger.Info("record-created events enabled",
		zap.String("project", cfg.PubSub.ProjectID))
	return pubsubpub.New(client), nil
}

func (a *App) buildArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) (watch.BlobStore, error) {
	switch cfg.Archive.Provider {
	case "none":
		return nil, nil
	case "memory":
		return archivemem.NewBlobStore(), nil
	case "local":
		store, err := archivelocal.New(archivelocal.Config{BaseDir: cfg.Archive.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("init local archive: %w", err)
		}
		logger.Info("transcript archive enabled",
			zap.String("provider", "local"), zap.String("base_dir", cfg.Archive.BaseDir))
		return store, nil
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close gcs client", zap.Error(err))
			}
		})
		store, err := archivegcs.New(ctx, client, archivegcs.Config{Bucket: cfg.Archive.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("init gcs archive: %w", err)
		}
		logger.Info("transcript archive enabled",
			zap.String("provider", "gcs"), zap.String("bucket", cfg.Archive.GCSBucket))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown archive provider %q", cfg.Archive.Provider)
	}
}

// Close shuts down everything Build started, newest first.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
