// Package dispatch decides which tracked sources are due at a trigger hour
// and fans their processing out to the state machine.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"channelwatch/internal/metrics"
	"channelwatch/internal/watch"
)

// Processor runs the state machine for one due source.
type Processor interface {
	Process(ctx context.Context, src watch.Source, triggerHour int) watch.Outcome
}

// Dispatcher selects due sources per hour and drives their processing.
type Dispatcher struct {
	sources     watch.SourceStore
	processor   Processor
	concurrency int
	logger      *zap.Logger
}

// New creates a Dispatcher. A concurrency below 1 means sequential
// processing.
func New(sources watch.SourceStore, processor Processor, concurrency int, logger *zap.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sources:     sources,
		processor:   processor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// DueSources filters sources down to those whose dispatch window contains
// hour. Weekends yield no work regardless of windows.
func DueSources(hour int, weekday time.Weekday, sources []watch.Source) []watch.Source {
	if weekday == time.Saturday || weekday == time.Sunday {
		return nil
	}
	var due []watch.Source
	for _, src := range sources {
		if src.Active && watch.InWindow(src.ExpectedHour, hour) {
			due = append(due, src)
		}
	}
	return due
}

// TickResult summarizes one tick: how many due sources were processed and
// how many reached a terminal outcome (record created or duplicate found).
type TickResult struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
}

// Tick lists the current sources, selects the due subset for hour and
// weekday, and processes each one. A source-list read failure aborts the
// tick; per-source faults are contained by the processor.
func (d *Dispatcher) Tick(ctx context.Context, hour int, weekday time.Weekday) (TickResult, error) {
	metrics.ObserveTick(hour)

	sources, err := d.sources.ListSources(ctx)
	if err != nil {
		d.logger.Error("tick aborted, source list unavailable",
			zap.Int("hour", hour), zap.Error(err))
		return TickResult{}, err
	}

	due := DueSources(hour, weekday, sources)
	d.logger.Info("tick",
		zap.Int("hour", hour),
		zap.Stringer("weekday", weekday),
		zap.Int("sources", len(sources)),
		zap.Int("due", len(due)))
	if len(due) == 0 {
		return TickResult{}, nil
	}

	return d.run(ctx, due, hour), nil
}

// run processes due sources through a bounded pool. With concurrency 1 the
// pool degenerates to strictly sequential processing.
func (d *Dispatcher) run(ctx context.Context, due []watch.Source, hour int) TickResult {
	sem := make(chan struct{}, d.concurrency)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, src := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(src watch.Source) {
			defer wg.Done()
			defer func() { <-sem }()
			outcome := d.processor.Process(ctx, src, hour)
			d.logger.Info("source processed",
				zap.String("source", src.Name),
				zap.Int("hour", hour),
				zap.String("outcome", string(outcome)))
			if outcome.Terminal() {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(src)
	}
	wg.Wait()
	return TickResult{Processed: len(due), Succeeded: succeeded}
}

// DueTasks renders the due subset as report rows for the simulation surface.
func DueTasks(hour int, weekday time.Weekday, sources []watch.Source) []watch.DueTask {
	due := DueSources(hour, weekday, sources)
	tasks := make([]watch.DueTask, 0, len(due))
	for _, src := range due {
		tasks = append(tasks, watch.DueTask{
			Source:       src.Name,
			Keyword:      src.Keyword,
			ExpectedHour: src.ExpectedHour,
			TriggerHour:  hour,
		})
	}
	return tasks
}
