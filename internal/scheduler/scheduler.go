// Package scheduler registers the recurring jobs: one tick per hour of the
// day and the daily activation reset.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"channelwatch/internal/dispatch"
	"channelwatch/internal/watch"
)

// ResetHour is when every tracked source is flipped back to active.
const ResetHour = 4

// ErrOutOfRange is returned by SimulateTick for an hour or minute outside
// the clock face.
var ErrOutOfRange = errors.New("simulated time out of range")

// Config tunes the scheduler.
type Config struct {
	// Location is the timezone hourly boundaries are evaluated in.
	Location *time.Location
	// TickTimeout bounds one tick end to end. Zero means no bound.
	TickTimeout time.Duration
}

// Scheduler owns the cron instance and the jobs it runs.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	cfg     Config
	disp    *dispatch.Dispatcher
	sources watch.SourceStore
	clock   watch.Clock
	logger  *zap.Logger
}

// New builds a Scheduler. Jobs do not run until Setup is called.
func New(cfg Config, disp *dispatch.Dispatcher, sources watch.SourceStore, clock watch.Clock, logger *zap.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:     cfg,
		disp:    disp,
		sources: sources,
		clock:   clock,
		logger:  logger,
	}
}

// Setup registers the full job set and starts the cron loop. Calling Setup
// again replaces the previous job set instead of stacking a second one.
func (s *Scheduler) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.cron = nil
	}

	c := cron.New(
		cron.WithLogger(cronLogger{logger: s.logger.Named("cron")}),
		cron.WithLocation(s.cfg.Location),
	)

	for hour := 0; hour < 24; hour++ {
		hour := hour
		if _, err := c.AddFunc(fmt.Sprintf("0 %d * * *", hour), func() {
			s.runTick(hour)
		}); err != nil {
			return fmt.Errorf("register hourly job %d: %w", hour, err)
		}
	}
	if _, err := c.AddFunc(fmt.Sprintf("0 %d * * *", ResetHour), s.runReset); err != nil {
		return fmt.Errorf("register reset job: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("scheduler started",
		zap.Int("jobs", 25),
		zap.String("location", s.cfg.Location.String()))
	return nil
}

// Jobs reports how many cron entries are currently registered.
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return 0
	}
	return len(s.cron.Entries())
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.cron = nil
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) tickContext() (context.Context, context.CancelFunc) {
	if s.cfg.TickTimeout > 0 {
		return context.WithTimeout(context.Background(), s.cfg.TickTimeout)
	}
	return context.WithCancel(context.Background())
}

func (s *Scheduler) runTick(hour int) {
	ctx, cancel := s.tickContext()
	defer cancel()
	weekday := s.clock.Now().In(s.cfg.Location).Weekday()
	if _, err := s.disp.Tick(ctx, hour, weekday); err != nil {
		s.logger.Error("hourly tick failed", zap.Int("hour", hour), zap.Error(err))
	}
}

func (s *Scheduler) runReset() {
	ctx, cancel := s.tickContext()
	defer cancel()
	count, err := s.sources.ActivateAll(ctx)
	if err != nil {
		s.logger.Error("daily reset failed", zap.Error(err))
		return
	}
	s.logger.Info("daily reset", zap.Int("activated", count))
}

// SimulationResult reports what a tick at the given instant would do.
type SimulationResult struct {
	SimulatedTime  string          `json:"simulated_time"`
	Weekday        string          `json:"weekday"`
	ResetTriggered bool            `json:"reset_triggered"`
	Tasks          []watch.DueTask `json:"tasks"`
}

// SimulateTick evaluates the due set and reset logic for an explicit
// hour/minute/weekday without waiting for wall clock. With dryRun false the
// due sources are actually processed and the reset actually runs. Weekend
// simulations report no work at all, reset included, even though the real
// reset job fires every day.
func (s *Scheduler) SimulateTick(ctx context.Context, hour, minute int, weekday time.Weekday, dryRun bool) (SimulationResult, error) {
	result := SimulationResult{
		SimulatedTime: fmt.Sprintf("%02d:%02d", hour, minute),
		Weekday:       weekday.String(),
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return result, fmt.Errorf("%s: %w", result.SimulatedTime, ErrOutOfRange)
	}
	if weekday == time.Saturday || weekday == time.Sunday {
		return result, nil
	}
	result.ResetTriggered = hour == ResetHour && minute == 0

	sources, err := s.sources.ListSources(ctx)
	if err != nil {
		return result, fmt.Errorf("simulate tick: %w", err)
	}
	result.Tasks = dispatch.DueTasks(hour, weekday, sources)

	if dryRun {
		return result, nil
	}
	if result.ResetTriggered {
		if _, err := s.sources.ActivateAll(ctx); err != nil {
			return result, fmt.Errorf("simulate reset: %w", err)
		}
	}
	if len(result.Tasks) > 0 {
		if _, err := s.disp.Tick(ctx, hour, weekday); err != nil {
			return result, fmt.Errorf("simulate tick: %w", err)
		}
	}
	return result, nil
}

// RunAllDueNow runs one tick for the current wall-clock hour and weekday
// and reports how many sources were processed and how many finished.
func (s *Scheduler) RunAllDueNow(ctx context.Context) (dispatch.TickResult, error) {
	now := s.clock.Now().In(s.cfg.Location)
	return s.disp.Tick(ctx, now.Hour(), now.Weekday())
}

// cronLogger adapts zap to the cron logging contract.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) fields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, l.fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(l.fields(keysAndValues), zap.Error(err))...)
}
