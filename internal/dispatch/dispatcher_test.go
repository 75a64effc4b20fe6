package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channelwatch/internal/store/memory"
	"channelwatch/internal/watch"
)

type recordingProcessor struct {
	mu        sync.Mutex
	processed []string
	outcome   watch.Outcome
}

func (p *recordingProcessor) Process(_ context.Context, src watch.Source, _ int) watch.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, src.Name)
	return p.outcome
}

func src(name string, active bool, expectedHour int) watch.Source {
	return watch.Source{
		Name:         name,
		URL:          "https://www.youtube.com/@" + name,
		Keyword:      name,
		Active:       active,
		ExpectedHour: expectedHour,
	}
}

func TestDueSourcesFiltersByWindowAndActive(t *testing.T) {
	t.Parallel()

	sources := []watch.Source{
		src("morning", true, 9),    // window {9,10,11}
		src("afternoon", true, 14), // window {16,17,18}
		src("inactive", false, 9),
	}

	due := DueSources(10, time.Monday, sources)
	require.Len(t, due, 1)
	assert.Equal(t, "morning", due[0].Name)

	due = DueSources(17, time.Monday, sources)
	require.Len(t, due, 1)
	assert.Equal(t, "afternoon", due[0].Name)

	assert.Empty(t, DueSources(5, time.Monday, sources))
}

func TestDueSourcesSuppressesWeekends(t *testing.T) {
	t.Parallel()

	sources := []watch.Source{src("morning", true, 9)}
	assert.Empty(t, DueSources(10, time.Saturday, sources))
	assert.Empty(t, DueSources(10, time.Sunday, sources))
	assert.Len(t, DueSources(10, time.Friday, sources), 1)
}

func TestDueSourcesLateWindowWrapsPastMidnight(t *testing.T) {
	t.Parallel()

	sources := []watch.Source{src("late", true, 21)}
	assert.Len(t, DueSources(23, time.Tuesday, sources), 1)
	assert.Len(t, DueSources(1, time.Tuesday, sources), 1)
	assert.Empty(t, DueSources(12, time.Tuesday, sources))
}

func TestTickProcessesDueSources(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.AddSource(src("morning", true, 9))
	store.AddSource(src("afternoon", true, 14))
	proc := &recordingProcessor{outcome: watch.OutcomeCreated}
	d := New(store, proc, 1, zap.NewNop())

	result, err := d.Tick(context.Background(), 10, time.Wednesday)
	require.NoError(t, err)
	assert.Equal(t, TickResult{Processed: 1, Succeeded: 1}, result)
	assert.Equal(t, []string{"morning"}, proc.processed)
}

func TestTickWeekendDoesNothing(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.AddSource(src("morning", true, 9))
	proc := &recordingProcessor{outcome: watch.OutcomeCreated}
	d := New(store, proc, 1, zap.NewNop())

	result, err := d.Tick(context.Background(), 10, time.Saturday)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, proc.processed)
}

func TestTickBoundedPoolProcessesAll(t *testing.T) {
	t.Parallel()

	store := memory.New()
	for _, name := range []string{"a", "b", "c", "d"} {
		store.AddSource(src(name, true, 9))
	}
	proc := &recordingProcessor{outcome: watch.OutcomeNoMatch}
	d := New(store, proc, 3, zap.NewNop())

	result, err := d.Tick(context.Background(), 9, time.Thursday)
	require.NoError(t, err)
	assert.Equal(t, TickResult{Processed: 4, Succeeded: 0}, result)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, proc.processed)
}

func TestDueTasksReportsWindowRows(t *testing.T) {
	t.Parallel()

	sources := []watch.Source{src("morning", true, 9)}
	tasks := DueTasks(11, time.Monday, sources)
	require.Len(t, tasks, 1)
	assert.Equal(t, watch.DueTask{
		Source:       "morning",
		Keyword:      "morning",
		ExpectedHour: 9,
		TriggerHour:  11,
	}, tasks[0])
}
