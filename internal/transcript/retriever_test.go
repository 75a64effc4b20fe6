package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	byLanguage map[string]string
	err        error
	calls      [][]string
}

func (f *fakeSource) Fetch(_ context.Context, _ string, languages []string) (string, error) {
	f.calls = append(f.calls, languages)
	if f.err != nil {
		return "", f.err
	}
	key := ""
	if len(languages) > 0 {
		key = languages[0]
	}
	if text, ok := f.byLanguage[key]; ok {
		return text, nil
	}
	return "", errors.New("no track")
}

func TestRetrievePrefersConfiguredLanguage(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byLanguage: map[string]string{"ko": "한국어 자막"}}
	r := NewRetriever(src, []string{"ko"}, 3, nil, zap.NewNop())

	got := r.Retrieve(context.Background(), "vid1")

	assert.Equal(t, "한국어 자막", got)
	require.Len(t, src.calls, 1)
	assert.Equal(t, []string{"ko"}, src.calls[0])
}

func TestRetrieveFallsBackToAutoDetected(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byLanguage: map[string]string{"": "auto track"}}
	r := NewRetriever(src, []string{"ko"}, 3, nil, zap.NewNop())

	got := r.Retrieve(context.Background(), "vid1")

	assert.Equal(t, "auto track", got)
	require.Len(t, src.calls, 2)
	assert.Equal(t, []string{"ko"}, src.calls[0])
	assert.Nil(t, src.calls[1])
}

func TestRetrieveReturnsSentinelAfterBudget(t *testing.T) {
	t.Parallel()

	src := &fakeSource{err: errors.New("blocked")}
	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) { delays = append(delays, d) }
	r := NewRetriever(src, []string{"ko"}, 3, sleep, zap.NewNop())

	got := r.Retrieve(context.Background(), "vid1")

	assert.True(t, IsUnavailable(got))
	assert.Contains(t, got, "blocked")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	// each attempt tries preferred then auto
	assert.Len(t, src.calls, 6)
}

func TestIsUnavailable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUnavailable(Unavailable(errors.New("x"))))
	assert.False(t, IsUnavailable("an ordinary transcript"))
	assert.False(t, IsUnavailable(""))
}
