package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelwatch/internal/watch"
)

func TestAddSourceAssignsIDsAndPreservesOrder(t *testing.T) {
	t.Parallel()

	store := New()
	a := store.AddSource(watch.Source{Name: "a"})
	b := store.AddSource(watch.Source{Name: "b"})
	assert.NotEqual(t, a.ID, b.ID)

	sources, err := store.ListSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a", sources[0].Name)
	assert.Equal(t, "b", sources[1].Name)
}

func TestSetActiveUnknownSource(t *testing.T) {
	t.Parallel()

	store := New()
	err := store.SetActive(context.Background(), "missing", true)
	require.Error(t, err)
}

func TestActivateAllCountsEverySource(t *testing.T) {
	t.Parallel()

	store := New()
	a := store.AddSource(watch.Source{Name: "a", Active: false})
	store.AddSource(watch.Source{Name: "b", Active: true})

	count, err := store.ActivateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	src, ok := store.Source(a.ID)
	require.True(t, ok)
	assert.True(t, src.Active)
}

func TestActivateAllIsIdempotent(t *testing.T) {
	t.Parallel()

	store := New()
	a := store.AddSource(watch.Source{Name: "a", Active: false})
	b := store.AddSource(watch.Source{Name: "b", Active: true})

	first, err := store.ActivateAll(context.Background())
	require.NoError(t, err)
	second, err := store.ActivateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, id := range []string{a.ID, b.ID} {
		src, ok := store.Source(id)
		require.True(t, ok)
		assert.True(t, src.Active)
	}
}

func TestRecordsDedupByURL(t *testing.T) {
	t.Parallel()

	store := New()
	url := "https://www.youtube.com/watch?v=abc"

	exists, err := store.Exists(context.Background(), url)
	require.NoError(t, err)
	assert.False(t, exists)

	id, err := store.CreateRecord(context.Background(), watch.Record{Title: "t", URL: url})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	exists, err = store.Exists(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFailureToggles(t *testing.T) {
	t.Parallel()

	store := New()
	src := store.AddSource(watch.Source{Name: "a"})

	store.FailUpdate = true
	require.Error(t, store.SetActive(context.Background(), src.ID, true))

	store.FailCreate = true
	_, err := store.CreateRecord(context.Background(), watch.Record{URL: "u"})
	require.Error(t, err)
}
