package pagedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractMatchesEachPatternVariant(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"script tag": `<html><script>var ytInitialData = {"contents":{"a":1}};</script></html>`,
		"window key": `<html><script>window["ytInitialData"] = {"contents":{"a":1}};</script></html>`,
		"bare":       `<html><script>ytInitialData = {"contents":{"a":1}};</script></html>`,
	}
	for name, page := range pages {
		data := Extract([]byte(page), zap.NewNop())
		require.NotNil(t, data, "variant %s", name)
		assert.Contains(t, data, "contents", "variant %s", name)
	}
}

func TestExtractReturnsNilWhenPayloadAbsent(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Extract([]byte("<html><body>no payload here</body></html>"), zap.NewNop()))
	assert.Nil(t, Extract(nil, zap.NewNop()))
}

func TestExtractReturnsNilOnBrokenJSON(t *testing.T) {
	t.Parallel()

	page := `<script>var ytInitialData = {"contents":[};</script>`
	assert.Nil(t, Extract([]byte(page), zap.NewNop()))
}

func TestExtractPrefersFirstPattern(t *testing.T) {
	t.Parallel()

	page := `<script>var ytInitialData = {"from":"script"};</script>` +
		`<script>window["ytInitialData"] = {"from":"window"};</script>`
	data := Extract([]byte(page), zap.NewNop())
	require.NotNil(t, data)
	assert.Equal(t, "script", data["from"])
}
