package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsChannelURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsChannelURL("https://www.youtube.com/@somechannel"))
	assert.False(t, IsChannelURL("https://www.youtube.com/watch?v=abc"))
	assert.False(t, IsChannelURL("https://example.com/@somechannel"))
	assert.False(t, IsChannelURL(""))
}

func TestNormalizeListingURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.youtube.com/@ch/streams",
		NormalizeListingURL("https://www.youtube.com/@ch"))
	assert.Equal(t,
		"https://www.youtube.com/@ch/streams",
		NormalizeListingURL("https://www.youtube.com/@ch/streams"))
	assert.Equal(t,
		"https://www.youtube.com/@ch/videos",
		NormalizeListingURL("https://www.youtube.com/@ch/videos"))
}

func TestWatchURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", WatchURL("abc123"))
}
