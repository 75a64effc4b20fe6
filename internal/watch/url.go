package watch

import "strings"

const watchURLPrefix = "https://www.youtube.com/watch?v="

// IsChannelURL reports whether raw points at a channel handle page.
// Anything else in the URL column of a source row is a configuration error.
func IsChannelURL(raw string) bool {
	return strings.Contains(raw, "youtube.com/@")
}

// NormalizeListingURL points a channel URL at its streams listing unless it
// already targets a listing path.
func NormalizeListingURL(raw string) string {
	if strings.HasSuffix(raw, "/streams") || strings.HasSuffix(raw, "/videos") {
		return raw
	}
	return raw + "/streams"
}

// WatchURL builds the canonical video URL for an ID. This is the dedup key
// for processed records.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}
