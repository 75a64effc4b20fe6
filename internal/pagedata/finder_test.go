package pagedata

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func videoRendererJSON(id, title, published, length, overlayStyle string) string {
	overlays := "[]"
	if overlayStyle != "" {
		overlays = fmt.Sprintf(
			`[{"thumbnailOverlayTimeStatusRenderer":{"style":%q}}]`, overlayStyle)
	}
	lengthText := ""
	if length != "" {
		lengthText = fmt.Sprintf(`"lengthText":{"simpleText":%q},`, length)
	}
	return fmt.Sprintf(`{
		"videoId": %q,
		"title": {"runs": [{"text": %q}]},
		"publishedTimeText": {"simpleText": %q},
		%s
		"thumbnailOverlays": %s
	}`, id, title, published, lengthText, overlays)
}

func TestFindCandidatesTwoColumnTabsWithRichGrid(t *testing.T) {
	t.Parallel()

	payload := mustPayload(t, fmt.Sprintf(`{
		"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
			{"tabRenderer": {"content": {"richGridRenderer": {"contents": [
				{"richItemRenderer": {"content": {"videoRenderer": %s}}},
				{"richItemRenderer": {"content": {"videoRenderer": %s}}}
			]}}}}
		]}}
	}`,
		videoRendererJSON("vid1", "Market Brief ep.12", "3 days ago", "12:34", ""),
		videoRendererJSON("vid2", "Unrelated upload", "1 day ago", "5:00", "")))

	got := FindCandidates(payload, "market brief")
	require.Len(t, got, 1)
	assert.Equal(t, "Market Brief ep.12", got[0].Title)
	assert.Equal(t, "vid1", got[0].VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", got[0].URL)
	assert.Equal(t, "3 days ago", got[0].UploadedText)
	assert.Equal(t, "12:34", got[0].Length)
	assert.True(t, got[0].Completed())
}

func TestFindCandidatesFlatSectionList(t *testing.T) {
	t.Parallel()

	payload := mustPayload(t, fmt.Sprintf(`{
		"contents": {"sectionListRenderer": {"contents": [
			{"itemSectionRenderer": {"contents": [
				{"videoRenderer": %s}
			]}}
		]}}
	}`, videoRendererJSON("vid3", "Morning Show live recap", "5 hours ago", "", "")))

	got := FindCandidates(payload, "morning show")
	require.Len(t, got, 1)
	assert.Equal(t, "vid3", got[0].VideoID)
	assert.Equal(t, "Unknown", got[0].Length, "missing length label defaults")
}

func TestFindCandidatesGridRendererInsideSection(t *testing.T) {
	t.Parallel()

	payload := mustPayload(t, fmt.Sprintf(`{
		"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
			{"tabRenderer": {"content": {"sectionListRenderer": {"contents": [
				{"itemSectionRenderer": {"contents": [
					{"gridRenderer": {"items": [
						{"gridVideoRenderer": %s}
					]}}
				]}}
			]}}}}
		]}}
	}`, videoRendererJSON("vid4", "Weekly Digest #8", "2 weeks ago", "45:01", "")))

	got := FindCandidates(payload, "digest")
	require.Len(t, got, 1)
	assert.Equal(t, "vid4", got[0].VideoID)
}

func TestFindCandidatesRanksLiveFirstUpcomingLast(t *testing.T) {
	t.Parallel()

	payload := mustPayload(t, fmt.Sprintf(`{
		"contents": {"sectionListRenderer": {"contents": [
			{"itemSectionRenderer": {"contents": [
				{"videoRenderer": %s},
				{"videoRenderer": %s},
				{"videoRenderer": %s}
			]}}
		]}}
	}`,
		videoRendererJSON("up", "show upcoming", "", "", "UPCOMING"),
		videoRendererJSON("normal", "show finished", "1 day ago", "10:00", ""),
		videoRendererJSON("live", "show live now", "", "", "LIVE")))

	got := FindCandidates(payload, "show")
	require.Len(t, got, 3)
	assert.Equal(t, "live", got[0].VideoID)
	assert.True(t, got[0].IsLive)
	assert.Equal(t, "normal", got[1].VideoID)
	assert.Equal(t, "up", got[2].VideoID)
	assert.True(t, got[2].IsUpcoming)
}

func TestFindCandidatesReadsLiveBadge(t *testing.T) {
	t.Parallel()

	payload := mustPayload(t, `{
		"contents": {"sectionListRenderer": {"contents": [
			{"itemSectionRenderer": {"contents": [
				{"videoRenderer": {
					"videoId": "badged",
					"title": {"runs": [{"text": "badge "}, {"text": "stream"}]},
					"badges": [{"metadataBadgeRenderer": {"style": "BADGE_STYLE_TYPE_LIVE_NOW"}}]
				}}
			]}}
		]}}
	}`)

	got := FindCandidates(payload, "badge stream")
	require.Len(t, got, 1)
	assert.True(t, got[0].IsLive)
	assert.Equal(t, "badge stream", got[0].Title, "title runs concatenate")
}

func TestFindCandidatesToleratesAbsentShapes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FindCandidates(mustPayload(t, `{"contents": {}}`), "kw"))
	assert.Empty(t, FindCandidates(mustPayload(t, `{"responseContext": {}}`), "kw"))
	assert.Empty(t, FindCandidates(nil, "kw"))
}

func TestFindCandidatesMergesShapesWithoutDuplicates(t *testing.T) {
	t.Parallel()

	renderer := videoRendererJSON("dup", "merged item", "1 day ago", "3:00", "")
	payload := mustPayload(t, fmt.Sprintf(`{
		"contents": {
			"sectionListRenderer": {"contents": [
				{"itemSectionRenderer": {"contents": [{"videoRenderer": %s}]}}
			]},
			"richGridRenderer": {"contents": [
				{"richItemRenderer": {"content": {"videoRenderer": %s}}}
			]}
		}
	}`, renderer, renderer))

	got := FindCandidates(payload, "merged")
	assert.Len(t, got, 1)
}
