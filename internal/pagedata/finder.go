package pagedata

import (
	"sort"
	"strings"

	"channelwatch/internal/watch"
)

// shapeStrategy extracts candidates from one known payload nesting shape.
// Strategies are pure and independent: a shape that is absent from the
// payload contributes nothing, and new shapes are added by appending here.
type shapeStrategy func(data map[string]any, keyword string) []watch.Candidate

var shapeStrategies = []shapeStrategy{
	twoColumnTabsShape,
	flatSectionListShape,
	topLevelRichGridShape,
}

// FindCandidates walks the payload across every known shape and returns the
// merged, keyword-matching candidates ranked live first, completed content in
// the middle, upcoming last. Discovery order is preserved within each tier.
func FindCandidates(data map[string]any, keyword string) []watch.Candidate {
	if data == nil {
		return nil
	}
	var merged []watch.Candidate
	seen := map[string]bool{}
	for _, strategy := range shapeStrategies {
		for _, c := range strategy(data, keyword) {
			if c.VideoID == "" || seen[c.VideoID] {
				continue
			}
			seen[c.VideoID] = true
			merged = append(merged, c)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return tierOf(merged[i]) < tierOf(merged[j])
	})
	return merged
}

func tierOf(c watch.Candidate) int {
	switch {
	case c.IsLive:
		return -1
	case c.IsUpcoming:
		return 1
	default:
		return 0
	}
}

// twoColumnTabsShape handles the tabbed two-column layout: tabs each carry a
// section list or a rich grid of items.
func twoColumnTabsShape(data map[string]any, keyword string) []watch.Candidate {
	tabs := getSlice(data, "contents", "twoColumnBrowseResultsRenderer", "tabs")
	var out []watch.Candidate
	for _, tab := range tabs {
		tabMap, ok := tab.(map[string]any)
		if !ok {
			continue
		}
		content := getMap(tabMap, "tabRenderer", "content")
		if content == nil {
			continue
		}
		out = append(out, sectionListItems(content, keyword)...)
		out = append(out, richGridItems(content, keyword)...)
	}
	return out
}

// flatSectionListShape handles the layout where the section list sits
// directly under contents, without tabs.
func flatSectionListShape(data map[string]any, keyword string) []watch.Candidate {
	sectionList := getMap(data, "contents", "sectionListRenderer")
	if sectionList == nil {
		return nil
	}
	return sectionListItems(map[string]any{"sectionListRenderer": sectionList}, keyword)
}

// topLevelRichGridShape handles the layout where the rich grid sits directly
// under contents.
func topLevelRichGridShape(data map[string]any, keyword string) []watch.Candidate {
	grid := getMap(data, "contents", "richGridRenderer")
	if grid == nil {
		return nil
	}
	return richGridItems(map[string]any{"richGridRenderer": grid}, keyword)
}

func sectionListItems(content map[string]any, keyword string) []watch.Candidate {
	var out []watch.Candidate
	for _, section := range getSlice(content, "sectionListRenderer", "contents") {
		sectionMap, ok := section.(map[string]any)
		if !ok {
			continue
		}
		for _, item := range getSlice(sectionMap, "itemSectionRenderer", "contents") {
			itemMap, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, gridItem := range getSlice(itemMap, "gridRenderer", "items") {
				gridMap, ok := gridItem.(map[string]any)
				if !ok {
					continue
				}
				if renderer := getMap(gridMap, "gridVideoRenderer"); renderer != nil {
					if c, ok := candidateFromRenderer(renderer, keyword); ok {
						out = append(out, c)
					}
				}
			}
			if renderer := getMap(itemMap, "videoRenderer"); renderer != nil {
				if c, ok := candidateFromRenderer(renderer, keyword); ok {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func richGridItems(content map[string]any, keyword string) []watch.Candidate {
	var out []watch.Candidate
	for _, item := range getSlice(content, "richGridRenderer", "contents") {
		itemMap, ok := item.(map[string]any)
		if !ok {
			continue
		}
		renderer := getMap(itemMap, "richItemRenderer", "content", "videoRenderer")
		if renderer == nil {
			continue
		}
		if c, ok := candidateFromRenderer(renderer, keyword); ok {
			out = append(out, c)
		}
	}
	return out
}

// candidateFromRenderer extracts one candidate from a video renderer node.
// Live and upcoming status come from either the thumbnail overlay status or
// the badge field, whichever the variant carries.
func candidateFromRenderer(renderer map[string]any, keyword string) (watch.Candidate, bool) {
	var title strings.Builder
	for _, run := range getSlice(renderer, "title", "runs") {
		runMap, ok := run.(map[string]any)
		if !ok {
			continue
		}
		title.WriteString(getString(runMap, "text"))
	}
	if !strings.Contains(strings.ToLower(title.String()), strings.ToLower(keyword)) {
		return watch.Candidate{}, false
	}

	videoID := getString(renderer, "videoId")
	c := watch.Candidate{
		Title:        title.String(),
		VideoID:      videoID,
		URL:          watch.WatchURL(videoID),
		UploadedText: getString(renderer, "publishedTimeText", "simpleText"),
		Length:       "Unknown",
	}
	if length := getString(renderer, "lengthText", "simpleText"); length != "" {
		c.Length = length
	}

	for _, badge := range getSlice(renderer, "badges") {
		badgeMap, ok := badge.(map[string]any)
		if !ok {
			continue
		}
		if getString(badgeMap, "metadataBadgeRenderer", "style") == "BADGE_STYLE_TYPE_LIVE_NOW" {
			c.IsLive = true
		}
	}
	for _, overlay := range getSlice(renderer, "thumbnailOverlays") {
		overlayMap, ok := overlay.(map[string]any)
		if !ok {
			continue
		}
		switch getString(overlayMap, "thumbnailOverlayTimeStatusRenderer", "style") {
		case "UPCOMING":
			c.IsUpcoming = true
		case "LIVE":
			c.IsLive = true
		}
	}
	return c, true
}

func getMap(m map[string]any, path ...string) map[string]any {
	current := m
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func getSlice(m map[string]any, path ...string) []any {
	if len(path) == 0 {
		return nil
	}
	parent := m
	if len(path) > 1 {
		parent = getMap(m, path[:len(path)-1]...)
		if parent == nil {
			return nil
		}
	}
	s, _ := parent[path[len(path)-1]].([]any)
	return s
}

func getString(m map[string]any, path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := m
	if len(path) > 1 {
		parent = getMap(m, path[:len(path)-1]...)
		if parent == nil {
			return ""
		}
	}
	s, _ := parent[path[len(path)-1]].(string)
	return s
}
