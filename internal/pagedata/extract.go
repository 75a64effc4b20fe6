// Package pagedata pulls the embedded listing payload out of a channel page
// and finds keyword-matching video candidates inside it.
package pagedata

import (
	"encoding/json"
	"regexp"

	"go.uber.org/zap"
)

// The payload is embedded as a variable assignment whose exact form drifts
// across page variants. Patterns are tried in order; the first match wins.
var payloadPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)var\s+ytInitialData\s*=\s*(\{.+?\});</script>`),
	regexp.MustCompile(`(?s)window\["ytInitialData"\]\s*=\s*(\{.+?\});`),
	regexp.MustCompile(`(?s)ytInitialData\s*=\s*(\{.+?\});`),
}

// Extract parses the embedded payload from raw page HTML. It returns nil if
// no pattern matches or the captured span is not valid JSON; it never fails.
func Extract(html []byte, logger *zap.Logger) map[string]any {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, pattern := range payloadPatterns {
		match := pattern.FindSubmatch(html)
		if match == nil {
			continue
		}
		var data map[string]any
		if err := json.Unmarshal(match[1], &data); err != nil {
			logger.Warn("embedded payload is not valid JSON", zap.Error(err))
			return nil
		}
		return data
	}
	logger.Warn("no embedded payload found in page")
	return nil
}
