// Package reltime converts the upload-time phrases shown on listing pages
// ("3 days ago", "3일 전", "Mar 13, 2024") into absolute timestamps.
package reltime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberPattern  = regexp.MustCompile(`(\d+)`)
	koreanDate     = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	englishDate    = regexp.MustCompile(`([A-Za-z]{3})\s*(\d{1,2}),?\s*(\d{4})`)
	englishMonths = map[string]time.Month{
		"Jan": time.January, "Feb": time.February, "Mar": time.March,
		"Apr": time.April, "May": time.May, "Jun": time.June,
		"Jul": time.July, "Aug": time.August, "Sep": time.September,
		"Oct": time.October, "Nov": time.November, "Dec": time.December,
	}
)

// relativeUnits maps phrase fragments to the duration of one unit. Months
// and years are deliberate approximations (30 and 365 days); the upstream
// phrases are themselves rounded, so calendar-exact math would be false
// precision.
var relativeUnits = []struct {
	markers []string
	unit    time.Duration
}{
	{[]string{"분 전", "minute ago", "minutes ago"}, time.Minute},
	{[]string{"시간 전", "hour ago", "hours ago"}, time.Hour},
	{[]string{"일 전", "day ago", "days ago"}, 24 * time.Hour},
	{[]string{"주 전", "week ago", "weeks ago"}, 7 * 24 * time.Hour},
	{[]string{"개월 전", "month ago", "months ago"}, 30 * 24 * time.Hour},
	{[]string{"년 전", "year ago", "years ago"}, 365 * 24 * time.Hour},
}

// Parse resolves text against the current wall clock.
func Parse(text string) time.Time {
	return ParseAt(text, time.Now())
}

// ParseAt resolves text relative to now. It fails open: any phrase it cannot
// interpret resolves to now, and no error escapes.
func ParseAt(text string, now time.Time) time.Time {
	if text == "" {
		return now
	}

	numMatch := numberPattern.FindStringSubmatch(text)
	if numMatch == nil {
		return now
	}
	quantity, err := strconv.Atoi(numMatch[1])
	if err != nil {
		return now
	}

	for _, ru := range relativeUnits {
		for _, marker := range ru.markers {
			if strings.Contains(text, marker) {
				return now.Add(-time.Duration(quantity) * ru.unit)
			}
		}
	}

	if m := koreanDate.FindStringSubmatch(text); m != nil {
		return absoluteDate(m[1], m[2], m[3], now)
	}
	if m := englishDate.FindStringSubmatch(text); m != nil {
		month, ok := englishMonths[m[1]]
		if !ok {
			return now
		}
		year, errY := strconv.Atoi(m[3])
		day, errD := strconv.Atoi(m[2])
		if errY != nil || errD != nil {
			return now
		}
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	}

	return now
}

func absoluteDate(yearStr, monthStr, dayStr string, now time.Time) time.Time {
	year, errY := strconv.Atoi(yearStr)
	month, errM := strconv.Atoi(monthStr)
	day, errD := strconv.Atoi(dayStr)
	if errY != nil || errM != nil || errD != nil || month < 1 || month > 12 {
		return now
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
}
