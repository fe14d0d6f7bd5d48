package docparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// The four date shapes, applied over the whole text in this order. The
// numeric slash/dash shape inherits the month-first vs day-first ambiguity
// of the host parser; day-first strings with a month > 12 simply fail to
// parse and are dropped.
var (
	reNumericDate  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	reISODate      = regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	reMonthDayYear = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	reDayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlt + `)\.?\s+(\d{4})\b`)
)

var (
	numericLayouts = []string{"1/2/2006", "1-2-2006", "1/2/06", "1-2-06"}
	isoLayouts     = []string{"2006-1-2", "2006/1/2"}
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// harvestDates collects every parseable date-shaped token, scanning
// pattern-by-pattern: all numeric matches first, then ISO, then the two
// month-name shapes. Failed parses are dropped silently.
func harvestDates(text string) []time.Time {
	out := []time.Time{}
	for _, m := range reNumericDate.FindAllString(text, -1) {
		if t, ok := parseWithLayouts(m, numericLayouts); ok {
			out = append(out, t)
		}
	}
	for _, m := range reISODate.FindAllString(text, -1) {
		if t, ok := parseWithLayouts(m, isoLayouts); ok {
			out = append(out, t)
		}
	}
	for _, m := range reMonthDayYear.FindAllStringSubmatch(text, -1) {
		if t, ok := monthNameDate(m[1], m[2], m[3]); ok {
			out = append(out, t)
		}
	}
	for _, m := range reDayMonthYear.FindAllStringSubmatch(text, -1) {
		if t, ok := monthNameDate(m[2], m[1], m[3]); ok {
			out = append(out, t)
		}
	}
	return out
}

func parseWithLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func monthNameDate(monthName, dayStr, yearStr string) (time.Time, bool) {
	month, ok := monthFromName(monthName)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	return makeDate(year, month, day)
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) > 3 {
		name = name[:3]
	}
	m, ok := monthsByPrefix[name]
	return m, ok
}

// makeDate rejects day/month combinations that time.Date would silently
// normalize (Feb 30 -> Mar 2).
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseLooseDate parses a labeled capture: first line only, trimmed, first
// date-shaped token wins.
func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return time.Time{}, false
	}
	dates := harvestDates(s)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[0], true
}
