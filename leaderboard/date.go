package leaderboard

import (
	"regexp"
	"strconv"
	"time"
)

// asOfPattern matches the publication marker, e.g. "2024年3月31日現在".
var asOfPattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日現在`)

// ExtractDate returns the first as-of date found in markup. A match that is
// not a real calendar date (2024年2月30日) counts as absent.
func ExtractDate(markup string) (time.Time, bool) {
	m := asOfPattern.FindStringSubmatch(markup)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
