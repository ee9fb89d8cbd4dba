package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

// dateLayouts are the date shapes seen in hand-authored headers.
var dateLayouts = []string{
	"1/2/2006",      // 11/6/2024
	"1-2-2006",      // 11-6-2024
	"2006-1-2",      // 2024-11-06
	"January 2 2006",
	"Jan 2 2006",
}

var (
	digitRunRe  = regexp.MustCompile(`\d+`)
	clockRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)?`)
	numberWords = []struct {
		word string
		n    int
	}{
		{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
		{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
	}
)

// ParseDate accepts the known layouts, then falls back to pulling the first
// three digit runs and guessing year-first vs month-first: a leading number
// above 12 can only be a year. Two-digit years are offset by 2000.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}

	nums := digitRunRe.FindAllString(s, -1)
	if len(nums) < 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	n := make([]int, 3)
	for i := 0; i < 3; i++ {
		n[i], _ = strconv.Atoi(nums[i])
	}

	var year, month, day int
	if n[0] > 12 { // year first
		year, month, day = n[0], n[1], n[2]
	} else { // month first
		year, month, day = n[2], n[0], n[1]
		if year < 100 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("implausible date %q", s)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		// time.Date normalized an overflow like Feb 31.
		return time.Time{}, fmt.Errorf("implausible date %q", s)
	}
	return d, nil
}

// ParseTime reads H:MM with an optional AM/PM suffix, adjusting 12-hour
// values to 24-hour. Anything else falls back to noon.
func ParseTime(s string) core.TimeOfDay {
	s = strings.ToUpper(strings.TrimSpace(s))
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return core.Noon
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	switch m[3] {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return core.TimeOfDay{Hour: hour, Minute: minute}
}

// ParsePartySize reads a party-size cell: "self" means 1, English number
// words one through ten are recognized, otherwise the first digit run wins.
// Unparseable input defaults to 1.
func ParsePartySize(s string) int {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "self") {
		return 1
	}
	for _, nw := range numberWords {
		if strings.Contains(lower, nw.word) {
			return nw.n
		}
	}
	if m := digitRunRe.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 1
}
