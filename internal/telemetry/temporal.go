package telemetry

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

var (
	// day-month-year with a four digit year, anything after it is the time part
	dmyPattern  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})(.*)$`)
	timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp][Mm])?$`)
)

// fallbackLayouts are tried after ISO 8601 when the day-month-year pattern does not match.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// ParseTimestamp converts date/time text into epoch milliseconds.
//
// "DD-MM-YYYY" and "DD/MM/YYYY" are read day first, optionally followed by
// "H:MM[:SS] [AM|PM]". Anything else must be ISO 8601 or one of the fallback
// layouts. Zone-less input is interpreted in loc (time.Local when nil).
// The boolean is false when no valid calendar instant could be produced.
func ParseTimestamp(text string, loc *time.Location) (int64, bool) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		t, ok := parseDayMonthYear(m, loc)
		if !ok {
			return 0, false
		}
		return t.UnixMilli(), true
	}

	if t, err := iso8601.ParseInLocation([]byte(s), loc); err == nil {
		return t.UnixMilli(), true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

func parseDayMonthYear(m []string, loc *time.Location) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	hour, minute, second := 0, 0, 0
	if rest := strings.TrimSpace(m[4]); rest != "" {
		var ok bool
		hour, minute, second, ok = parseClock(rest)
		if !ok {
			return time.Time{}, false
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalizes overflow (31-02 -> 03-03); treat that as invalid input
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseClock reads "H:MM[:SS] [AM|PM]". With a meridiem the hour must be 1-12,
// without one it is taken as a 24-hour value.
func parseClock(s string) (hour, minute, second int, ok bool) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if minute > 59 || second > 59 {
		return 0, 0, 0, false
	}

	switch strings.ToUpper(m[4]) {
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, 0, 0, false
		}
	}
	return hour, minute, second, true
}
