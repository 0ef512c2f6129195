// Package dates parses the free-text date cells of the catalogue sheet and
// renders calendar keys for the agenda.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// KeyLayout is the layout of agenda date keys.
const KeyLayout = "2006-01-02"

var (
	isoPrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dayFirst  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

// Parse interprets value as a calendar date in loc.
// Accepted shapes, in order: a YYYY-MM-DD prefix, D/M/Y or D-M-Y with a two or
// four digit year (two digit years are 20YY), then any format dateparse
// recognises. The boolean is false for blank or unrecognised input, and for a
// YYYY-MM-DD prefix that names no calendar day.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := isoPrefix.FindStringSubmatch(value); m != nil {
		return exact(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc)
	}

	if m := dayFirst.FindStringSubmatch(value); m != nil {
		year := atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return civil(year, atoi(m[2]), atoi(m[1]), loc), true
	}

	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(loc), true
}

// Key renders the YYYY-MM-DD key of t from its own calendar fields.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey returns the local midnight named by a YYYY-MM-DD key.
func ParseKey(key string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(KeyLayout, key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// civil builds local midnight; out-of-range months and days roll over.
func civil(year, month, day int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// exact builds local midnight only when the fields name a real calendar day.
func exact(year, month, day int, loc *time.Location) (time.Time, bool) {
	t := civil(year, month, day, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// atoi converts a regexp digit group; the pattern guarantees it parses.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
