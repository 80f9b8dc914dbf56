package utils

import (
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// tokens are matched longest first so "MMMM" wins over "MM".
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"h", "3"},
	{"A", "PM"},
	{"a", "pm"},
}

// GoLayout converts a user-facing format such as "DD/MM/YYYY" or "hh:mm A" into
// a time layout. Characters that are not tokens are copied through.
func GoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		matched := false
		for _, t := range formatTokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// FormatDate renders t with a user-configured date format. An empty format
// falls back to ISO dates.
func FormatDate(t time.Time, format string) string {
	if format == "" {
		return t.Format(isoDate)
	}
	return t.Format(GoLayout(format))
}

// FormatTime renders the clock part of t with a user-configured time format.
func FormatTime(t time.Time, format string) string {
	if format == "" {
		format = "HH:mm"
	}
	return t.Format(GoLayout(format))
}

// FormatOptionalDate renders nil as an empty string.
func FormatOptionalDate(t *time.Time, format string) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t, format)
}

// ParseDate parses a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(isoDate, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", dateStr)
	}
	return t, nil
}

// ParseOptionalDate treats an empty string as "no date".
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	t, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SameDay compares calendar dates in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
