package engine

import (
	"strings"
	"time"
)

// DateLayout is the fixed DD/MM/YYYY layout of every date field.
const DateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY string as a UTC date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
