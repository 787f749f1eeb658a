package helper

import (
	"strings"
	"time"
)

// DateStatus represents how far we are from a due date.
type DateStatus struct {
	Past     bool // true if due date already passed (after end of that day)
	DaysLeft int  // number of full days left (negative if past)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123,
}

// ParseDate accepts the date shapes the API and HTML date inputs produce.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Contains(s, ":") {
		// drop fractional seconds and offset from "2006-01-02 15:04:05.999+00:00"
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetDateStatus returns whether a date has passed and how many days remain.
func GetDateStatus(dueDate string, now time.Time) (DateStatus, bool) {
	due, ok := ParseDate(dueDate)
	if !ok {
		return DateStatus{}, false
	}

	// compare using whole days
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysLeft := int(dueDay.Sub(today).Hours() / 24)
	return DateStatus{Past: today.After(dueDay), DaysLeft: daysLeft}, true
}

// FormatDate renders an API date as "Jan 2, 2006", or returns s unchanged.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}
