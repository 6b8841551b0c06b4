package timex

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the canonical textual form of a calendar date.
const DateLayout = "2006-01-02"

var inputLayouts = []string{
	DateLayout,
	"20060102",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006.01.02",
	time.RFC3339,
}

// ParseDate accepts the date spellings users type or spreadsheets produce
// (2024-01-15, 20240115, 2024/01/15, ...) and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeDate returns s in DateLayout form.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate drops the time of day, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to t. Overflowing days roll into the next
// month (Jan 31 + 1 month = Mar 2 or 3), the same normalization as
// time.AddDate.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// MonthsBetween counts calendar months from start to end by year and month
// only; the day of month is ignored.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// CeilDays returns d expressed in days, rounded up.
func CeilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
