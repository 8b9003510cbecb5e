package contracts

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and as map keys
const DateLayout = "2006-01-02"

// NormalizeDate returns the YYYY-MM-DD prefix of a date or date-time string.
// Shorter input is returned trimmed, so the function is idempotent.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(DateLayout) {
		return raw[:len(DateLayout)]
	}
	return raw
}

// ParseDay parses the date part of raw as a naive local calendar date.
// The time-of-day and any offset in raw are ignored.
func ParseDay(raw string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, NormalizeDate(raw), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CalendarDay drops the time-of-day, keeping t's own year/month/day
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from -> to (negative if to is earlier)
func DaysBetween(from, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}

// EventDay is the contract's event date as a local calendar date
func (c Contract) EventDay() (time.Time, bool) {
	return ParseDay(c.EventDate)
}
