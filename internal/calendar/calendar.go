// Package calendar derives the calendar markers and the per-day agenda
// from a contract collection. Only confirmed contracts appear.
package calendar

import (
	"sort"
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// NormalizeDate returns the YYYY-MM-DD key for a date or date-time string
func NormalizeDate(raw string) string {
	return contracts.NormalizeDate(raw)
}

// Marker decorates one calendar day
type Marker struct {
	Marked bool `json:"marked"`
	Count  int  `json:"count"`
}

// MarkedDates returns one marker per normalized date that has at least one
// confirmed contract. Dates without one are absent.
func MarkedDates(collection []contracts.Contract) map[string]Marker {
	marks := make(map[string]Marker)
	for _, c := range collection {
		if c.Status != contracts.StatusConfirmed {
			continue
		}
		key := NormalizeDate(c.EventDate)
		if key == "" {
			continue
		}
		m := marks[key]
		m.Marked = true
		m.Count++
		marks[key] = m
	}
	return marks
}

// AgendaForDate returns the confirmed contracts whose normalized event date
// equals date, ascending by event date-time. Ties keep source order.
func AgendaForDate(collection []contracts.Contract, date string) []contracts.Contract {
	key := NormalizeDate(date)
	agenda := make([]contracts.Contract, 0)
	for _, c := range collection {
		if c.Status == contracts.StatusConfirmed && NormalizeDate(c.EventDate) == key {
			agenda = append(agenda, c)
		}
	}

	sort.SliceStable(agenda, func(i, j int) bool {
		return eventBefore(agenda[i].EventDate, agenda[j].EventDate)
	})
	return agenda
}

// eventLayouts are tried in order; values without an offset are local time
var eventLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	contracts.DateLayout,
}

func parseEventInstant(raw string) (time.Time, bool) {
	for _, layout := range eventLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// eventBefore compares two event dates as instants, or as raw strings when
// either does not parse
func eventBefore(a, b string) bool {
	ta, okA := parseEventInstant(a)
	tb, okB := parseEventInstant(b)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}
