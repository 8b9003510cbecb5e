package contracts

import (
	"fmt"
	"strings"
)

// Tab is the active filter of the contracts screen
type Tab string

const (
	TabAll       Tab = "all"
	TabPending   Tab = "pending"
	TabConfirmed Tab = "confirmed"
	TabDeclined  Tab = "declined"
	TabCanceled  Tab = "canceled"
)

// Tabs lists the tabs in screen order
var Tabs = []Tab{TabAll, TabPending, TabConfirmed, TabDeclined, TabCanceled}

// ParseTab parses a tab name case-insensitively; empty means All
func ParseTab(raw string) (Tab, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return TabAll, nil
	}
	for _, tab := range Tabs {
		if string(tab) == raw {
			return tab, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (want one of all, pending, confirmed, declined, canceled)", raw)
}

// ShowsDashboard is true for the All tab, which renders the dashboard instead of a list
func (t Tab) ShowsDashboard() bool {
	return t == TabAll
}

// Status returns the status a list tab filters on
func (t Tab) Status() (Status, bool) {
	switch t {
	case TabPending:
		return StatusPending, true
	case TabConfirmed:
		return StatusConfirmed, true
	case TabDeclined:
		return StatusDeclined, true
	case TabCanceled:
		return StatusCanceled, true
	default:
		return "", false
	}
}

// Label returns the tab title
func (t Tab) Label() string {
	if t == TabAll {
		return "All"
	}
	status, _ := t.Status()
	return status.Label()
}

// FilterContracts keeps the contracts whose status matches the tab, in source
// order. All returns a copy of the whole collection. A nil collection is empty.
func FilterContracts(collection []Contract, tab Tab) []Contract {
	if tab == TabAll {
		out := make([]Contract, len(collection))
		copy(out, collection)
		return out
	}

	status, ok := tab.Status()
	if !ok {
		return []Contract{}
	}

	out := make([]Contract, 0, len(collection))
	for _, c := range collection {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// EmptyStateMessage names the tab when there is nothing to show
func EmptyStateMessage(tab Tab) string {
	if tab == TabAll {
		return "You have no contracts yet."
	}
	return fmt.Sprintf("You have no %s contracts.", strings.ToLower(tab.Label()))
}
