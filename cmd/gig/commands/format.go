package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gigapp/gig/backend/internal/calendar"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/internal/external/gig"
	"github.com/gigapp/gig/backend/internal/session"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints through a printer so output stays uniform
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
)

// printer writes command output
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

// JSON prints v indented
func (p *printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header prints a titled block header
func (p *printer) Header(title string) {
	fmt.Fprintln(p.w, doubleLine)
	fmt.Fprintf(p.w, "  %s\n", title)
	fmt.Fprintln(p.w, singleLine)
}

// Separator prints a visual separator
func (p *printer) Separator() {
	fmt.Fprintln(p.w, singleLine)
}

// Success prints a success message
func (p *printer) Success(message string) {
	fmt.Fprintf(p.w, "✅ %s\n", message)
}

// Error prints an error message
func (p *printer) Error(message string) {
	fmt.Fprintf(p.w, "❌ %s\n", message)
}

// Info prints an info message
func (p *printer) Info(message string) {
	fmt.Fprintf(p.w, "ℹ️  %s\n", message)
}

// KeyValue prints key-value pairs
func (p *printer) KeyValue(key, value string, keyWidth int) {
	fmt.Fprintf(p.w, "   %-*s : %s\n", keyWidth, key, value)
}

// TableHeader prints a table header
func (p *printer) TableHeader(columns []string, widths []int) {
	p.TableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(p.w, strings.Repeat("─", totalWidth))
}

// TableRow prints a table row
func (p *printer) TableRow(values []string, widths []int) {
	for i, val := range values {
		if i < len(values)-1 {
			fmt.Fprintf(p.w, "%-*s  ", widths[i], val)
		} else {
			fmt.Fprint(p.w, val)
		}
	}
	fmt.Fprintln(p.w)
}

// Card prints one contract card
func (p *printer) Card(v card.View) {
	fmt.Fprintf(p.w, "#%s  %s", v.ID, v.Title)
	if v.EventType != "" {
		fmt.Fprintf(p.w, " (%s)", v.EventType)
	}
	fmt.Fprintf(p.w, "  [%s]\n", v.StatusLabel)

	p.KeyValue("With", v.Counterpart, 8)
	when := v.Date
	if v.StartTime != "" || v.EndTime != "" {
		when = fmt.Sprintf("%s %s-%s", v.Date, v.StartTime, v.EndTime)
	}
	p.KeyValue("When", when, 8)
	p.KeyValue("Budget", v.Budget, 8)
	if v.Details != "" {
		p.KeyValue("Details", v.Details, 8)
	}

	switch {
	case len(v.Actions) > 0:
		labels := make([]string, len(v.Actions))
		for i, a := range v.Actions {
			labels[i] = fmt.Sprintf("%s (gig %s %s)", a.Label(), a, v.ID)
		}
		p.KeyValue("Actions", strings.Join(labels, ", "), 8)
	case v.CancelLocked:
		p.KeyValue("Actions", fmt.Sprintf("cancellation closed (%d days notice required)", contracts.CancellationNoticeDays), 8)
	}
}

// Cards prints a tab of cards or its empty state
func (p *printer) Cards(tab contracts.Tab, views []card.View) {
	p.Header(fmt.Sprintf("%s contracts (%d)", tab.Label(), len(views)))
	if len(views) == 0 {
		p.Info(contracts.EmptyStateMessage(tab))
		return
	}
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.Card(v)
	}
}

// Dashboard prints the summary tiles, the revenue bars and the next shows
func (p *printer) Dashboard(s dashboard.Summary) {
	p.Header("Dashboard")
	if s.Empty() {
		p.Info(contracts.EmptyStateMessage(contracts.TabAll))
		return
	}

	p.KeyValue("Total revenue", money(s.TotalRevenue), 18)
	p.KeyValue("Pending", fmt.Sprint(s.PendingCount), 18)
	p.KeyValue("Upcoming confirmed", fmt.Sprint(s.UpcomingConfirmedCount), 18)
	p.Separator()

	chart := s.Chart()
	top := 0.0
	for _, pt := range chart.Revenue {
		if pt.Value > top {
			top = pt.Value
		}
	}
	for _, pt := range chart.Revenue {
		bar := 0
		if top > 0 {
			bar = int(pt.Value / top * 30)
		}
		fmt.Fprintf(p.w, "   %s %-30s %s\n", pt.Label, strings.Repeat("█", bar), money(pt.Value))
	}
	p.Separator()

	parts := make([]string, 0, len(chart.Status))
	for _, pt := range chart.Status {
		parts = append(parts, fmt.Sprintf("%s %d", pt.Label, int(pt.Value)))
	}
	p.KeyValue("By status", strings.Join(parts, " · "), 18)

	if len(s.NextUpcoming) > 0 {
		p.Separator()
		fmt.Fprintln(p.w, "   Next up:")
		for _, c := range s.NextUpcoming {
			fmt.Fprintf(p.w, "   • %s  %s\n", contracts.NormalizeDate(c.EventDate), c.EventName)
		}
	}
}

// Calendar prints the marked dates in order
func (p *printer) Calendar(marks map[string]calendar.Marker) {
	p.Header("Confirmed dates")
	if len(marks) == 0 {
		p.Info("No confirmed contracts on the calendar.")
		return
	}

	dates := make([]string, 0, len(marks))
	for d := range marks {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		fmt.Fprintf(p.w, "   • %s  (%d)\n", d, marks[d].Count)
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// explain turns common failures into something actionable
func explain(err error) error {
	var apiErr *gig.APIError
	switch {
	case errors.Is(err, session.ErrNoSession):
		return fmt.Errorf("%w: run `gig login --token <token>` first", err)
	case errors.As(err, &apiErr) && apiErr.Unauthorized():
		return fmt.Errorf("session expired or invalid, run `gig login` again: %w", err)
	case errors.Is(err, contracts.ErrNoRole):
		return fmt.Errorf("%w: create a band or venue profile in the app first", err)
	default:
		return err
	}
}
