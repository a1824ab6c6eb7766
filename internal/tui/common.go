package tui

import (
	"fmt"
	"time"

	"github.com/worklens/worklens/internal/analytics"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewEntries
	viewReports
	viewCompare
	viewSettings
)

var viewNames = []string{"Dashboard", "Entries", "Reports", "Compare", "Settings"}

// --- Messages ---

// entriesLoadedMsg carries the parsed record set to every view. Rows
// with malformed hours arrive as warnings, not entries.
type entriesLoadedMsg struct {
	entries  []analytics.TimeEntry
	warnings []analytics.Warning
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct{}

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.2fh", analytics.Round2(h))
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", analytics.Round2(v))
}

// formatChange renders a comparison delta with sign, or the infinity
// sign for an undefined change.
func formatChange(r analytics.ComparisonResult) string {
	if r.Undefined() {
		return "+∞%"
	}
	return fmt.Sprintf("%+.2f%%", r.PercentChange)
}

// lastNDays returns the range covering today and the n-1 days before it.
func lastNDays(n int) analytics.DateRange {
	today := analytics.DateOnly(time.Now())
	return analytics.DateRange{Start: today.AddDate(0, 0, -(n - 1)), End: today}
}

// previousPeriod returns the same-length range immediately before r.
func previousPeriod(r analytics.DateRange) analytics.DateRange {
	days := r.Days()
	return analytics.DateRange{
		Start: r.Start.AddDate(0, 0, -days),
		End:   r.Start.AddDate(0, 0, -1),
	}
}

// shiftRange moves a range by whole periods of its own length.
// Negative n moves back in time.
func shiftRange(r analytics.DateRange, n int) analytics.DateRange {
	days := r.Days() * n
	return analytics.DateRange{
		Start: r.Start.AddDate(0, 0, days),
		End:   r.End.AddDate(0, 0, days),
	}
}

func criteriaFor(r analytics.DateRange) analytics.Criteria {
	return analytics.Criteria{DateStart: r.Start, DateEnd: r.End}
}

func rangeLabel(r analytics.DateRange) string {
	return fmt.Sprintf("%s — %s", r.Start.Format("Jan 02"), r.End.Format("Jan 02, 2006"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
