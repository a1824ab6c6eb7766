package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/worklens/worklens/internal/analytics"
	"github.com/worklens/worklens/internal/store"
)

// dashboardModel summarizes the default reporting period: headline
// totals, the top projects, and the billable summary. The hourly rate
// comes from settings; a zero rate hides the billable panel.
type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	entries  []analytics.TimeEntry
	warnings []analytics.Warning
	pipeline *analytics.Pipeline

	rng      analytics.DateRange
	filtered []analytics.TimeEntry
	buckets  []analytics.Bucket
	billable analytics.BillableSummary
	rate     float64
}

func newDashboardModel(s *store.Store) dashboardModel {
	days := 30
	if s != nil {
		days = s.GetIntSetting("default_range_days", 30)
	}
	return dashboardModel{
		store:    s,
		pipeline: analytics.NewPipeline(),
		rng:      lastNDays(days),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) recompute() dashboardModel {
	if d.store != nil {
		d.rate = d.store.GetFloatSetting("billable_rate", 0)
	}
	filtered, buckets, err := d.pipeline.Run(d.entries, criteriaFor(d.rng), analytics.ByProject)
	if err != nil {
		d.filtered, d.buckets = nil, nil
		return d
	}
	d.filtered = filtered
	d.buckets = buckets
	d.billable = analytics.Billable(filtered, analytics.FlatRate(d.rate))
	return d
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		d.entries = msg.entries
		d.warnings = msg.warnings
		d.pipeline.Invalidate()
		return d.recompute(), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			d.rng = shiftRange(d.rng, -1)
			return d.recompute(), nil
		case key.Matches(msg, keys.Right):
			d.rng = shiftRange(d.rng, 1)
			return d.recompute(), nil
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	panels := []string{
		d.renderTotalsPanel(w),
		d.renderTopProjectsPanel(w),
	}
	if len(d.warnings) > 0 {
		panels = append(panels, d.renderWarningsPanel(w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	title := titleStyle.Render("Overview")
	label := mutedStyle.Render(rangeLabel(d.rng))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", label)

	users := make(map[int64]struct{})
	projects := make(map[int64]struct{})
	for _, e := range d.filtered {
		users[e.UserID] = struct{}{}
		projects[e.ProjectID] = struct{}{}
	}

	total := metricStyle.Render(formatHours(analytics.TotalHours(d.filtered)))
	stats := fmt.Sprintf("  %s logged   %d entries   %d users   %d projects",
		total, len(d.filtered), len(users), len(projects))

	rows := []string{header, "", stats}
	if d.rate > 0 {
		rows = append(rows, fmt.Sprintf("  billable: %s (%s at %s/h)",
			highlightStyle.Render(formatAmount(d.billable.Amount)),
			formatHours(d.billable.Hours), formatAmount(d.rate)))
	}
	rows = append(rows, "", mutedStyle.Render("  ←/→: shift period"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTopProjectsPanel(w int) string {
	title := titleStyle.Render("Top Projects")
	if len(d.buckets) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No entries in this period")))
	}

	var rows []string
	rows = append(rows, title)
	limit := min(len(d.buckets), 5)
	for _, b := range d.buckets[:limit] {
		rows = append(rows, fmt.Sprintf("  %-24s %10s  (%d entries, %d users)",
			truncate(b.Key, 24), formatHours(b.TotalHours), b.EntryCount, b.UniqueUsers))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderWarningsPanel(w int) string {
	title := warningStyle.Render(fmt.Sprintf("%d records skipped", len(d.warnings)))
	var rows []string
	rows = append(rows, title)
	limit := min(len(d.warnings), 3)
	for _, warn := range d.warnings[:limit] {
		rows = append(rows, mutedStyle.Render("  "+warn.String()))
	}
	if len(d.warnings) > limit {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … and %d more", len(d.warnings)-limit)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
