package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/worklens/worklens/internal/analytics"
	"github.com/worklens/worklens/internal/store"
)

// Colors cycled across chart bars.
var barColors = []lipgloss.Color{colorPrimary, colorHighlight, colorSuccess, colorWarning, colorAccent}

// reportsModel drives the aggregate view: a dimension switcher, the
// bucket table with a bar chart, and drill-down into a selected bucket.
// Changing the range or dimension always resets the drill-down, so a
// stale selection can never outlive the inputs that produced it.
type reportsModel struct {
	store  *store.Store
	width  int
	height int

	entries  []analytics.TimeEntry
	pipeline *analytics.Pipeline

	rng      analytics.DateRange
	dimIndex int

	filtered []analytics.TimeEntry
	buckets  []analytics.Bucket
	cursor   int

	drill analytics.DrillDownState

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	days := 30
	if s != nil {
		days = s.GetIntSetting("default_range_days", 30)
	}
	return reportsModel{
		store:    s,
		pipeline: analytics.NewPipeline(),
		rng:      lastNDays(days),
		drill:    analytics.NewDrillDown(),
		chart:    barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) dimension() analytics.Dimension {
	return analytics.Dimensions[r.dimIndex]
}

// recompute reruns the pipeline for the current range and dimension and
// resets the drill-down. Every input change funnels through here.
func (r reportsModel) recompute() reportsModel {
	r.drill = r.drill.Reset()
	r.cursor = 0

	filtered, buckets, err := r.pipeline.Run(r.entries, criteriaFor(r.rng), r.dimension())
	if err != nil {
		r.filtered, r.buckets = nil, nil
		return r
	}
	r.filtered = filtered
	r.buckets = buckets
	r.buildChart()
	return r
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		r.entries = msg.entries
		r.pipeline.Invalidate()
		return r.recompute(), nil

	case tea.KeyMsg:
		if r.drill.Active() {
			if key.Matches(msg, keys.Back) {
				r.drill = r.drill.Reset()
			}
			return r, nil
		}

		switch {
		case key.Matches(msg, keys.Dimension):
			r.dimIndex = (r.dimIndex + 1) % len(analytics.Dimensions)
			return r.recompute(), nil
		case key.Matches(msg, keys.Left):
			r.rng = shiftRange(r.rng, -1)
			return r.recompute(), nil
		case key.Matches(msg, keys.Right):
			r.rng = shiftRange(r.rng, 1)
			return r.recompute(), nil
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < len(r.buckets)-1 {
				r.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if r.cursor < len(r.buckets) {
				r.drill = r.drill.Select(r.filtered, r.dimension(), r.buckets[r.cursor].Key)
			}
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	// Cap the chart at the widest buckets; the table below lists all.
	limit := min(len(r.buckets), 12)
	var bars []barchart.BarData
	for i, b := range r.buckets[:limit] {
		style := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)])
		label := b.Key
		if len(label) > 10 {
			label = label[:10]
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: b.Key, Value: b.TotalHours, Style: style},
			},
		})
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.drill.Active() {
		return r.renderDrillDown(w)
	}

	// Dimension tabs
	var dims []string
	for i, d := range analytics.Dimensions {
		if i == r.dimIndex {
			dims = append(dims, activeTabStyle.Render(d.String()))
		} else {
			dims = append(dims, inactiveTabStyle.Render(d.String()))
		}
	}
	dimTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dims...)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", dimTabs, "  ",
		mutedStyle.Render(rangeLabel(r.rng)),
	)

	chartView := r.chart.View()
	tableView := r.renderBucketTable(w)
	nav := mutedStyle.Render("  ←/→: shift range  d: dimension  enter: drill down")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderBucketTable(w int) string {
	if len(r.buckets) == 0 {
		return mutedStyle.Render("  No entries for this period")
	}

	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-16s %10s %8s %6s %6s %8s",
		r.dimension().String(), "Hours", "Entries", "Users", "Projs", "Avg"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for i, b := range r.buckets {
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-16s %10s %8d %6d %6d %8s",
			cursor, truncate(b.Key, 16), formatHours(b.TotalHours), b.EntryCount,
			b.UniqueUsers, b.UniqueProjects, formatHours(b.AvgHoursPerEntry),
		)))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderDrillDown(w int) string {
	title := titleStyle.Render(fmt.Sprintf("%s: %s", r.drill.Level, r.drill.SelectedKey))
	total := analytics.TotalHours(r.drill.MemberEntries)
	subtitle := mutedStyle.Render(fmt.Sprintf("%d entries, %s total",
		len(r.drill.MemberEntries), formatHours(total)))

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-12s %-16s %-14s %8s %-10s",
		"Date", "User", "Project", "Task", "Hours", "Type")))

	for _, e := range r.drill.MemberEntries {
		rows = append(rows, fmt.Sprintf("  %-12s %-12s %-16s %-14s %8s %-10s",
			e.Date.Format("2006-01-02"), truncate(e.UserName, 12),
			truncate(e.ProjectName, 16), truncate(e.TaskName, 14),
			formatHours(e.Hours), e.WorkType,
		))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  esc: back to aggregates"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
