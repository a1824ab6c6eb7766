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

// compareModel puts two date ranges side by side: range A is the period
// under inspection, range B the baseline it is measured against. By
// default A is the current period and B the one before it.
type compareModel struct {
	store  *store.Store
	width  int
	height int

	entries []analytics.TimeEntry

	rangeA  analytics.DateRange
	rangeB  analytics.DateRange
	results []analytics.ComparisonResult
}

func newCompareModel(s *store.Store) compareModel {
	days := 30
	if s != nil {
		days = s.GetIntSetting("default_range_days", 30)
	}
	a := lastNDays(days)
	return compareModel{
		store:  s,
		rangeA: a,
		rangeB: previousPeriod(a),
	}
}

func (c *compareModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c compareModel) recompute() compareModel {
	shared := criteriaFor(analytics.DateRange{
		Start: c.rangeB.Start,
		End:   c.rangeA.End,
	})
	results, err := analytics.Compare(c.entries, c.rangeA, c.rangeB, shared)
	if err != nil {
		c.results = nil
		return c
	}
	c.results = results
	return c
}

func (c compareModel) update(msg tea.Msg) (compareModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		c.entries = msg.entries
		return c.recompute(), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			c.rangeA = shiftRange(c.rangeA, -1)
			c.rangeB = previousPeriod(c.rangeA)
			return c.recompute(), nil
		case key.Matches(msg, keys.Right):
			c.rangeA = shiftRange(c.rangeA, 1)
			c.rangeB = previousPeriod(c.rangeA)
			return c.recompute(), nil
		}
	}
	return c, nil
}

func (c compareModel) view() string {
	w := c.width - 4

	title := titleStyle.Render("Compare Periods")
	ranges := mutedStyle.Render(fmt.Sprintf("A: %s   vs   B: %s",
		rangeLabel(c.rangeA), rangeLabel(c.rangeB)))
	header := lipgloss.JoinVertical(lipgloss.Left, title, ranges)

	if len(c.results) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("No data loaded")))
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-18s %12s %12s %12s",
		"Metric", "Range A", "Range B", "Change")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 58))))

	for _, r := range c.results {
		change := deltaStyle(r.PercentChange).Render(fmt.Sprintf("%12s", formatChange(r)))
		rows = append(rows, fmt.Sprintf("  %-18s %12s %12s %s",
			r.Metric, formatAmount(r.ValueA), formatAmount(r.ValueB), change))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: shift period A (B follows as the previous period)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
