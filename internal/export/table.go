package export

import (
	"strconv"

	"github.com/worklens/worklens/internal/analytics"
)

// Table is the generic ordered-row/ordered-column representation every
// serializer consumes. It carries no formatting beyond locale-invariant
// cell strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

// formatFloat renders a numeric cell rounded to two decimals, half away
// from zero, with '.' as the decimal separator regardless of locale.
// Infinite values (the comparison sentinel) render as "+Inf", which
// strconv.ParseFloat round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(analytics.Round2(v), 'f', -1, 64)
}

// BucketTable converts an aggregate result into the generic table. The
// key column is named after the dimension.
func BucketTable(dim analytics.Dimension, buckets []analytics.Bucket) Table {
	t := Table{
		Headers: []string{dim.String(), "Total Hours", "Entries", "Unique Users", "Unique Projects", "Avg Hours/Entry"},
	}
	for _, b := range buckets {
		t.Rows = append(t.Rows, []string{
			b.Key,
			formatFloat(b.TotalHours),
			strconv.Itoa(b.EntryCount),
			strconv.Itoa(b.UniqueUsers),
			strconv.Itoa(b.UniqueProjects),
			formatFloat(b.AvgHoursPerEntry),
		})
	}
	return t
}

// EntryTable converts raw filtered entries into the generic table.
func EntryTable(entries []analytics.TimeEntry) Table {
	t := Table{
		Headers: []string{"Date", "User", "Project", "Client", "Task", "Hours", "Type", "Description"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			e.Date.Format("2006-01-02"),
			e.UserName,
			e.ProjectName,
			e.ClientName,
			e.TaskName,
			formatFloat(e.Hours),
			string(e.WorkType),
			e.Description,
		})
	}
	return t
}

// ComparisonTable converts range-comparison metrics into the generic
// table. An undefined percent change renders as "+Inf".
func ComparisonTable(results []analytics.ComparisonResult) Table {
	t := Table{
		Headers: []string{"Metric", "Range A", "Range B", "Change %"},
	}
	for _, r := range results {
		change := formatFloat(r.PercentChange)
		if r.Undefined() {
			change = "+Inf"
		}
		t.Rows = append(t.Rows, []string{
			r.Metric,
			formatFloat(r.ValueA),
			formatFloat(r.ValueB),
			change,
		})
	}
	return t
}
