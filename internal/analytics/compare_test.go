package analytics

import (
	"errors"
	"math"
	"testing"
)

func weekRange(start string) DateRange {
	return DateRange{Start: date(start), End: date(start).AddDate(0, 0, 6)}
}

func TestCompareBasic(t *testing.T) {
	entries := []TimeEntry{
		entry(1, "2024-01-01", 8, "P1", "alice"),
		entry(2, "2024-01-02", 2, "P2", "bob"),
		entry(3, "2024-01-08", 5, "P1", "alice"),
	}
	rangeA := weekRange("2024-01-08")
	rangeB := weekRange("2024-01-01")
	shared := Criteria{DateStart: date("2024-01-01"), DateEnd: date("2024-01-31")}

	results, err := Compare(entries, rangeA, rangeB, shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 metrics, got %d", len(results))
	}

	byName := map[string]ComparisonResult{}
	for _, r := range results {
		byName[r.Metric] = r
	}

	total := byName[MetricTotalHours]
	if total.ValueA != 5 || total.ValueB != 10 {
		t.Fatalf("total hours A=%v B=%v, want 5/10", total.ValueA, total.ValueB)
	}
	if total.PercentChange != -50 {
		t.Fatalf("total percent = %v, want -50", total.PercentChange)
	}

	count := byName[MetricEntryCount]
	if count.ValueA != 1 || count.ValueB != 2 {
		t.Fatalf("entry count A=%v B=%v, want 1/2", count.ValueA, count.ValueB)
	}

	users := byName[MetricUniqueUsers]
	if users.ValueA != 1 || users.ValueB != 2 || users.PercentChange != -50 {
		t.Fatalf("unique users = %+v", users)
	}

	avg := byName[MetricAvgHoursPerDay]
	// 5 hours over 7 days vs 10 hours over 7 days.
	if math.Abs(avg.ValueA-0.71) > 1e-9 || math.Abs(avg.ValueB-1.43) > 1e-9 {
		t.Fatalf("avg/day A=%v B=%v, want 0.71/1.43", avg.ValueA, avg.ValueB)
	}
}

func TestCompareSharedCriteriaApplied(t *testing.T) {
	entries := []TimeEntry{
		entry(1, "2024-01-01", 8, "P1", "alice"),
		entry(2, "2024-01-01", 4, "P2", "bob"),
		entry(3, "2024-01-08", 6, "P1", "alice"),
		entry(4, "2024-01-08", 3, "P2", "bob"),
	}
	pid := toyID("P1")
	shared := Criteria{
		DateStart: date("2024-01-01"), DateEnd: date("2024-01-31"),
		ProjectID: &pid,
	}
	results, err := Compare(entries, weekRange("2024-01-08"), weekRange("2024-01-01"), shared)
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]ComparisonResult{}
	for _, r := range results {
		byName[r.Metric] = r
	}
	total := byName[MetricTotalHours]
	if total.ValueA != 6 || total.ValueB != 8 {
		t.Fatalf("project filter not shared across ranges: A=%v B=%v", total.ValueA, total.ValueB)
	}
}

func TestCompareZeroBaselineSentinel(t *testing.T) {
	entries := []TimeEntry{
		entry(1, "2024-01-08", 10, "P1", "alice"),
	}
	results, err := Compare(entries, weekRange("2024-01-08"), weekRange("2024-01-01"),
		Criteria{DateStart: date("2024-01-01"), DateEnd: date("2024-01-31")})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if math.IsNaN(r.PercentChange) {
			t.Fatalf("%s: percent change is NaN", r.Metric)
		}
		if !r.Undefined() {
			t.Fatalf("%s: expected the +Inf sentinel, got %v", r.Metric, r.PercentChange)
		}
	}
}

func TestCompareBothEmpty(t *testing.T) {
	results, err := Compare(nil, weekRange("2024-01-08"), weekRange("2024-01-01"),
		Criteria{DateStart: date("2024-01-01"), DateEnd: date("2024-01-31")})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.ValueA != 0 || r.ValueB != 0 {
			t.Fatalf("%s: values A=%v B=%v, want zero", r.Metric, r.ValueA, r.ValueB)
		}
		if r.PercentChange != 0 {
			t.Fatalf("%s: 0/0 should give 0 percent change, got %v", r.Metric, r.PercentChange)
		}
	}
}

func TestCompareOverlappingRanges(t *testing.T) {
	entries := []TimeEntry{entry(1, "2024-01-03", 4, "P1", "alice")}
	r := weekRange("2024-01-01")
	results, err := Compare(entries, r, r, Criteria{DateStart: date("2024-01-01"), DateEnd: date("2024-01-31")})
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if res.ValueA != res.ValueB {
			t.Fatalf("%s: identical ranges differ: %+v", res.Metric, res)
		}
		if res.PercentChange != 0 {
			t.Fatalf("%s: identical ranges should show 0%% change", res.Metric)
		}
	}
}

func TestCompareInvalidSharedCriteria(t *testing.T) {
	minH, maxH := 9.0, 1.0
	shared := Criteria{
		DateStart: date("2024-01-01"), DateEnd: date("2024-01-31"),
		MinHours: &minH, MaxHours: &maxH,
	}
	_, err := Compare(nil, weekRange("2024-01-01"), weekRange("2024-01-08"), shared)
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}
