package analytics

import "math"

// Comparison metric names, in fixed output order.
const (
	MetricTotalHours     = "Total Hours"
	MetricEntryCount     = "Entries"
	MetricUniqueUsers    = "Unique Users"
	MetricUniqueProjects = "Unique Projects"
	MetricAvgHoursPerDay = "Avg Hours/Day"
)

// ComparisonResult is one metric measured over two date ranges.
// PercentChange is (A-B)/B*100; when B is zero it is 0 if A is also
// zero, +Inf otherwise. It is never NaN.
type ComparisonResult struct {
	Metric        string
	ValueA        float64
	ValueB        float64
	PercentChange float64
}

// Undefined reports whether the change is the division-by-zero sentinel.
func (r ComparisonResult) Undefined() bool {
	return math.IsInf(r.PercentChange, 1)
}

func percentChange(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return Round2((a - b) / b * 100)
}

type rangeMetrics struct {
	totalHours     float64
	entryCount     float64
	uniqueUsers    float64
	uniqueProjects float64
	avgPerDay      float64
}

func measure(entries []TimeEntry, r DateRange) rangeMetrics {
	users := make(map[int64]struct{})
	projects := make(map[int64]struct{})
	var total float64
	for _, e := range entries {
		total += e.Hours
		users[e.UserID] = struct{}{}
		projects[e.ProjectID] = struct{}{}
	}
	m := rangeMetrics{
		totalHours:     total,
		entryCount:     float64(len(entries)),
		uniqueUsers:    float64(len(users)),
		uniqueProjects: float64(len(projects)),
	}
	if days := r.Days(); days > 0 {
		m.avgPerDay = total / float64(days)
	}
	return m
}

// Compare filters the record set once per range (date bounds replaced,
// every other predicate shared) and returns the five fixed metrics with
// percentage deltas. The ranges are independent and may overlap.
func Compare(entries []TimeEntry, rangeA, rangeB DateRange, shared Criteria) ([]ComparisonResult, error) {
	subsetA, err := Filter(entries, shared.WithRange(rangeA))
	if err != nil {
		return nil, err
	}
	subsetB, err := Filter(entries, shared.WithRange(rangeB))
	if err != nil {
		return nil, err
	}

	a := measure(subsetA, rangeA)
	b := measure(subsetB, rangeB)

	results := []ComparisonResult{
		{Metric: MetricTotalHours, ValueA: Round2(a.totalHours), ValueB: Round2(b.totalHours),
			PercentChange: percentChange(a.totalHours, b.totalHours)},
		{Metric: MetricEntryCount, ValueA: a.entryCount, ValueB: b.entryCount,
			PercentChange: percentChange(a.entryCount, b.entryCount)},
		{Metric: MetricUniqueUsers, ValueA: a.uniqueUsers, ValueB: b.uniqueUsers,
			PercentChange: percentChange(a.uniqueUsers, b.uniqueUsers)},
		{Metric: MetricUniqueProjects, ValueA: a.uniqueProjects, ValueB: b.uniqueProjects,
			PercentChange: percentChange(a.uniqueProjects, b.uniqueProjects)},
		{Metric: MetricAvgHoursPerDay, ValueA: Round2(a.avgPerDay), ValueB: Round2(b.avgPerDay),
			PercentChange: percentChange(a.avgPerDay, b.avgPerDay)},
	}
	return results, nil
}
