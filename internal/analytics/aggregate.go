package analytics

import "sort"

// Dimension selects the grouping key used by Aggregate.
type Dimension int

const (
	ByDate Dimension = iota
	ByWeek
	ByProject
	ByUser
	ByWorkType
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{ByDate, ByWeek, ByProject, ByUser, ByWorkType}

func (d Dimension) String() string {
	switch d {
	case ByDate:
		return "Date"
	case ByWeek:
		return "Week"
	case ByProject:
		return "Project"
	case ByUser:
		return "User"
	case ByWorkType:
		return "Work Type"
	}
	return "Unknown"
}

// Key extracts the grouping key for one entry. Week buckets are keyed
// by the Sunday that starts the entry's week.
func (d Dimension) Key(e TimeEntry) string {
	switch d {
	case ByDate:
		return e.Date.Format("2006-01-02")
	case ByWeek:
		return e.Date.AddDate(0, 0, -int(e.Date.Weekday())).Format("2006-01-02")
	case ByProject:
		return e.ProjectName
	case ByUser:
		return e.UserName
	case ByWorkType:
		return string(e.WorkType)
	}
	return ""
}

// Bucket is the aggregate for one distinct key of a dimension.
// UniqueUsers is zero when grouping by user, UniqueProjects when
// grouping by project; the counts only describe the other fields.
type Bucket struct {
	Key              string
	TotalHours       float64
	EntryCount       int
	UniqueUsers      int
	UniqueProjects   int
	AvgHoursPerEntry float64
}

type accumulator struct {
	total    float64
	count    int
	users    map[int64]struct{}
	projects map[int64]struct{}
}

// Aggregate groups entries by the dimension's key and computes per-group
// statistics. The buckets partition the input: every entry lands in
// exactly one bucket, and no bucket is emitted for a key with no
// entries. Ordering is descending total hours, ties by ascending key;
// callers may re-sort. Totals and averages are rounded to two decimals
// on emission only.
func Aggregate(entries []TimeEntry, dim Dimension) []Bucket {
	groups := make(map[string]*accumulator)
	for _, e := range entries {
		key := dim.Key(e)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				users:    make(map[int64]struct{}),
				projects: make(map[int64]struct{}),
			}
			groups[key] = acc
		}
		acc.total += e.Hours
		acc.count++
		acc.users[e.UserID] = struct{}{}
		acc.projects[e.ProjectID] = struct{}{}
	}

	buckets := make([]Bucket, 0, len(groups))
	for key, acc := range groups {
		b := Bucket{
			Key:            key,
			TotalHours:     acc.total,
			EntryCount:     acc.count,
			UniqueUsers:    len(acc.users),
			UniqueProjects: len(acc.projects),
		}
		if dim == ByUser {
			b.UniqueUsers = 0
		}
		if dim == ByProject {
			b.UniqueProjects = 0
		}
		buckets = append(buckets, b)
	}

	// Sort on full-precision totals before rounding for presentation.
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].TotalHours != buckets[j].TotalHours {
			return buckets[i].TotalHours > buckets[j].TotalHours
		}
		return buckets[i].Key < buckets[j].Key
	})

	for i := range buckets {
		b := &buckets[i]
		b.AvgHoursPerEntry = Round2(b.TotalHours / float64(b.EntryCount))
		b.TotalHours = Round2(b.TotalHours)
	}
	return buckets
}

// TotalHours sums the hours of a record set at full precision.
func TotalHours(entries []TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
