package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// WorkType classifies what kind of work a time entry records.
type WorkType string

const (
	WorkTypeWork     WorkType = "WORK"
	WorkTypeMeeting  WorkType = "MEETING"
	WorkTypeResearch WorkType = "RESEARCH"
	WorkTypeTraining WorkType = "TRAINING"
	WorkTypeBreak    WorkType = "BREAK"
	WorkTypeOther    WorkType = "OTHER"
)

// WorkTypes lists every valid work type in display order.
var WorkTypes = []WorkType{
	WorkTypeWork,
	WorkTypeMeeting,
	WorkTypeResearch,
	WorkTypeTraining,
	WorkTypeBreak,
	WorkTypeOther,
}

// ParseWorkType maps a stored string to a WorkType. Unknown values
// coerce to WorkTypeOther so legacy rows never break aggregation.
func ParseWorkType(s string) WorkType {
	switch WorkType(strings.ToUpper(strings.TrimSpace(s))) {
	case WorkTypeWork:
		return WorkTypeWork
	case WorkTypeMeeting:
		return WorkTypeMeeting
	case WorkTypeResearch:
		return WorkTypeResearch
	case WorkTypeTraining:
		return WorkTypeTraining
	case WorkTypeBreak:
		return WorkTypeBreak
	default:
		return WorkTypeOther
	}
}

// MaxEntryHours is the upper bound for a single entry's hours.
// A single record cannot cover more than one calendar day.
const MaxEntryHours = 24

// TimeEntry is one unit of recorded work. Entries are created by the
// persistence layer and never mutated by the engine.
type TimeEntry struct {
	ID          int64
	Date        time.Time // calendar date, midnight UTC
	Hours       float64
	TaskName    string
	Description string
	WorkType    WorkType
	ProjectID   int64
	ProjectName string
	ClientName  string
	UserID      int64
	UserName    string
}

// RawEntry is the boundary shape handed over by the persistence layer.
// Hours is still the stored string and may be malformed.
type RawEntry struct {
	ID          int64
	Date        time.Time
	Hours       string
	TaskName    string
	Description string
	WorkType    string
	ProjectID   int64
	ProjectName string
	ClientName  string
	UserID      int64
	UserName    string
}

// Warning reports a record that was excluded during ingest.
type Warning struct {
	EntryID int64
	Reason  string
}

func (w Warning) String() string {
	return fmt.Sprintf("entry %d: %s", w.EntryID, w.Reason)
}

// ParseEntries converts raw rows into engine entries. Rows whose hours
// field is not parseable, or falls outside (0, 24], are skipped and
// reported as warnings; one bad row never aborts the batch.
func ParseEntries(raw []RawEntry) ([]TimeEntry, []Warning) {
	entries := make([]TimeEntry, 0, len(raw))
	var warnings []Warning

	for _, r := range raw {
		hours, err := parseHours(r.Hours)
		if err != nil {
			warnings = append(warnings, Warning{EntryID: r.ID, Reason: err.Error()})
			continue
		}
		entries = append(entries, TimeEntry{
			ID:          r.ID,
			Date:        DateOnly(r.Date),
			Hours:       hours,
			TaskName:    r.TaskName,
			Description: r.Description,
			WorkType:    ParseWorkType(r.WorkType),
			ProjectID:   r.ProjectID,
			ProjectName: r.ProjectName,
			ClientName:  r.ClientName,
			UserID:      r.UserID,
			UserName:    r.UserName,
		})
	}
	return entries, warnings
}

func parseHours(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("hours %q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("hours %q is not finite", s)
	}
	if v <= 0 || v > MaxEntryHours {
		return 0, fmt.Errorf("hours %v outside (0, %d]", v, MaxEntryHours)
	}
	return v, nil
}

// DateOnly strips any time-of-day component, normalizing to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive calendar date span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days the range covers, inclusive.
func (r DateRange) Days() int {
	start, end := DateOnly(r.Start), DateOnly(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Round2 rounds to two decimal places, half away from zero. Applied only
// at presentation boundaries; internal accumulation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
