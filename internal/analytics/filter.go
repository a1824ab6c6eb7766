package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCriteria wraps every criteria validation failure.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria is the conjunction of predicates applied to a record set.
// Optional fields are pointers; nil matches everything.
type Criteria struct {
	DateStart  time.Time
	DateEnd    time.Time
	ProjectID  *int64
	UserID     *int64
	WorkType   *WorkType
	ClientName *string
	MinHours   *float64
	MaxHours   *float64
}

// Validate checks the criteria invariants. Filtering and aggregation
// must not proceed on criteria that fail validation.
func (c Criteria) Validate() error {
	if c.DateStart.After(c.DateEnd) {
		return fmt.Errorf("%w: date start %s after date end %s",
			ErrInvalidCriteria,
			c.DateStart.Format("2006-01-02"), c.DateEnd.Format("2006-01-02"))
	}
	if c.MinHours != nil && *c.MinHours < 0 {
		return fmt.Errorf("%w: min hours %v is negative", ErrInvalidCriteria, *c.MinHours)
	}
	if c.MinHours != nil && c.MaxHours != nil && *c.MinHours > *c.MaxHours {
		return fmt.Errorf("%w: min hours %v above max hours %v",
			ErrInvalidCriteria, *c.MinHours, *c.MaxHours)
	}
	return nil
}

// WithRange returns a copy with the date bounds replaced and every
// other predicate kept. Used by Compare to run shared criteria over
// two independent ranges.
func (c Criteria) WithRange(r DateRange) Criteria {
	c.DateStart = r.Start
	c.DateEnd = r.End
	return c
}

// Range returns the criteria's date bounds as a DateRange.
func (c Criteria) Range() DateRange {
	return DateRange{Start: c.DateStart, End: c.DateEnd}
}

func (c Criteria) matches(e TimeEntry) bool {
	d := DateOnly(e.Date)
	if d.Before(DateOnly(c.DateStart)) || d.After(DateOnly(c.DateEnd)) {
		return false
	}
	if c.ProjectID != nil && e.ProjectID != *c.ProjectID {
		return false
	}
	if c.UserID != nil && e.UserID != *c.UserID {
		return false
	}
	if c.WorkType != nil && e.WorkType != *c.WorkType {
		return false
	}
	if c.ClientName != nil && !strings.EqualFold(e.ClientName, *c.ClientName) {
		return false
	}
	if c.MinHours != nil && e.Hours < *c.MinHours {
		return false
	}
	if c.MaxHours != nil && e.Hours > *c.MaxHours {
		return false
	}
	return true
}

// Filter returns the entries matching every present predicate, in input
// order. The input slice is never mutated; identical inputs always
// produce identical output, which downstream memoization relies on.
func Filter(entries []TimeEntry, c Criteria) ([]TimeEntry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if c.matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
