package analytics

// DrillLevel identifies which kind of bucket a drill-down is showing.
type DrillLevel int

const (
	LevelNone DrillLevel = iota
	LevelProject
	LevelUser
	LevelDate
)

func (l DrillLevel) String() string {
	switch l {
	case LevelProject:
		return "Project"
	case LevelUser:
		return "User"
	case LevelDate:
		return "Date"
	}
	return "None"
}

// drillLevelFor maps a dimension to the leaf level a selection lands on.
// Week buckets drill to the date level since their key is a week-start
// date. Work-type buckets are not drillable.
func drillLevelFor(dim Dimension) DrillLevel {
	switch dim {
	case ByDate, ByWeek:
		return LevelDate
	case ByProject:
		return LevelProject
	case ByUser:
		return LevelUser
	}
	return LevelNone
}

// DrillDownState is the navigator position: either NONE (aggregate
// view) or a leaf level holding the member entries of one selected
// bucket. It is a plain value; the caller owns it and must replace it
// with a fresh NONE state whenever the filter or dimension changes.
type DrillDownState struct {
	Level         DrillLevel
	SelectedKey   string
	MemberEntries []TimeEntry
}

// NewDrillDown returns the initial NONE state.
func NewDrillDown() DrillDownState {
	return DrillDownState{Level: LevelNone}
}

// Active reports whether a bucket is currently selected.
func (s DrillDownState) Active() bool {
	return s.Level != LevelNone
}

// Select transitions from NONE to the leaf level for dim, narrowing
// filtered to the entries whose key equals the bucket key. Selecting
// while already drilled in keeps the current state. A key that matches
// no entries (the bucket vanished after an upstream change) lands back
// on NONE instead of producing an empty leaf.
func (s DrillDownState) Select(filtered []TimeEntry, dim Dimension, key string) DrillDownState {
	if s.Level != LevelNone {
		return s
	}
	level := drillLevelFor(dim)
	if level == LevelNone {
		return NewDrillDown()
	}

	var members []TimeEntry
	for _, e := range filtered {
		if dim.Key(e) == key {
			members = append(members, e)
		}
	}
	if len(members) == 0 {
		return NewDrillDown()
	}
	return DrillDownState{
		Level:         level,
		SelectedKey:   key,
		MemberEntries: members,
	}
}

// Reset returns to NONE from any state.
func (s DrillDownState) Reset() DrillDownState {
	return NewDrillDown()
}
