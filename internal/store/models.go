package store

import "time"

type Project struct {
	ID         int64
	Name       string
	ClientName string
	Color      string
	Archived   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// EntryRecord is a timesheet row as persisted. Hours stays the raw
// string the upstream system wrote; it is parsed (and validated) by the
// analytics layer, not here.
type EntryRecord struct {
	ID          int64
	ProjectID   int64
	UserID      int64
	Date        time.Time
	Hours       string
	TaskName    string
	Description string
	WorkType    string
	CreatedAt   time.Time
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter narrows entry queries. Nil fields match everything.
type EntryFilter struct {
	ProjectID *int64
	UserID    *int64
	WorkType  *string
	From      *time.Time
	To        *time.Time
	Limit     int
}
