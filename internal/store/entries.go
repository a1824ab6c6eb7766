package store

import (
	"fmt"
	"time"

	"github.com/worklens/worklens/internal/analytics"
)

const dateFormat = "2006-01-02"

func (s *Store) CreateEntry(e EntryRecord) (*EntryRecord, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (project_id, user_id, entry_date, hours, task_name, description, work_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ProjectID, e.UserID, e.Date.UTC().Format(dateFormat),
		e.Hours, e.TaskName, e.Description, e.WorkType, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

func (s *Store) GetEntry(id int64) (*EntryRecord, error) {
	e := &EntryRecord{}
	var entryDate, createdAt string
	err := s.db.QueryRow(
		`SELECT id, project_id, user_id, entry_date, hours, task_name, description, work_type, created_at
		 FROM time_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.ProjectID, &e.UserID, &entryDate, &e.Hours, &e.TaskName, &e.Description, &e.WorkType, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	e.Date, _ = time.Parse(dateFormat, entryDate)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

func (s *Store) UpdateEntry(e EntryRecord) error {
	_, err := s.db.Exec(
		`UPDATE time_entries SET project_id = ?, user_id = ?, entry_date = ?, hours = ?,
		 task_name = ?, description = ?, work_type = ? WHERE id = ?`,
		e.ProjectID, e.UserID, e.Date.UTC().Format(dateFormat),
		e.Hours, e.TaskName, e.Description, e.WorkType, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	return nil
}

func (s *Store) DeleteEntry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	return err
}

// ListEntries returns raw entry rows, newest date first.
func (s *Store) ListEntries(f EntryFilter) ([]EntryRecord, error) {
	query := `SELECT id, project_id, user_id, entry_date, hours, task_name, description, work_type, created_at
	          FROM time_entries WHERE 1=1`
	var args []any

	if f.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *f.ProjectID)
	}
	if f.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *f.UserID)
	}
	if f.WorkType != nil {
		query += ` AND work_type = ?`
		args = append(args, *f.WorkType)
	}
	if f.From != nil {
		query += ` AND entry_date >= ?`
		args = append(args, f.From.UTC().Format(dateFormat))
	}
	if f.To != nil {
		query += ` AND entry_date <= ?`
		args = append(args, f.To.UTC().Format(dateFormat))
	}
	query += ` ORDER BY entry_date DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []EntryRecord
	for rows.Next() {
		var e EntryRecord
		var entryDate, createdAt string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.UserID, &entryDate, &e.Hours,
			&e.TaskName, &e.Description, &e.WorkType, &createdAt); err != nil {
			return nil, err
		}
		e.Date, _ = time.Parse(dateFormat, entryDate)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FetchRawEntries joins entries with their project and user names,
// producing the boundary rows the analytics engine ingests. Ordering is
// ascending date then id so repeated fetches are stable.
func (s *Store) FetchRawEntries() ([]analytics.RawEntry, error) {
	rows, err := s.db.Query(`
		SELECT e.id, e.entry_date, e.hours, e.task_name, e.description, e.work_type,
		       e.project_id, p.name, p.client_name, e.user_id, u.name
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		JOIN users u    ON u.id = e.user_id
		ORDER BY e.entry_date, e.id`)
	if err != nil {
		return nil, fmt.Errorf("fetch raw entries: %w", err)
	}
	defer rows.Close()

	var raw []analytics.RawEntry
	for rows.Next() {
		var r analytics.RawEntry
		var entryDate string
		if err := rows.Scan(&r.ID, &entryDate, &r.Hours, &r.TaskName, &r.Description,
			&r.WorkType, &r.ProjectID, &r.ProjectName, &r.ClientName, &r.UserID, &r.UserName); err != nil {
			return nil, err
		}
		r.Date, _ = time.Parse(dateFormat, entryDate)
		raw = append(raw, r)
	}
	return raw, rows.Err()
}

// EntryDateBounds returns the earliest and latest entry dates, or ok
// false when the table is empty.
func (s *Store) EntryDateBounds() (from, to time.Time, ok bool, err error) {
	var minDate, maxDate *string
	err = s.db.QueryRow(`SELECT MIN(entry_date), MAX(entry_date) FROM time_entries`).Scan(&minDate, &maxDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("entry date bounds: %w", err)
	}
	if minDate == nil || maxDate == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	from, _ = time.Parse(dateFormat, *minDate)
	to, _ = time.Parse(dateFormat, *maxDate)
	return from, to, true, nil
}
