package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// InsertAssignment stores a new assignment. The write is durable before the
// call returns (single statement, WAL journal).
func InsertAssignment(db *sql.DB, a *schedule.Assignment) error {
	query := `
		INSERT INTO assignments (id, title, due, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := db.Exec(query, a.ID, a.Title, schedule.FormatDate(a.Due), a.CreatedAt)
	if err != nil {
		return errors.NewWriteFailure(err)
	}
	return nil
}

// ListAssignments returns all assignments ascending by due date. Ties are
// broken by id; ids are monotonic ULIDs, so that is insertion order.
func ListAssignments(db *sql.DB) ([]schedule.Assignment, error) {
	query := `
		SELECT id, title, due, created_at FROM assignments
		ORDER BY due ASC, id ASC
	`
	return scanAssignments(db.Query(query))
}

// ListAssignmentsDueBetween returns assignments with from <= due <= to,
// ascending by due date, stable on ties.
func ListAssignmentsDueBetween(db *sql.DB, from, to time.Time) ([]schedule.Assignment, error) {
	query := `
		SELECT id, title, due, created_at FROM assignments
		WHERE due >= ? AND due <= ?
		ORDER BY due ASC, id ASC
	`
	return scanAssignments(db.Query(query, schedule.FormatDate(from), schedule.FormatDate(to)))
}

// UpsertTimetable inserts or replaces the entry for a weekday. The whole day
// is replaced; there is never more than one row per weekday.
func UpsertTimetable(db *sql.DB, entry *schedule.TimetableEntry) error {
	var slotsJSON sql.NullString
	if len(entry.Slots) > 0 {
		data, err := json.Marshal(entry.Slots)
		if err != nil {
			return errors.NewInternal(err)
		}
		slotsJSON = sql.NullString{String: string(data), Valid: true}
	}

	freeDay := 0
	if entry.FreeDay {
		freeDay = 1
	}

	query := `
		INSERT INTO timetable (day, slots_json, free_day, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			slots_json = excluded.slots_json,
			free_day   = excluded.free_day,
			updated_at = excluded.updated_at
	`
	_, err := db.Exec(query, entry.Day.String(), slotsJSON, freeDay, time.Now().Unix())
	if err != nil {
		return errors.NewWriteFailure(err)
	}
	return nil
}

// GetTimetable retrieves the entry for a weekday, or nil when the day has
// no entry.
func GetTimetable(db *sql.DB, day time.Weekday) (*schedule.TimetableEntry, error) {
	query := `SELECT slots_json, free_day FROM timetable WHERE day = ?`

	var (
		slotsJSON sql.NullString
		freeDay   int
	)
	err := db.QueryRow(query, day.String()).Scan(&slotsJSON, &freeDay)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	entry := &schedule.TimetableEntry{Day: day, FreeDay: freeDay != 0}
	if slotsJSON.Valid && slotsJSON.String != "" {
		if err := json.Unmarshal([]byte(slotsJSON.String), &entry.Slots); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	return entry, nil
}

// InsertEvent stores a new event.
func InsertEvent(db *sql.DB, e *schedule.Event) error {
	query := `
		INSERT INTO events (id, kind, title, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		e.ID, toNullString(e.Kind), e.Title,
		schedule.FormatDate(e.Date), toNullString(e.Notes), e.CreatedAt,
	)
	if err != nil {
		return errors.NewWriteFailure(err)
	}
	return nil
}

// ListEventsBetween returns events with from <= date <= to, ascending by
// date, capped at limit (0 means no cap).
func ListEventsBetween(db *sql.DB, from, to time.Time, limit int) ([]schedule.Event, error) {
	query := `
		SELECT id, kind, title, date, notes, created_at FROM events
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`
	args := []any{schedule.FormatDate(from), schedule.FormatDate(to)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var events []schedule.Event
	for rows.Next() {
		var (
			e     schedule.Event
			kind  sql.NullString
			date  string
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &kind, &e.Title, &date, &notes, &e.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		e.Kind = kind.String
		e.Notes = notes.String
		e.Date, err = schedule.ParseDate(date)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return events, nil
}

// scanAssignments drains an assignment query result.
func scanAssignments(rows *sql.Rows, err error) ([]schedule.Assignment, error) {
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var assignments []schedule.Assignment
	for rows.Next() {
		var (
			a   schedule.Assignment
			due string
		)
		if err := rows.Scan(&a.ID, &a.Title, &due, &a.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		a.Due, err = schedule.ParseDate(due)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return assignments, nil
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
