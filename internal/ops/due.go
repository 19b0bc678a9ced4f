package ops

import (
	"database/sql"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// DueWithin returns assignments with ref <= due <= ref+horizonDays,
// ascending by due date, stable on ties.
func DueWithin(database *sql.DB, ref time.Time, horizonDays int) ([]schedule.Assignment, error) {
	if horizonDays < 0 {
		return nil, errors.NewInvalidRequest("horizon must be non-negative")
	}
	from := schedule.Truncate(ref)
	return db.ListAssignmentsDueBetween(database, from, from.AddDate(0, 0, horizonDays))
}

// DueToday returns assignments due exactly on the reference date.
func DueToday(database *sql.DB, ref time.Time) ([]schedule.Assignment, error) {
	return DueWithin(database, ref, 0)
}

// DueTomorrow returns assignments due exactly one day after the reference
// date (not a cumulative range).
func DueTomorrow(database *sql.DB, ref time.Time) ([]schedule.Assignment, error) {
	return DueWithin(database, schedule.Truncate(ref).AddDate(0, 0, 1), 0)
}

// EventsWithin returns events with ref <= date <= ref+horizonDays,
// ascending by date.
func EventsWithin(database *sql.DB, ref time.Time, horizonDays int) ([]schedule.Event, error) {
	if horizonDays < 0 {
		return nil, errors.NewInvalidRequest("horizon must be non-negative")
	}
	from := schedule.Truncate(ref)
	return db.ListEventsBetween(database, from, from.AddDate(0, 0, horizonDays), 0)
}

// TomorrowsTimetable returns the timetable entry for the weekday after the
// reference date, or nil when that day has no entry.
func TomorrowsTimetable(database *sql.DB, ref time.Time) (*schedule.TimetableEntry, error) {
	tomorrow := schedule.Truncate(ref).AddDate(0, 0, 1)
	return db.GetTimetable(database, tomorrow.Weekday())
}

// TodaysTimetable returns the timetable entry for the reference date's
// weekday, or nil when absent. Used by the morning digest.
func TodaysTimetable(database *sql.DB, ref time.Time) (*schedule.TimetableEntry, error) {
	return db.GetTimetable(database, schedule.Truncate(ref).Weekday())
}
