package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// SetTimetableInput contains parameters for the SetTimetable operation.
type SetTimetableInput struct {
	Day   time.Weekday
	Entry schedule.TimetableEntry
}

// SetTimetable inserts or replaces the timetable entry for a weekday.
// Replacement covers the whole day: a later write for the same weekday
// discards the earlier slots entirely. Calling it twice with the same entry
// leaves exactly one row equal to that entry.
func SetTimetable(database *sql.DB, input SetTimetableInput) error {
	entry := input.Entry
	entry.Day = input.Day

	if !entry.FreeDay && len(entry.Slots) == 0 {
		return errors.NewInvalidRequest("timetable entry needs slots or free day")
	}
	for i := range entry.Slots {
		entry.Slots[i].Subject = strings.TrimSpace(entry.Slots[i].Subject)
		if entry.Slots[i].Subject == "" {
			return errors.NewInvalidRequest("timetable slot subject must not be empty")
		}
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	return db.UpsertTimetable(database, &entry)
}

// GetTimetable returns the entry for a weekday, or nil when absent.
func GetTimetable(database *sql.DB, day time.Weekday) (*schedule.TimetableEntry, error) {
	return db.GetTimetable(database, day)
}
