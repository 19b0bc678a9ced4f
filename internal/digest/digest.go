// Package digest builds the human-readable messages the bot sends: the
// on-summon "what's coming" digest, the morning reminder, list replies, and
// write confirmations. Every builder works from store data alone; the AI
// enrichment in enrich.go is a strictly additive decorator.
package digest

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/ops"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// Digest windows, in days.
const (
	AssignmentHorizon = 7
	EventHorizon      = 14
)

// ReplyPrefix opens every summon reply.
const ReplyPrefix = "Tenskee hears your desperate call... I bring salvation!\n\n"

// BuildSummon builds the default summon digest for the reference date:
// assignments due within 7 days, events within 14 days, and tomorrow's
// timetable.
func BuildSummon(database *sql.DB, ref time.Time) (string, error) {
	refDate := schedule.Truncate(ref)
	var upcoming []string

	assignments, err := ops.DueWithin(database, refDate, AssignmentHorizon)
	if err != nil {
		return "", err
	}
	for _, a := range assignments {
		upcoming = append(upcoming, fmt.Sprintf("Assignment %s: %s", dayTag(refDate, a.Due), a.Title))
	}

	events, err := ops.EventsWithin(database, refDate, EventHorizon)
	if err != nil {
		return "", err
	}
	for _, e := range events {
		line := fmt.Sprintf("Event %s%s: %s", kindTag(e.Kind), dayTag(refDate, e.Date), e.Title)
		if e.Notes != "" {
			line += " - " + e.Notes
		}
		upcoming = append(upcoming, line)
	}

	tomorrow, err := ops.TomorrowsTimetable(database, refDate)
	if err != nil {
		return "", err
	}
	if tomorrow != nil {
		upcoming = append(upcoming, "Tomorrow's classes: "+FormatTimetable(tomorrow))
	}

	if len(upcoming) == 0 {
		return "All is calm... for now. No immediate doom detected.", nil
	}
	return "These trials approach:\n" + strings.Join(upcoming, "\n"), nil
}

// BuildDaily builds the morning reminder for the reference date: items due
// today and tomorrow, today's events, and today's timetable. Returns the
// empty string when there is nothing to report (the daily job sends nothing
// then).
func BuildDaily(database *sql.DB, ref time.Time) (string, error) {
	refDate := schedule.Truncate(ref)
	var reminders []string

	today, err := ops.DueToday(database, refDate)
	if err != nil {
		return "", err
	}
	for _, a := range today {
		reminders = append(reminders, "Due today - brace yourselves: "+a.Title)
	}

	tomorrow, err := ops.DueTomorrow(database, refDate)
	if err != nil {
		return "", err
	}
	for _, a := range tomorrow {
		reminders = append(reminders, "Due tomorrow: "+a.Title)
	}

	events, err := ops.EventsWithin(database, refDate, 0)
	if err != nil {
		return "", err
	}
	for _, e := range events {
		line := fmt.Sprintf("Today: %s%s", strings.ToUpper(kindTag(e.Kind)), e.Title)
		if e.Notes != "" {
			line += " - " + e.Notes
		}
		reminders = append(reminders, line)
	}

	timetable, err := ops.TodaysTimetable(database, refDate)
	if err != nil {
		return "", err
	}
	if timetable != nil {
		reminders = append(reminders, "Today's path: "+FormatTimetable(timetable))
	}

	if len(reminders) == 0 {
		return "", nil
	}
	return "Tenskee awakens with tidings of fate!\n" + strings.Join(reminders, "\n"), nil
}

// FormatAssignmentList renders the "list assignments" reply.
func FormatAssignmentList(assignments []schedule.Assignment) string {
	if len(assignments) == 0 {
		return "No assignments recorded yet."
	}
	lines := make([]string, 0, len(assignments)+1)
	lines = append(lines, "Assignments:")
	for _, a := range assignments {
		lines = append(lines, fmt.Sprintf("- %s (due %s)", a.Title, schedule.FormatDate(a.Due)))
	}
	return strings.Join(lines, "\n")
}

// FormatEventList renders the "list events" reply.
func FormatEventList(events []schedule.Event) string {
	if len(events) == 0 {
		return "No upcoming events recorded."
	}
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, "Upcoming events:")
	for _, e := range events {
		line := fmt.Sprintf("- %s%s (%s)", kindTag(e.Kind), e.Title, schedule.FormatDate(e.Date))
		if e.Notes != "" {
			line += " - " + e.Notes
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatTimetable renders one day's entry as a single line.
func FormatTimetable(entry *schedule.TimetableEntry) string {
	if entry.FreeDay {
		return "free day"
	}
	parts := make([]string, 0, len(entry.Slots))
	for _, s := range entry.Slots {
		if s.Time != nil {
			parts = append(parts, s.Subject+" "+*s.Time)
		} else {
			parts = append(parts, s.Subject)
		}
	}
	return strings.Join(parts, ", ")
}

// ConfirmAssignment renders the reply for a stored assignment.
func ConfirmAssignment(a *schedule.Assignment) string {
	return fmt.Sprintf("Assignment sealed: %s due %s", a.Title, schedule.FormatDate(a.Due))
}

// ConfirmTimetable renders the reply for a timetable upsert.
func ConfirmTimetable(day time.Weekday) string {
	return fmt.Sprintf("Timetable inscribed for %s", day)
}

// ConfirmEvent renders the reply for a stored event.
func ConfirmEvent(e *schedule.Event) string {
	line := fmt.Sprintf("Event %sadded: %s on %s", kindTag(e.Kind), e.Title, schedule.FormatDate(e.Date))
	if e.Notes != "" {
		line += " - " + e.Notes
	}
	return line
}

// dayTag renders the TODAY/Tomorrow/In N days marker for a date relative to
// the reference date.
func dayTag(ref, date time.Time) string {
	switch days := schedule.DaysBetween(ref, date); days {
	case 0:
		return "TODAY"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// kindTag renders "[kind] " or nothing.
func kindTag(kind string) string {
	if kind == "" {
		return ""
	}
	return "[" + kind + "] "
}
