// Package schedule defines the domain model for the class schedule:
// assignments with due dates, one timetable entry per weekday, and
// dated events. All calendar dates are civil dates (no time component)
// normalized to midnight UTC.
package schedule

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for civil dates.
const DateLayout = "2006-01-02"

// Assignment is a single tracked assignment. Duplicate titles are allowed;
// the store does not deduplicate.
type Assignment struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Due       time.Time `json:"due"` // civil date, midnight UTC
	CreatedAt int64     `json:"created_at"`
}

// Slot is one subject in a day's timetable. Time is nil when the entry was
// given without a recognizable time component.
type Slot struct {
	Subject string  `json:"subject"`
	Time    *string `json:"time,omitempty"`
}

// TimetableEntry is the schedule for one weekday. FreeDay marks the whole
// day as free; Slots is empty in that case. At most one entry exists per
// weekday; writes replace the whole day.
type TimetableEntry struct {
	Day     time.Weekday `json:"-"`
	Slots   []Slot       `json:"slots,omitempty"`
	FreeDay bool         `json:"free_day,omitempty"`
}

// Event is a dated one-off item (exam, test, presentation, meeting...).
// Kind and Notes may be empty.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"` // civil date, midnight UTC
	Notes     string    `json:"notes,omitempty"`
	CreatedAt int64     `json:"created_at"`
}

// Date builds a civil date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and location from t, keeping the calendar
// date as observed in t's location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// FormatDate renders a civil date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DateLayout string into a civil date. time.Parse
// rejects non-calendar dates (month 13, Feb 30), which is exactly the
// validation the store needs.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysBetween returns the number of whole days from a to b (negative when
// b is before a). Both are expected to be civil dates.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday matches a full English weekday name, case-insensitively.
// Abbreviations are deliberately not accepted so that bad weekday tokens
// produce a clear error instead of a guess.
func ParseWeekday(token string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(token))]
	return d, ok
}
