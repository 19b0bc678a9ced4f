package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// AddEventInput contains parameters for the AddEvent operation.
type AddEventInput struct {
	Kind  string // exam, test, quiz, presentation, meeting... or empty
	Title string
	Date  time.Time
	Notes string
}

// AddEvent records a new dated event.
func AddEvent(database *sql.DB, input AddEventInput) (*schedule.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewMissingTitle()
	}
	if input.Date.IsZero() {
		return nil, errors.NewInvalidRequest("event date is required")
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	e := &schedule.Event{
		ID:        id,
		Kind:      strings.TrimSpace(input.Kind),
		Title:     title,
		Date:      schedule.Truncate(input.Date),
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: time.Now().Unix(),
	}

	if err := db.InsertEvent(database, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListUpcomingEvents returns events on or after ref, ascending by date,
// capped at MaxListedEvents.
func ListUpcomingEvents(database *sql.DB, ref time.Time) ([]schedule.Event, error) {
	from := schedule.Truncate(ref)
	// Far-future sentinel; the cap makes the window irrelevant in practice.
	to := from.AddDate(10, 0, 0)
	return db.ListEventsBetween(database, from, to, MaxListedEvents)
}
