package ops

import (
	"fmt"
	"testing"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

func TestAddEvent(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	date := schedule.Date(2026, time.February, 24)
	e, err := AddEvent(database, AddEventInput{
		Kind:  "exam",
		Title: "Data Structures",
		Date:  date,
		Notes: "Bring laptop",
	})
	if err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	if e.ID == "" {
		t.Error("ID is empty")
	}
	if e.Kind != "exam" || e.Title != "Data Structures" || e.Notes != "Bring laptop" {
		t.Errorf("event = %+v, want exam/Data Structures/Bring laptop", e)
	}
	if !e.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", e.Date, date)
	}
}

func TestAddEvent_MissingTitle(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	_, err = AddEvent(database, AddEventInput{Kind: "exam", Date: schedule.Date(2026, time.March, 1)})
	if !errors.Is(err, errors.ErrMissingTitle) {
		t.Errorf("error = %v, want MISSING_TITLE", err)
	}
}

func TestListUpcomingEvents_SameDateKeepsInsertionOrder(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	date := schedule.Date(2026, time.February, 24)
	for i := 0; i < MaxListedEvents; i++ {
		_, err := AddEvent(database, AddEventInput{
			Title: fmt.Sprintf("event %02d", i),
			Date:  date,
		})
		if err != nil {
			t.Fatalf("AddEvent %d failed: %v", i, err)
		}
	}

	got, err := ListUpcomingEvents(database, date)
	if err != nil {
		t.Fatalf("ListUpcomingEvents failed: %v", err)
	}
	if len(got) != MaxListedEvents {
		t.Fatalf("got %d events, want %d", len(got), MaxListedEvents)
	}
	for i, e := range got {
		if want := fmt.Sprintf("event %02d", i); e.Title != want {
			t.Fatalf("position %d holds %q, want %q: same-date ties are out of insertion order", i, e.Title, want)
		}
	}
}

func TestListUpcomingEvents_CapAndPast(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	ref := schedule.Date(2026, time.February, 20)

	// One event in the past never shows up.
	if _, err := AddEvent(database, AddEventInput{Title: "gone", Date: ref.AddDate(0, 0, -1)}); err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}

	// More future events than the cap.
	for i := 0; i < MaxListedEvents+3; i++ {
		_, err := AddEvent(database, AddEventInput{
			Title: fmt.Sprintf("event %02d", i),
			Date:  ref.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("AddEvent failed: %v", err)
		}
	}

	got, err := ListUpcomingEvents(database, ref)
	if err != nil {
		t.Fatalf("ListUpcomingEvents failed: %v", err)
	}
	if len(got) != MaxListedEvents {
		t.Fatalf("got %d events, want the cap of %d", len(got), MaxListedEvents)
	}
	// Soonest first, past event excluded.
	if got[0].Title != "event 00" {
		t.Errorf("first event = %q, want event 00", got[0].Title)
	}
	for _, e := range got {
		if e.Date.Before(ref) {
			t.Errorf("past event %q leaked into the upcoming list", e.Title)
		}
	}
}
