package bot

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/digest"
	"github.com/dd3vahmad/tenskee/internal/ops"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// refDate is Friday 2026-02-20.
var refDate = schedule.Date(2026, time.February, 20)

func testBot(t *testing.T) (*Bot, *sql.DB) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	b := &Bot{
		username:      "tenskee_bot",
		db:            database,
		loc:           time.UTC,
		enrichTimeout: time.Second,
		now:           func() time.Time { return refDate },
	}
	return b, database
}

func TestRespond_NotTriggered(t *testing.T) {
	b, _ := testBot(t)

	reply, ok := b.Respond(context.Background(), "anyone done the math quiz?")
	if ok {
		t.Errorf("Respond replied %q to an ordinary message", reply)
	}
}

func TestRespond_AddAssignment(t *testing.T) {
	b, database := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot add math quiz due 2026-02-25")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.HasPrefix(reply, digest.ReplyPrefix) {
		t.Errorf("reply missing prefix: %q", reply)
	}
	if !strings.Contains(reply, "Assignment sealed: math quiz due 2026-02-25") {
		t.Errorf("reply = %q, want the sealed confirmation", reply)
	}

	stored, err := ops.ListAssignments(database)
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "math quiz" {
		t.Errorf("stored = %+v, want the added assignment", stored)
	}
}

func TestRespond_AddAssignmentRelative(t *testing.T) {
	b, database := testBot(t)

	// The reference is a Friday; "next Friday" is a week out.
	_, ok := b.Respond(context.Background(), "@tenskee_bot add essay due next Friday")
	if !ok {
		t.Fatal("Respond did not reply")
	}

	stored, err := ops.ListAssignments(database)
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	want := schedule.Date(2026, time.February, 27)
	if len(stored) != 1 || !stored[0].Due.Equal(want) {
		t.Errorf("stored = %+v, want due %v", stored, want)
	}
}

func TestRespond_BadDate(t *testing.T) {
	b, database := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot add math quiz due someday")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, `"someday"`) {
		t.Errorf("reply = %q, want the offending fragment named", reply)
	}

	// A failed parse writes nothing.
	stored, err := ops.ListAssignments(database)
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("store holds %d assignments after bad date, want 0", len(stored))
	}
}

func TestRespond_MissingTitle(t *testing.T) {
	b, _ := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot add due tomorrow")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "no title") {
		t.Errorf("reply = %q, want the missing-title message", reply)
	}
}

func TestRespond_Timetable(t *testing.T) {
	b, database := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot add timetable Monday OOP 9AM, Stats 11AM")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "Timetable inscribed for Monday") {
		t.Errorf("reply = %q, want the inscribed confirmation", reply)
	}

	entry, err := ops.GetTimetable(database, time.Monday)
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}
	if entry == nil || len(entry.Slots) != 2 {
		t.Errorf("entry = %+v, want two slots", entry)
	}
}

func TestRespond_Event(t *testing.T) {
	b, database := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot add event exam Data Structures on next Tuesday notes Bring laptop")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "Event [exam] added: Data Structures on 2026-02-24") {
		t.Errorf("reply = %q, want the event confirmation", reply)
	}

	events, err := ops.ListUpcomingEvents(database, refDate)
	if err != nil {
		t.Fatalf("ListUpcomingEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Notes != "Bring laptop" {
		t.Errorf("events = %+v, want the stored event with notes", events)
	}
}

func TestRespond_SummonDigest(t *testing.T) {
	b, database := testBot(t)

	_, err := ops.AddAssignment(database, ops.AddAssignmentInput{Title: "lab report", Due: refDate})
	if err != nil {
		t.Fatalf("AddAssignment failed: %v", err)
	}

	reply, ok := b.Respond(context.Background(), "@tenskee_bot save us")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.HasPrefix(reply, digest.ReplyPrefix) {
		t.Errorf("reply missing prefix: %q", reply)
	}
	if !strings.Contains(reply, "Assignment TODAY: lab report") {
		t.Errorf("reply = %q, want the due-today line", reply)
	}
}

func TestRespond_SummonQuiet(t *testing.T) {
	b, _ := testBot(t)

	reply, ok := b.Respond(context.Background(), "@tenskee_bot save us")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "All is calm... for now. No immediate doom detected.") {
		t.Errorf("reply = %q, want the all-calm line", reply)
	}
}

func TestRespond_SummonEnriched(t *testing.T) {
	b, _ := testBot(t)
	b.enricher = &staticEnricher{text: "Doom, retold grandly."}

	reply, ok := b.Respond(context.Background(), "@tenskee_bot save us")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "Doom, retold grandly.") {
		t.Errorf("reply = %q, want the enriched digest", reply)
	}
}

func TestRespond_Lists(t *testing.T) {
	b, database := testBot(t)

	_, err := ops.AddAssignment(database, ops.AddAssignmentInput{Title: "math quiz", Due: refDate.AddDate(0, 0, 5)})
	if err != nil {
		t.Fatalf("AddAssignment failed: %v", err)
	}

	reply, ok := b.Respond(context.Background(), "@tenskee_bot list assignments")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "- math quiz (due 2026-02-25)") {
		t.Errorf("reply = %q, want the assignment line", reply)
	}

	reply, ok = b.Respond(context.Background(), "@tenskee_bot list events")
	if !ok {
		t.Fatal("Respond did not reply")
	}
	if !strings.Contains(reply, "No upcoming events recorded.") {
		t.Errorf("reply = %q, want the empty events line", reply)
	}
}

func TestRespond_Start(t *testing.T) {
	b, _ := testBot(t)

	for _, msg := range []string{"/start", "/start@tenskee_bot"} {
		reply, ok := b.Respond(context.Background(), msg)
		if !ok {
			t.Fatalf("Respond(%q) did not reply", msg)
		}
		if !strings.Contains(reply, "Summon me with: @tenskee_bot save us") {
			t.Errorf("Respond(%q) = %q, want the welcome text", msg, reply)
		}
	}
}

type staticEnricher struct{ text string }

func (s *staticEnricher) Enrich(ctx context.Context, text string) (string, error) {
	return s.text, nil
}
