package ops

import (
	"testing"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

func TestSetTimetable(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	nine := "9AM"
	err = SetTimetable(database, SetTimetableInput{
		Day: time.Monday,
		Entry: schedule.TimetableEntry{
			Slots: []schedule.Slot{{Subject: "OOP", Time: &nine}, {Subject: "Stats"}},
		},
	})
	if err != nil {
		t.Fatalf("SetTimetable failed: %v", err)
	}

	got, err := GetTimetable(database, time.Monday)
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetTimetable returned nil")
	}
	if len(got.Slots) != 2 || got.Slots[0].Subject != "OOP" {
		t.Errorf("Slots = %+v, want OOP then Stats", got.Slots)
	}
}

func TestSetTimetable_FreeDayReplacesSlots(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	// Tuesday free day, then a later write with real slots: only the
	// later write survives.
	err = SetTimetable(database, SetTimetableInput{
		Day:   time.Tuesday,
		Entry: schedule.TimetableEntry{FreeDay: true},
	})
	if err != nil {
		t.Fatalf("SetTimetable failed: %v", err)
	}

	nine := "9AM"
	err = SetTimetable(database, SetTimetableInput{
		Day:   time.Tuesday,
		Entry: schedule.TimetableEntry{Slots: []schedule.Slot{{Subject: "OOP", Time: &nine}}},
	})
	if err != nil {
		t.Fatalf("SetTimetable failed: %v", err)
	}

	got, err := GetTimetable(database, time.Tuesday)
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}
	if got.FreeDay {
		t.Error("FreeDay survived replacement, want false")
	}
	if len(got.Slots) != 1 || got.Slots[0].Subject != "OOP" {
		t.Errorf("Slots = %+v, want the replacing OOP slot", got.Slots)
	}
}

func TestSetTimetable_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	input := SetTimetableInput{
		Day:   time.Wednesday,
		Entry: schedule.TimetableEntry{FreeDay: true},
	}
	for i := 0; i < 2; i++ {
		if err := SetTimetable(database, input); err != nil {
			t.Fatalf("SetTimetable run %d failed: %v", i, err)
		}
	}

	got, err := GetTimetable(database, time.Wednesday)
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}
	if got == nil || !got.FreeDay {
		t.Errorf("entry = %+v, want a single free-day entry", got)
	}
}

func TestSetTimetable_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	// No slots and not a free day.
	err = SetTimetable(database, SetTimetableInput{Day: time.Monday})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}

	// Blank subject.
	err = SetTimetable(database, SetTimetableInput{
		Day:   time.Monday,
		Entry: schedule.TimetableEntry{Slots: []schedule.Slot{{Subject: "   "}}},
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST for blank subject", err)
	}
}
