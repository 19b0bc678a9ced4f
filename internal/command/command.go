// Package command turns a raw chat message into a tagged command. The bot
// only reacts when its mention token is present; after that a small grammar
// anchored on the literal keywords "add", "due", "timetable", "event" and
// "list" decides which command variant the message is. Date substrings are
// delegated to dateparse and never defaulted.
package command

import (
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/dateparse"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// Kind tags the parsed command variant.
type Kind string

const (
	// NotTriggered means the message does not mention the bot. No reply,
	// no side effect.
	NotTriggered Kind = "not_triggered"
	// Unsummon is a summon with no recognized command: the bot answers
	// with its default digest.
	Unsummon        Kind = "unsummon"
	AddAssignment   Kind = "add_assignment"
	AddTimetable    Kind = "add_timetable"
	AddEvent        Kind = "add_event"
	ListAssignments Kind = "list_assignments"
	ListEvents      Kind = "list_events"
)

// AssignmentArgs carries the payload of an AddAssignment command.
type AssignmentArgs struct {
	Title string
	Due   time.Time
}

// TimetableArgs carries the payload of an AddTimetable command.
type TimetableArgs struct {
	Day   time.Weekday
	Entry schedule.TimetableEntry
}

// EventArgs carries the payload of an AddEvent command.
type EventArgs struct {
	Kind  string // exam, test, quiz, presentation, meeting... or empty
	Title string
	Date  time.Time
	Notes string
}

// Command is the parse result. Exactly one payload field is set, matching Kind.
type Command struct {
	Kind       Kind
	Assignment *AssignmentArgs
	Timetable  *TimetableArgs
	Event      *EventArgs
}

// eventKinds are recognized event type prefixes, from the original command set.
var eventKinds = map[string]bool{
	"exam": true, "test": true, "quiz": true, "presentation": true, "meeting": true,
}

// Parse analyzes a chat message. botUsername is the bot's mention identifier
// without the leading "@". ref is the reference date for resolving relative
// date expressions. A message without the mention returns Kind NotTriggered
// and a nil error.
func Parse(message, botUsername string, ref time.Time) (Command, error) {
	rest, mentioned := stripMention(message, botUsername)
	if !mentioned {
		return Command{Kind: NotTriggered}, nil
	}

	rest = stripSummonPhrase(rest)
	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return Command{Kind: Unsummon}, nil
	}

	verb := strings.ToLower(tokens[0])
	switch {
	case verb == "list" && len(tokens) >= 2 && strings.ToLower(tokens[1]) == "assignments":
		return Command{Kind: ListAssignments}, nil

	case verb == "list" && len(tokens) >= 2 && strings.ToLower(tokens[1]) == "events":
		return Command{Kind: ListEvents}, nil

	case verb == "add" && len(tokens) >= 2 && strings.ToLower(tokens[1]) == "timetable":
		return parseTimetable(tokens[2:])

	case verb == "add" && len(tokens) >= 2 && strings.ToLower(tokens[1]) == "event":
		return parseEvent(tokens[2:], ref)

	case verb == "add":
		return parseAssignment(tokens[1:], ref)
	}

	// Trigger present but no recognized verb: default digest path.
	return Command{Kind: Unsummon}, nil
}

// stripMention removes every token mentioning the bot and reports whether
// at least one was present. Both "@name" and "@name" minus a trailing
// "_bot" count as mentions.
func stripMention(message, botUsername string) (string, bool) {
	full := "@" + strings.ToLower(botUsername)
	short := strings.TrimSuffix(full, "_bot")

	mentioned := false
	kept := make([]string, 0, 8)
	for _, tok := range strings.Fields(message) {
		lower := strings.ToLower(strings.Trim(tok, ".,!?"))
		if lower == full || lower == short {
			mentioned = true
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " "), mentioned
}

// stripSummonPhrase drops a leading "save us" (optionally prefixed by the
// bot's display name) from the remaining text.
func stripSummonPhrase(s string) string {
	lower := strings.ToLower(s)
	for _, phrase := range []string{"tenskee save us", "save us"} {
		if strings.HasPrefix(lower, phrase) {
			return strings.TrimSpace(s[len(phrase):])
		}
	}
	return s
}

// parseAssignment handles "add <title...> due <date-expression>".
// tokens are everything after "add".
func parseAssignment(tokens []string, ref time.Time) (Command, error) {
	dueIdx := -1
	for i, tok := range tokens {
		if strings.ToLower(tok) == "due" {
			dueIdx = i
			break
		}
	}
	if dueIdx < 0 {
		// "add" without "due" is not an assignment command.
		return Command{Kind: Unsummon}, nil
	}

	title := strings.TrimSpace(strings.Join(tokens[:dueIdx], " "))
	if title == "" {
		return Command{}, errors.NewMissingTitle()
	}

	expr := strings.TrimSpace(strings.Join(tokens[dueIdx+1:], " "))
	due, err := dateparse.Resolve(expr, ref)
	if err != nil {
		return Command{}, errors.NewBadDate(expr)
	}

	return Command{
		Kind:       AddAssignment,
		Assignment: &AssignmentArgs{Title: title, Due: due},
	}, nil
}

// parseTimetable handles "add timetable <Weekday> <entries-or-free-day>".
// tokens are everything after "timetable".
func parseTimetable(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Command{}, errors.NewBadWeekday("")
	}

	day, ok := schedule.ParseWeekday(tokens[0])
	if !ok {
		return Command{}, errors.NewBadWeekday(tokens[0])
	}

	rest := strings.TrimSpace(strings.Join(tokens[1:], " "))
	if strings.EqualFold(rest, "free day") {
		return Command{
			Kind:      AddTimetable,
			Timetable: &TimetableArgs{Day: day, Entry: schedule.TimetableEntry{Day: day, FreeDay: true}},
		}, nil
	}

	slots := ParseSlots(rest)
	if len(slots) == 0 {
		return Command{}, errors.NewInvalidRequest("timetable needs entries or the phrase \"free day\"")
	}

	return Command{
		Kind:      AddTimetable,
		Timetable: &TimetableArgs{Day: day, Entry: schedule.TimetableEntry{Day: day, Slots: slots}},
	}, nil
}

// ParseSlots splits a comma-separated list of "<subject> <time>" pairs.
// The last whitespace-delimited token of each entry is taken as the time
// when it contains a digit; otherwise the whole entry is the subject and
// the time is left null rather than rejecting the entry.
func ParseSlots(s string) []schedule.Slot {
	var slots []schedule.Slot
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) >= 2 && strings.ContainsAny(fields[len(fields)-1], "0123456789") {
			t := fields[len(fields)-1]
			slots = append(slots, schedule.Slot{
				Subject: strings.Join(fields[:len(fields)-1], " "),
				Time:    &t,
			})
			continue
		}
		slots = append(slots, schedule.Slot{Subject: strings.Join(fields, " ")})
	}
	return slots
}

// parseEvent handles "add event [kind] <title...> on <date-expression>
// [notes <text...>]". tokens are everything after "event".
func parseEvent(tokens []string, ref time.Time) (Command, error) {
	kind := ""
	if len(tokens) >= 2 && eventKinds[strings.ToLower(tokens[0])] {
		kind = strings.ToLower(tokens[0])
		tokens = tokens[1:]
	}

	onIdx := -1
	for i, tok := range tokens {
		if strings.ToLower(tok) == "on" {
			onIdx = i
			break
		}
	}
	if onIdx < 0 {
		return Command{}, errors.NewInvalidRequest("events need a date: add event <title> on <date>")
	}

	title := strings.TrimSpace(strings.Join(tokens[:onIdx], " "))
	if title == "" {
		return Command{}, errors.NewMissingTitle()
	}

	after := tokens[onIdx+1:]
	notes := ""
	for i, tok := range after {
		if strings.ToLower(tok) == "notes" {
			notes = strings.TrimSpace(strings.Join(after[i+1:], " "))
			after = after[:i]
			break
		}
	}

	expr := strings.TrimSpace(strings.Join(after, " "))
	date, err := dateparse.Resolve(expr, ref)
	if err != nil {
		return Command{}, errors.NewBadDate(expr)
	}

	return Command{
		Kind:  AddEvent,
		Event: &EventArgs{Kind: kind, Title: title, Date: date, Notes: notes},
	}, nil
}
