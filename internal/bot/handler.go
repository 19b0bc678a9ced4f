package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dd3vahmad/tenskee/internal/command"
	"github.com/dd3vahmad/tenskee/internal/digest"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/ops"
)

// Respond computes the reply for an incoming message. The second return is
// false when the message does not concern the bot (no mention, no /start):
// no reply is sent and no store mutation happens. Parse and store errors
// produce a short user-facing message and never stop later messages from
// being handled.
func (b *Bot) Respond(ctx context.Context, text string) (string, bool) {
	if isStartCommand(text, b.username) {
		return welcome(b.username), true
	}

	ref := b.now().In(b.loc)

	cmd, err := command.Parse(text, b.username, ref)
	if err != nil {
		if bErr, ok := err.(*errors.BotError); ok {
			return digest.ReplyPrefix + bErr.UserMessage(), true
		}
		slog.Error("command parse failed", "error", err)
		return digest.ReplyPrefix + "Something went wrong over here. Try again in a moment.", true
	}

	switch cmd.Kind {
	case command.NotTriggered:
		return "", false

	case command.AddAssignment:
		a, err := ops.AddAssignment(b.db, ops.AddAssignmentInput{
			Title: cmd.Assignment.Title,
			Due:   cmd.Assignment.Due,
		})
		if err != nil {
			return b.errorReply(err), true
		}
		return digest.ReplyPrefix + digest.ConfirmAssignment(a), true

	case command.AddTimetable:
		err := ops.SetTimetable(b.db, ops.SetTimetableInput{
			Day:   cmd.Timetable.Day,
			Entry: cmd.Timetable.Entry,
		})
		if err != nil {
			return b.errorReply(err), true
		}
		return digest.ReplyPrefix + digest.ConfirmTimetable(cmd.Timetable.Day), true

	case command.AddEvent:
		e, err := ops.AddEvent(b.db, ops.AddEventInput{
			Kind:  cmd.Event.Kind,
			Title: cmd.Event.Title,
			Date:  cmd.Event.Date,
			Notes: cmd.Event.Notes,
		})
		if err != nil {
			return b.errorReply(err), true
		}
		return digest.ReplyPrefix + digest.ConfirmEvent(e), true

	case command.ListAssignments:
		assignments, err := ops.ListAssignments(b.db)
		if err != nil {
			return b.errorReply(err), true
		}
		return digest.ReplyPrefix + digest.FormatAssignmentList(assignments), true

	case command.ListEvents:
		events, err := ops.ListUpcomingEvents(b.db, ref)
		if err != nil {
			return b.errorReply(err), true
		}
		return digest.ReplyPrefix + digest.FormatEventList(events), true

	default: // command.Unsummon
		text, err := digest.BuildSummon(b.db, ref)
		if err != nil {
			return b.errorReply(err), true
		}
		text = digest.Enrich(ctx, b.enricher, text, b.enrichTimeout)
		return digest.ReplyPrefix + text, true
	}
}

// errorReply maps an operation error to a chat reply.
func (b *Bot) errorReply(err error) string {
	if bErr, ok := err.(*errors.BotError); ok {
		return digest.ReplyPrefix + bErr.UserMessage()
	}
	slog.Error("operation failed", "error", err)
	return digest.ReplyPrefix + "Something went wrong over here. Try again in a moment."
}

// isStartCommand matches "/start" and "/start@<username>".
func isStartCommand(text, username string) bool {
	first := strings.ToLower(strings.TrimSpace(text))
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	return first == "/start" || first == "/start@"+strings.ToLower(username)
}

// welcome is the /start reply with usage examples.
func welcome(username string) string {
	mention := "@" + username
	return "Hello! I'm Tenskee, your magical class group assistant.\n\n" +
		"Summon me with: " + mention + " save us\n\n" +
		"Examples:\n" +
		"- " + mention + " add math quiz due next Friday\n" +
		"- " + mention + " add physics midterm due 2026-03-15\n" +
		"- " + mention + " add timetable Monday OOP 9AM, Stats 11AM\n" +
		"- " + mention + " add timetable Tuesday free day\n" +
		"- " + mention + " add event exam Data Structures on next Tuesday notes Bring laptop\n" +
		"- " + mention + " list assignments\n" +
		"- " + mention + " list events\n\n" +
		"I send a daily reminder each morning with due items, events, and the day's timetable.\n\n" +
		"Let the magic begin!"
}
