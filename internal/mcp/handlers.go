package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dd3vahmad/tenskee/internal/command"
	"github.com/dd3vahmad/tenskee/internal/dateparse"
	"github.com/dd3vahmad/tenskee/internal/digest"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/ops"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, loc *time.Location) *Handlers {
	return &Handlers{db: db, loc: loc, now: time.Now}
}

// Request types for each tool

// AssignmentAddRequest represents the arguments for assignment_add.
type AssignmentAddRequest struct {
	Title string `json:"title"`
	Due   string `json:"due"`
}

// TimetableSetRequest represents the arguments for timetable_set.
type TimetableSetRequest struct {
	Day     string `json:"day"`
	Slots   string `json:"slots,omitempty"`
	FreeDay bool   `json:"free_day,omitempty"`
}

// TimetableGetRequest represents the arguments for timetable_get.
type TimetableGetRequest struct {
	Day string `json:"day"`
}

// EventAddRequest represents the arguments for event_add.
type EventAddRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Kind  string `json:"kind,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// DigestPreviewRequest represents the arguments for digest_preview.
type DigestPreviewRequest struct {
	ReferenceDate string `json:"reference_date,omitempty"`
}

// ref returns the reference date: the argument if given, today otherwise.
func (h *Handlers) ref(arg string) (time.Time, error) {
	if arg == "" {
		return schedule.Truncate(h.now().In(h.loc)), nil
	}
	return dateparse.Resolve(arg, h.now().In(h.loc))
}

// HandleAssignmentAdd implements the assignment_add tool.
func (h *Handlers) HandleAssignmentAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssignmentAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	due, err := dateparse.Resolve(input.Due, h.now().In(h.loc))
	if err != nil {
		return errorResult(err), nil
	}

	a, err := ops.AddAssignment(h.db, ops.AddAssignmentInput{Title: input.Title, Due: due})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(a)
}

// HandleAssignmentList implements the assignment_list tool.
func (h *Handlers) HandleAssignmentList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assignments, err := ops.ListAssignments(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"assignments": assignments})
}

// HandleTimetableSet implements the timetable_set tool.
func (h *Handlers) HandleTimetableSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TimetableSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	day, ok := schedule.ParseWeekday(input.Day)
	if !ok {
		return errorResult(errors.NewBadWeekday(input.Day)), nil
	}

	entry := schedule.TimetableEntry{Day: day, FreeDay: input.FreeDay}
	if !input.FreeDay {
		entry.Slots = command.ParseSlots(input.Slots)
	}

	if err := ops.SetTimetable(h.db, ops.SetTimetableInput{Day: day, Entry: entry}); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"day": day.String()})
}

// HandleTimetableGet implements the timetable_get tool.
func (h *Handlers) HandleTimetableGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TimetableGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	day, ok := schedule.ParseWeekday(input.Day)
	if !ok {
		return errorResult(errors.NewBadWeekday(input.Day)), nil
	}

	entry, err := ops.GetTimetable(h.db, day)
	if err != nil {
		return errorResult(err), nil
	}
	if entry == nil {
		return errorResult(errors.NewNotFound(day.String())), nil
	}
	return successResult(map[string]any{
		"day":      day.String(),
		"free_day": entry.FreeDay,
		"slots":    entry.Slots,
	})
}

// HandleEventAdd implements the event_add tool.
func (h *Handlers) HandleEventAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EventAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	date, err := dateparse.Resolve(input.Date, h.now().In(h.loc))
	if err != nil {
		return errorResult(err), nil
	}

	e, err := ops.AddEvent(h.db, ops.AddEventInput{
		Kind:  input.Kind,
		Title: input.Title,
		Date:  date,
		Notes: input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(e)
}

// HandleEventList implements the event_list tool.
func (h *Handlers) HandleEventList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := ops.ListUpcomingEvents(h.db, h.now().In(h.loc))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"events": events})
}

// HandleDigestPreview implements the digest_preview tool.
func (h *Handlers) HandleDigestPreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DigestPreviewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ref, err := h.ref(input.ReferenceDate)
	if err != nil {
		return errorResult(err), nil
	}

	text, err := digest.BuildSummon(h.db, ref)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"reference_date": schedule.FormatDate(ref),
		"digest":         text,
	})
}

// errorResult creates an MCP error result with a structured error payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any
	if bErr, ok := err.(*errors.BotError); ok {
		errorObj := map[string]any{
			"code":    string(bErr.Code),
			"message": bErr.Message,
		}
		if bErr.Fragment != "" {
			errorObj["fragment"] = bErr.Fragment
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
