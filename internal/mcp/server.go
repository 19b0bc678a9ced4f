// Package mcp exposes the schedule store as MCP tools, so agent clients can
// read and write the same data the chat bot serves.
package mcp

import (
	"database/sql"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"assignment_add": {
		def: mcp.NewTool("assignment_add",
			mcp.WithDescription("Record an assignment with a due date. The date may be an ISO date (YYYY-MM-DD) or a relative expression like tomorrow or next friday."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Assignment title")),
			mcp.WithString("due", mcp.Required(), mcp.Description("Due date expression")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssignmentAdd },
	},
	"assignment_list": {
		def: mcp.NewTool("assignment_list",
			mcp.WithDescription("List all assignments, ascending by due date."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssignmentList },
	},
	"timetable_set": {
		def: mcp.NewTool("timetable_set",
			mcp.WithDescription("Replace the timetable for one weekday. Pass free_day=true or a list of slots; a new entry replaces the whole day."),
			mcp.WithString("day", mcp.Required(), mcp.Description("Full weekday name, e.g. Monday")),
			mcp.WithString("slots", mcp.Description("Comma-separated subject/time pairs, e.g. \"OOP 9AM, Stats 11AM\"")),
			mcp.WithBoolean("free_day", mcp.Description("Mark the whole day as free")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTimetableSet },
	},
	"timetable_get": {
		def: mcp.NewTool("timetable_get",
			mcp.WithDescription("Get the timetable entry for one weekday."),
			mcp.WithString("day", mcp.Required(), mcp.Description("Full weekday name, e.g. Monday")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTimetableGet },
	},
	"event_add": {
		def: mcp.NewTool("event_add",
			mcp.WithDescription("Record a dated event (exam, test, presentation, meeting...)."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Event date expression")),
			mcp.WithString("kind", mcp.Description("Event kind, e.g. exam")),
			mcp.WithString("notes", mcp.Description("Free-text notes")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEventAdd },
	},
	"event_list": {
		def: mcp.NewTool("event_list",
			mcp.WithDescription("List upcoming events, ascending by date."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEventList },
	},
	"digest_preview": {
		def: mcp.NewTool("digest_preview",
			mcp.WithDescription("Build the deterministic summon digest for a reference date (defaults to today)."),
			mcp.WithString("reference_date", mcp.Description("ISO reference date, defaults to today")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDigestPreview },
	},
}

// NewServer creates a new MCP server with the schedule tools registered.
func NewServer(db *sql.DB, loc *time.Location, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tenskee",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, loc)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, loc *time.Location, version string) error {
	s := NewServer(db, loc, version)
	return server.ServeStdio(s)
}
