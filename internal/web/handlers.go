package web

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/digest"
	"github.com/dd3vahmad/tenskee/internal/ops"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// Handlers holds dependencies for the status page handlers.
type Handlers struct {
	db       *sql.DB
	loc      *time.Location
	renderer *Renderer
	now      func() time.Time
}

// HandleDigest renders the current upcoming-items digest.
func (h *Handlers) HandleDigest(w http.ResponseWriter, r *http.Request) {
	ref := schedule.Truncate(h.now().In(h.loc))
	var md strings.Builder

	fmt.Fprintf(&md, "# Digest for %s\n\n", schedule.FormatDate(ref))

	assignments, err := ops.DueWithin(h.db, ref, digest.AssignmentHorizon)
	if err != nil {
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	md.WriteString("## Assignments due within 7 days\n\n")
	if len(assignments) == 0 {
		md.WriteString("Nothing due.\n\n")
	}
	for _, a := range assignments {
		fmt.Fprintf(&md, "- **%s** due %s\n", a.Title, schedule.FormatDate(a.Due))
	}

	events, err := ops.EventsWithin(h.db, ref, digest.EventHorizon)
	if err != nil {
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	md.WriteString("\n## Events within 14 days\n\n")
	if len(events) == 0 {
		md.WriteString("No upcoming events.\n\n")
	}
	for _, e := range events {
		line := fmt.Sprintf("- **%s** on %s", e.Title, schedule.FormatDate(e.Date))
		if e.Kind != "" {
			line += " (" + e.Kind + ")"
		}
		if e.Notes != "" {
			line += " - " + e.Notes
		}
		md.WriteString(line + "\n")
	}

	tomorrow, err := ops.TomorrowsTimetable(h.db, ref)
	if err != nil {
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	md.WriteString("\n## Tomorrow's timetable\n\n")
	if tomorrow == nil {
		md.WriteString("No timetable entry.\n")
	} else {
		md.WriteString(digest.FormatTimetable(tomorrow) + "\n")
	}

	h.renderer.RenderPage(w, "Digest", md.String())
}

// HandleAssignments renders the full assignment list.
func (h *Handlers) HandleAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := ops.ListAssignments(h.db)
	if err != nil {
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}

	var md strings.Builder
	md.WriteString("# All assignments\n\n")
	if len(assignments) == 0 {
		md.WriteString("No assignments recorded yet.\n")
	}
	for _, a := range assignments {
		fmt.Fprintf(&md, "- **%s** due %s\n", a.Title, schedule.FormatDate(a.Due))
	}

	h.renderer.RenderPage(w, "Assignments", md.String())
}
