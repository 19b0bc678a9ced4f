package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// AddAssignmentInput contains parameters for the AddAssignment operation.
type AddAssignmentInput struct {
	Title string    // required, trimmed
	Due   time.Time // required, a resolvable civil date
}

// AddAssignment records a new assignment. Duplicate titles are allowed.
func AddAssignment(database *sql.DB, input AddAssignmentInput) (*schedule.Assignment, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewMissingTitle()
	}
	if input.Due.IsZero() {
		return nil, errors.NewInvalidRequest("due date is required")
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	a := &schedule.Assignment{
		ID:        id,
		Title:     title,
		Due:       schedule.Truncate(input.Due),
		CreatedAt: time.Now().Unix(),
	}

	if err := db.InsertAssignment(database, a); err != nil {
		return nil, err
	}
	return a, nil
}
