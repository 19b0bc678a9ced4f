package ops

import (
	"database/sql"

	"github.com/dd3vahmad/tenskee/internal/db"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// ListAssignments returns every stored assignment sorted ascending by due
// date, ties broken by insertion order.
func ListAssignments(database *sql.DB) ([]schedule.Assignment, error) {
	return db.ListAssignments(database)
}
