// Package ops implements the operations over the schedule store: assignment
// and event writes, timetable upserts, and the due-soon query windows. Each
// write is a single SQL statement, so a failed operation never leaves a
// partial mutation behind.
package ops

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MaxListedEvents caps the "list events" reply.
const MaxListedEvents = 10

// writeMu serializes all store writes. Reads take no lock: with a single
// writer each read observes a consistent snapshot.
var writeMu sync.Mutex

// entropy is the single monotonic entropy source behind every generated ID.
// One shared source keeps lexical ULID order equal to generation order even
// for IDs minted in the same millisecond; per-call sources would hand each
// ID independent random entropy and scramble same-millisecond ties.
var entropy = ulid.Monotonic(rand.Reader, 0)

// generateULID generates a new monotonic ULID. Lexical ULID order encodes
// insertion order, which the list queries use as the stable tie-break.
// Callers must hold writeMu: the entropy source is not safe for concurrent
// use, and generating under the write lock is what pins ID order to row
// insertion order.
func generateULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
