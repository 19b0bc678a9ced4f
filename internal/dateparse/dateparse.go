// Package dateparse resolves free-text date expressions against a caller
// supplied reference date. It understands ISO dates (YYYY-MM-DD), "today",
// "tomorrow", bare weekday names, and "next <weekday>". Resolution is pure:
// the same (expression, reference) pair always yields the same date, and
// wall-clock time is never consulted.
package dateparse

import (
	"strings"
	"time"

	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/schedule"
)

// Resolve turns expr into a civil date relative to ref. ref may carry a
// time-of-day and location; only its calendar date is used. Unrecognized
// expressions return a DATE_UNPARSEABLE error; callers must surface the
// failure rather than defaulting to today.
func Resolve(expr string, ref time.Time) (time.Time, error) {
	cleaned := strings.TrimSpace(expr)
	if cleaned == "" {
		return time.Time{}, errors.NewDateUnparseable(expr)
	}
	refDate := schedule.Truncate(ref)
	lower := strings.ToLower(cleaned)

	switch lower {
	case "today":
		return refDate, nil
	case "tomorrow":
		return refDate.AddDate(0, 0, 1), nil
	}

	// Absolute ISO date. time.Parse rejects non-calendar dates.
	if len(cleaned) == len(schedule.DateLayout) && strings.Count(cleaned, "-") == 2 {
		d, err := schedule.ParseDate(cleaned)
		if err != nil {
			return time.Time{}, errors.NewDateUnparseable(cleaned)
		}
		return d, nil
	}

	// "next <weekday>": strictly after ref, always within [ref+1, ref+7].
	// When ref itself falls on the named weekday, a full week is added.
	if rest, ok := strings.CutPrefix(lower, "next "); ok {
		day, ok := schedule.ParseWeekday(rest)
		if !ok {
			return time.Time{}, errors.NewDateUnparseable(cleaned)
		}
		return nextWeekday(refDate, day), nil
	}

	// Bare weekday: nearest occurrence on or after ref, today included.
	if day, ok := schedule.ParseWeekday(lower); ok {
		return onOrAfterWeekday(refDate, day), nil
	}

	return time.Time{}, errors.NewDateUnparseable(cleaned)
}

// nextWeekday returns the next occurrence of target strictly after ref.
func nextWeekday(ref time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(ref.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return ref.AddDate(0, 0, ahead)
}

// onOrAfterWeekday returns the nearest occurrence of target on or after ref.
func onOrAfterWeekday(ref time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(ref.Weekday())
	if ahead < 0 {
		ahead += 7
	}
	return ref.AddDate(0, 0, ahead)
}
