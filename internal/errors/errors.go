package errors

import "fmt"

// ErrorCode represents a Tenskee error code.
type ErrorCode string

const (
	ErrDateUnparseable ErrorCode = "DATE_UNPARSEABLE" // date expression not understood
	ErrBadDate         ErrorCode = "BAD_DATE"         // command carried an unresolvable date
	ErrBadWeekday      ErrorCode = "BAD_WEEKDAY"      // timetable day is not a weekday name
	ErrMissingTitle    ErrorCode = "MISSING_TITLE"    // assignment/event title empty after trimming
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrWriteFailure    ErrorCode = "WRITE_FAILURE" // persistence layer unavailable
	ErrInternal        ErrorCode = "INTERNAL"
)

// BotError represents a structured error with a code, a message, and the
// input fragment that caused it (empty when not applicable).
type BotError struct {
	Code     ErrorCode
	Message  string
	Fragment string
}

// Error implements the error interface.
func (e *BotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the short reply sent back to the chat for this error.
// Parse and resolution errors name the offending fragment.
func (e *BotError) UserMessage() string {
	switch e.Code {
	case ErrDateUnparseable, ErrBadDate:
		return fmt.Sprintf("I could not make sense of the date %q. Try YYYY-MM-DD, today, tomorrow, or next <weekday>.", e.Fragment)
	case ErrBadWeekday:
		return fmt.Sprintf("%q is not a weekday I know. Use full names like Monday or Tuesday.", e.Fragment)
	case ErrMissingTitle:
		return "That command has no title. Tell me what the task is, e.g. add math quiz due tomorrow."
	case ErrWriteFailure:
		return "I could not write that down just now. Try again in a moment."
	default:
		return e.Message
	}
}

// NewDateUnparseable creates an error for a date expression that cannot be resolved.
func NewDateUnparseable(expr string) *BotError {
	return &BotError{
		Code:     ErrDateUnparseable,
		Message:  fmt.Sprintf("cannot resolve date expression %q", expr),
		Fragment: expr,
	}
}

// NewBadDate creates an error for a command whose date substring failed to resolve.
func NewBadDate(expr string) *BotError {
	return &BotError{
		Code:     ErrBadDate,
		Message:  fmt.Sprintf("bad date in command: %q", expr),
		Fragment: expr,
	}
}

// NewBadWeekday creates an error for an unrecognized weekday token.
func NewBadWeekday(token string) *BotError {
	return &BotError{
		Code:     ErrBadWeekday,
		Message:  fmt.Sprintf("not a weekday name: %q", token),
		Fragment: token,
	}
}

// NewMissingTitle creates an error for a command with an empty title.
func NewMissingTitle() *BotError {
	return &BotError{
		Code:    ErrMissingTitle,
		Message: "title must not be empty",
	}
}

// NewInvalidRequest creates an error for invalid operation parameters.
func NewInvalidRequest(msg string) *BotError {
	return &BotError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNotFound creates an error for a missing record.
func NewNotFound(identifier string) *BotError {
	return &BotError{
		Code:     ErrNotFound,
		Message:  fmt.Sprintf("not found: %s", identifier),
		Fragment: identifier,
	}
}

// NewWriteFailure wraps a persistence error. Fatal to the single operation,
// surfaced to the user as "try again".
func NewWriteFailure(err error) *BotError {
	msg := "write failed"
	if err != nil {
		msg = err.Error()
	}
	return &BotError{
		Code:    ErrWriteFailure,
		Message: msg,
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *BotError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BotError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is a BotError with the given code.
func Is(err error, code ErrorCode) bool {
	if bErr, ok := err.(*BotError); ok {
		return bErr.Code == code
	}
	return false
}
