package console

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("console: record not found")
	ErrIDConflict     = errors.New("console: allocated id already in use")
	ErrDraftClosed    = errors.New("console: no draft in progress")
	ErrUnknownSortKey = errors.New("console: unknown sort key")
	ErrUnknownFilter  = errors.New("console: unknown filter")
	errMissingStore   = errors.New("console: record store not configured")
)

// ValidationError reports the fields that blocked a commit. The draft that
// failed is left untouched so callers can correct it and retry.
type ValidationError struct {
	Entity string
	Fields []string
	Cause  error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "console: invalid %s", e.Entity)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, ": missing or invalid %s", strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Message is the user facing notice shown when a commit is rejected.
func (e *ValidationError) Message() string {
	if e.Entity == "role" {
		return "Please fill in all required fields and select at least one permission"
	}
	return "Please fill in all required fields"
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
