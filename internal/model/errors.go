package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord marks a raw record with a missing or non-numeric required field.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMissingField marks an interval handed to the engine without a required field.
	ErrMissingField = errors.New("missing field")
	// ErrEmptySeries is returned by calculations that have no answer for zero intervals.
	ErrEmptySeries = errors.New("empty series")
)

// RecordError locates a failure at a specific record or interval.
// Err is one of the kind sentinels above, possibly wrapping a parse error.
type RecordError struct {
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ErrorKind returns a stable upper-case code for err, suitable for API payloads
// and metric labels. Unknown errors map to "INTERNAL_ERROR".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedRecord):
		return "MALFORMED_RECORD"
	case errors.Is(err, ErrMissingField):
		return "MISSING_FIELD"
	case errors.Is(err, ErrEmptySeries):
		return "EMPTY_SERIES"
	default:
		return "INTERNAL_ERROR"
	}
}
