package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

func notFound(table string, id int64) error {
	return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
}

// DecodeError reports a stored value that could not be converted back into
// its field, such as date text that is not YYYY-MM-DD.
type DecodeError struct {
	Table  string
	ID     int64
	Column string
	Value  any
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %d: column %s (%v): %v", e.Table, e.ID, e.Column, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeErrors returns the decode errors carried by err. It returns nil if err
// is nil or wraps anything other than decode errors, so callers can tell a
// partially readable result from a backend failure.
func DecodeErrors(err error) []*DecodeError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*DecodeError); ok {
		return []*DecodeError{e}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*DecodeError
		for _, e := range joined.Unwrap() {
			sub := DecodeErrors(e)
			if sub == nil {
				return nil
			}
			out = append(out, sub...)
		}
		return out
	}
	if inner := errors.Unwrap(err); inner != nil {
		return DecodeErrors(inner)
	}
	return nil
}
