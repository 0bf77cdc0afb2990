package services

import "errors"

// ErrNotFound marks a lookup for an id that does not exist.
var ErrNotFound = errors.New("not found")

// RejectedError is a validation failure whose reason is safe to surface to
// the caller verbatim (unavailable menu item, bad status value, and so on).
// Anything else is treated as an internal failure and surfaced generically.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

// Rejected reports whether err carries a user-facing reason.
func Rejected(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
