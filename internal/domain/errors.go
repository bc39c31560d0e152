package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a session or stored search does not exist.
// Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when user input fails a business rule
// (bad location code, missing date, return before departure, ...).
// Handlers map it to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPrecondition marks structural misuse of the itinerary, such as adding a
// segment outside multi-city mode or removing the last remaining segment.
// The state is left untouched; handlers treat it as a no-op, not a failure.
var ErrPrecondition = errors.New("precondition failed")

// ValidationErrors is the accumulated list of user-facing messages produced
// while validating a search. It unwraps to ErrValidation.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return "validation error: " + strings.Join(v, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match a ValidationErrors value.
func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Messages returns the individual messages. Always non-nil.
func (v ValidationErrors) Messages() []string {
	if v == nil {
		return []string{}
	}
	return []string(v)
}
