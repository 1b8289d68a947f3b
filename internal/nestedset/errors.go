package nestedset

import (
	"errors"
	"fmt"

	"github.com/agentic-research/nestree/api"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrMalformedSequence marks outline input that breaks the level invariant.
	// It is a caller bug, never a retryable condition.
	ErrMalformedSequence = errors.New("malformed pre-order sequence")
)

// SequenceError describes where a flat sequence breaks the level invariant.
type SequenceError struct {
	Index int    // position in the input slice
	ID    api.ID // offending record
	Prev  int    // level of the previous record (or the baseline)
	Level int    // level of the offending record
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("record %d at index %d: level %d after %d: %v",
		e.ID, e.Index, e.Level, e.Prev, ErrMalformedSequence)
}

// Unwrap lets errors.Is match ErrMalformedSequence.
func (e *SequenceError) Unwrap() error {
	return ErrMalformedSequence
}
