package event

import (
	"errors"
	"fmt"
)

var ErrEventNotFound = errors.New("event not found")

// ValidationError reports malformed input. The operation had no effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictCode names the two temporal conflict classes.
type ConflictCode string

const (
	// DuplicateActivity marks an accidental double submit. Never forceable.
	DuplicateActivity ConflictCode = "DUPLICATE_ACTIVITY"
	// OverlapActivity marks a genuine scheduling conflict between two
	// exclusive activities. Forceable with an explicit resubmission.
	OverlapActivity ConflictCode = "OVERLAP_ACTIVITY"
)

// ConflictError is returned when a candidate event collides with an existing
// one for the same child.
type ConflictError struct {
	Code               ConflictCode
	ConflictingEventID int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflicts with event %d", e.Code, e.ConflictingEventID)
}
