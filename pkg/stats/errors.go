package stats

import "fmt"

// ValidationError reports a malformed date, range, or timezone supplied by
// the caller, as opposed to a storage failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
