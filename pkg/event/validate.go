package event

import (
	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

// ValidateAndNormalize checks a candidate event against its type's policy and
// returns a normalized copy. It performs no temporal conflict checks; those
// belong to the Classifier.
func ValidateAndNormalize(e Event) (Event, error) {
	policy, ok := eventtype.PolicyFor(e.Type)
	if !ok {
		return Event{}, &ValidationError{Field: "type", Reason: "unknown event type"}
	}
	if e.StartTime.IsZero() {
		return Event{}, &ValidationError{Field: "startTime", Reason: "is required"}
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return Event{}, &ValidationError{Field: "endTime", Reason: "must not be before startTime"}
	}

	if policy.Shape == eventtype.Point {
		// Point events have no span; whatever the caller sent, the end is
		// pinned to the start.
		end := e.StartTime
		e.EndTime = &end
	}

	if err := validateFields(e); err != nil {
		return Event{}, err
	}

	return e, nil
}

func validateFields(e Event) error {
	f := e.Fields
	if f.AmountML != nil && *f.AmountML < 0 {
		return &ValidationError{Field: "amountMl", Reason: "must not be negative"}
	}
	if f.Count != nil && *f.Count < 0 {
		return &ValidationError{Field: "count", Reason: "must not be negative"}
	}
	switch e.Type {
	case eventtype.Diaper:
		if f.Pee == nil && f.Poop == nil {
			return &ValidationError{Field: "fields", Reason: "diaper change needs at least one of pee or poop"}
		}
	case eventtype.Supplement:
		if f.Supplement == "" {
			return &ValidationError{Field: "supplement", Reason: "supplement name is required"}
		}
	}
	return nil
}
