package event

import (
	"time"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

// Event is a single logged caregiving activity for one child.
// EndTime is nil for an in-progress duration event; for point types it is
// always set and equal to StartTime.
type Event struct {
	ID        int
	UID       string
	ChildID   int
	Type      eventtype.Type
	StartTime time.Time
	EndTime   *time.Time
	Fields    Fields
}

// Fields carries the type-specific payload. Only the fields relevant for the
// event's type are set; the rest stay at their zero value.
type Fields struct {
	AmountML   *int   // BOTTLE, PUMP
	Pee        *bool  // DIAPER
	Poop       *bool  // DIAPER
	PoopColor  string // DIAPER
	Count      *int   // HEAD_LIFT, ROLL_OVER, PULL_TO_SIT
	Supplement string // SUPPLEMENT
	Notes      string
}

// Duration returns the closed span of the event, or 0 if it is still open.
func (e Event) Duration() time.Duration {
	if e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// EffectiveEnd returns the end of the event's interval, closing open events
// at the given instant.
func (e Event) EffectiveEnd(now time.Time) time.Time {
	if e.EndTime == nil {
		return now
	}
	return *e.EndTime
}

// sameInstant compares two optional instants; both-nil counts as equal.
func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
