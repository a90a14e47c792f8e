package stats

import (
	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

// CategoryTotals is one event type's contribution to a civil day.
type CategoryTotals struct {
	Count   int
	Minutes int
}

// DailyStat is the derived per-day summary for one child. It is recomputed
// from the event set and replaced wholesale on every recompute; it never
// accumulates incrementally, so it can always be thrown away and rebuilt.
type DailyStat struct {
	ChildID  int
	Date     string // civil date, YYYY-MM-DD
	Timezone string
	ByType   map[eventtype.Type]CategoryTotals

	SleepMinutes int
	BottleML     int
	PumpedML     int
	PoopCount    int
	PeeCount     int
}

// OwnerFailure records one child whose recompute failed during a batch run.
type OwnerFailure struct {
	ChildID int
	Err     error
}

// BatchReport is the partial-success result of a batch recompute: failures
// are collected per child instead of aborting the run.
type BatchReport struct {
	Date     string
	Computed int
	Failures []OwnerFailure
}
