package stats

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cradlelog/cradlelog/internal/utils"
	"github.com/cradlelog/cradlelog/pkg/child"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// eveningWindowStartHour marks where the "previous evening" display window
// begins on the day before (18:00 local).
const eveningWindowStartHour = 18

type StatsService interface {
	// ComputeDailyStat derives the summary for one child and civil date in
	// the given timezone, stores it keyed by (child, date), and returns it.
	// It is idempotent: recomputing without event changes yields the same
	// value.
	ComputeDailyStat(ctx context.Context, childID int, date string, timezone string) (DailyStat, error)
	// ListEventsForDay returns the child's events relevant for rendering the
	// date, ascending by start time. With includePreviousEvening, events
	// starting from 18:00 local the previous day are included as well; they
	// never affect the day's totals.
	ListEventsForDay(ctx context.Context, childID int, date string, timezone string, includePreviousEvening bool) ([]event.Event, error)
	// ComputeRange computes one stat per date in [from, to], inclusive.
	ComputeRange(ctx context.Context, childID int, from, to string, timezone string) ([]DailyStat, error)
	// RecomputeAll recomputes the date for every child, in each child's own
	// timezone when none is given. Per-child failures are collected, not
	// fatal.
	RecomputeAll(ctx context.Context, date string) (BatchReport, error)
	// RecomputeYesterday recomputes the previous civil day per child, where
	// "yesterday" is resolved in each child's own timezone.
	RecomputeYesterday(ctx context.Context) (BatchReport, error)
}

type StatsServiceImpl struct {
	events    event.EventRepository
	children  child.Repo
	statsRepo StatsRepository
	clock     utils.Clock
}

func NewStatsService(events event.EventRepository, children child.Repo, statsRepo StatsRepository) *StatsServiceImpl {
	return &StatsServiceImpl{
		events:    events,
		children:  children,
		statsRepo: statsRepo,
		clock:     &utils.SystemClock{},
	}
}

func (s *StatsServiceImpl) ComputeDailyStat(ctx context.Context, childID int, date string, timezone string) (DailyStat, error) {
	dayStart, dayEnd, _, err := dayWindow(date, timezone)
	if err != nil {
		return DailyStat{}, err
	}

	events, err := s.events.FindForDay(ctx, childID, dayStart, dayEnd)
	if err != nil {
		return DailyStat{}, fmt.Errorf("could not load events for child %d on %s: %w", childID, date, err)
	}

	stat := aggregate(childID, date, timezone, dayStart, dayEnd, events)

	if err := s.statsRepo.Upsert(ctx, stat); err != nil {
		return DailyStat{}, err
	}
	return stat, nil
}

// aggregate applies each event's day-attribution rule to the window
// [dayStart, dayEnd). It is pure: same inputs, same output.
func aggregate(childID int, date string, timezone string, dayStart, dayEnd time.Time, events []event.Event) DailyStat {
	stat := DailyStat{
		ChildID:  childID,
		Date:     date,
		Timezone: timezone,
		ByType:   make(map[eventtype.Type]CategoryTotals),
	}

	for _, e := range events {
		policy, ok := eventtype.PolicyFor(e.Type)
		if !ok {
			log.Warnf("Skipping event %d with unknown type %q", e.ID, e.Type)
			continue
		}
		startsInDay := !e.StartTime.Before(dayStart) && e.StartTime.Before(dayEnd)

		if policy.Shape == eventtype.Point {
			if !startsInDay {
				continue
			}
			totals := stat.ByType[e.Type]
			totals.Count++
			stat.ByType[e.Type] = totals
			countPointFields(&stat, e)
			continue
		}

		switch policy.DayAttribution {
		case eventtype.Clipped:
			// An open event has no closed duration yet and contributes
			// nothing to this day.
			if e.EndTime == nil {
				continue
			}
			clipStart := maxTime(e.StartTime, dayStart)
			clipEnd := minTime(*e.EndTime, dayEnd)
			minutes := int(clipEnd.Sub(clipStart).Minutes())
			if minutes <= 0 {
				continue
			}
			totals := stat.ByType[e.Type]
			totals.Count++
			totals.Minutes += minutes
			stat.ByType[e.Type] = totals
			if e.Type == eventtype.Sleep {
				stat.SleepMinutes += minutes
			}

		case eventtype.StartAnchored:
			// All-or-nothing: the whole duration lands on the day the event
			// started, even when it spills past midnight.
			if !startsInDay {
				continue
			}
			totals := stat.ByType[e.Type]
			totals.Count++
			totals.Minutes += int(e.Duration().Minutes())
			stat.ByType[e.Type] = totals
			if e.Fields.AmountML != nil {
				switch e.Type {
				case eventtype.Bottle:
					stat.BottleML += *e.Fields.AmountML
				case eventtype.Pump:
					stat.PumpedML += *e.Fields.AmountML
				}
			}
		}
	}

	return stat
}

func countPointFields(stat *DailyStat, e event.Event) {
	if e.Type != eventtype.Diaper {
		return
	}
	if e.Fields.Poop != nil && *e.Fields.Poop {
		stat.PoopCount++
	}
	if e.Fields.Pee != nil && *e.Fields.Pee {
		stat.PeeCount++
	}
}

func (s *StatsServiceImpl) ListEventsForDay(ctx context.Context, childID int, date string, timezone string, includePreviousEvening bool) ([]event.Event, error) {
	dayStart, dayEnd, loc, err := dayWindow(date, timezone)
	if err != nil {
		return nil, err
	}

	events, err := s.events.FindForDay(ctx, childID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	if !includePreviousEvening {
		return events, nil
	}

	day := dayStart.In(loc)
	eveningStart := time.Date(day.Year(), day.Month(), day.Day()-1, eveningWindowStartHour, 0, 0, 0, loc)
	evening, err := s.events.FindStartingBetween(ctx, childID, eveningStart, dayStart)
	if err != nil {
		return nil, err
	}

	// The day query already holds events that started before midnight and
	// ran into the day; avoid listing those twice.
	seen := make(map[int]bool, len(events))
	for _, e := range events {
		seen[e.ID] = true
	}
	merged := make([]event.Event, 0, len(evening)+len(events))
	for _, e := range evening {
		if !seen[e.ID] {
			merged = append(merged, e)
		}
	}
	merged = append(merged, events...)
	// A spill-in event can start before the evening window, so the two
	// sorted queries do not concatenate into a sorted whole.
	slices.SortFunc(merged, func(a, b event.Event) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return merged, nil
}

func (s *StatsServiceImpl) ComputeRange(ctx context.Context, childID int, from, to string, timezone string) ([]DailyStat, error) {
	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, &ValidationError{Field: "from", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", from)}
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, &ValidationError{Field: "to", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", to)}
	}
	if toDay.Before(fromDay) {
		return nil, &ValidationError{Field: "to", Reason: fmt.Sprintf("range end %s is before start %s", to, from)}
	}

	result := make([]DailyStat, 0)
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		stat, err := s.ComputeDailyStat(ctx, childID, day.Format(dateLayout), timezone)
		if err != nil {
			return nil, err
		}
		result = append(result, stat)
	}
	return result, nil
}

func (s *StatsServiceImpl) RecomputeAll(ctx context.Context, date string) (BatchReport, error) {
	return s.recomputeBatch(ctx, func(c child.Child) string { return date })
}

func (s *StatsServiceImpl) RecomputeYesterday(ctx context.Context) (BatchReport, error) {
	now := s.clock.Now()
	return s.recomputeBatch(ctx, func(c child.Child) string {
		loc, err := time.LoadLocation(c.Settings.Timezone)
		if err != nil {
			loc = time.UTC
		}
		return now.In(loc).AddDate(0, 0, -1).Format(dateLayout)
	})
}

// recomputeBatch walks every child and recomputes one day each, isolating
// per-child failures so the rest of the run still completes.
func (s *StatsServiceImpl) recomputeBatch(ctx context.Context, dateFor func(child.Child) string) (BatchReport, error) {
	children, err := s.children.GetAllChildren(ctx)
	if err != nil {
		return BatchReport{}, fmt.Errorf("could not list children for batch recompute: %w", err)
	}

	report := BatchReport{}
	for _, c := range children {
		date := dateFor(c)
		report.Date = date
		if _, err := s.ComputeDailyStat(ctx, c.Id, date, c.Settings.Timezone); err != nil {
			log.Errorf("Daily stat recompute failed for child %d on %s: %v", c.Id, date, err)
			report.Failures = append(report.Failures, OwnerFailure{ChildID: c.Id, Err: err})
			continue
		}
		report.Computed++
	}
	return report, nil
}

// dayWindow resolves a civil date and timezone to the absolute instants
// [dayStart, dayEnd) bounding that local day.
func dayWindow(date string, timezone string) (time.Time, time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, time.Time{}, nil, &ValidationError{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", timezone)}
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", date)}
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
	return dayStart, dayEnd, loc, nil
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
