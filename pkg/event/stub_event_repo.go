package event

import (
	"context"
	"slices"
	"time"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

// StubEventRepository is an in-memory EventRepository for tests.
type StubEventRepository struct {
	Events []Event
	nextID int
}

func (s *StubEventRepository) Store(ctx context.Context, event Event) (Event, error) {
	s.nextID++
	event.ID = s.nextID
	s.Events = append(s.Events, event)
	return event, nil
}

func (s *StubEventRepository) Update(ctx context.Context, event Event) (Event, error) {
	for i := range s.Events {
		if s.Events[i].ID == event.ID {
			s.Events[i] = event
			return event, nil
		}
	}
	return Event{}, ErrEventNotFound
}

func (s *StubEventRepository) Delete(ctx context.Context, id int) error {
	for i := range s.Events {
		if s.Events[i].ID == id {
			s.Events = append(s.Events[:i], s.Events[i+1:]...)
			return nil
		}
	}
	return ErrEventNotFound
}

func (s *StubEventRepository) FindByID(ctx context.Context, id int) (*Event, error) {
	for i := range s.Events {
		if s.Events[i].ID == id {
			e := s.Events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *StubEventRepository) FindOverlapping(ctx context.Context, childID int, types []eventtype.Type, from, to time.Time, excludeID int) ([]Event, error) {
	result := make([]Event, 0)
	for _, e := range s.Events {
		if e.ChildID != childID || e.ID == excludeID || !slices.Contains(types, e.Type) {
			continue
		}
		if !e.StartTime.Before(to) {
			continue
		}
		if e.EndTime != nil && !e.EndTime.After(from) {
			continue
		}
		result = append(result, e)
	}
	sortByStart(result)
	return result, nil
}

func (s *StubEventRepository) FindForDay(ctx context.Context, childID int, dayStart, dayEnd time.Time) ([]Event, error) {
	result := make([]Event, 0)
	for _, e := range s.Events {
		if e.ChildID != childID {
			continue
		}
		startsInDay := !e.StartTime.Before(dayStart) && e.StartTime.Before(dayEnd)
		spillsIn := e.StartTime.Before(dayStart) && (e.EndTime == nil || !e.EndTime.Before(dayStart))
		if startsInDay || spillsIn {
			result = append(result, e)
		}
	}
	sortByStart(result)
	return result, nil
}

func (s *StubEventRepository) FindStartingBetween(ctx context.Context, childID int, from, to time.Time) ([]Event, error) {
	result := make([]Event, 0)
	for _, e := range s.Events {
		if e.ChildID == childID && !e.StartTime.Before(from) && e.StartTime.Before(to) {
			result = append(result, e)
		}
	}
	sortByStart(result)
	return result, nil
}

func (s *StubEventRepository) Cleanup() {
	s.Events = nil
	s.nextID = 0
}

func sortByStart(events []Event) {
	slices.SortFunc(events, func(a, b Event) int {
		return a.StartTime.Compare(b.StartTime)
	})
}
