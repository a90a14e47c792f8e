package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cradlelog/cradlelog/internal/event_bus"
	"github.com/cradlelog/cradlelog/pkg/caregiver"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *StubEventRepository, bus *event_bus.EventBus) *EventServiceImpl {
	return NewEventService(repo, NewClassifier(repo), bus)
}

func TestEventServiceCreate(t *testing.T) {
	ctx := context.Background()
	at := func(hour, min int) time.Time {
		return time.Date(2024, time.May, 1, hour, min, 0, 0, time.UTC)
	}

	t.Run("stores a valid event and assigns a uid", func(t *testing.T) {
		repo := &StubEventRepository{}
		service := newTestService(repo, event_bus.NewEventBus())
		amount := 120

		stored, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Bottle,
			StartTime: at(10, 0), EndTime: timePtr(at(10, 20)),
			Fields: Fields{AmountML: &amount},
		}, false)

		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
		assert.NotEmpty(t, stored.UID)
		assert.Len(t, repo.Events, 1)
	})

	t.Run("rejects an overlap without force", func(t *testing.T) {
		repo := &StubEventRepository{}
		existing, _ := repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Sleep, StartTime: at(9, 0), EndTime: timePtr(at(11, 0))})
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Bottle, StartTime: at(10, 0), EndTime: timePtr(at(10, 20)),
		}, false)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, OverlapActivity, conflict.Code)
		assert.Equal(t, existing.ID, conflict.ConflictingEventID)
		assert.Len(t, repo.Events, 1)
	})

	t.Run("accepts the same overlap with force", func(t *testing.T) {
		repo := &StubEventRepository{}
		repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Sleep, StartTime: at(9, 0), EndTime: timePtr(at(11, 0))})
		service := newTestService(repo, event_bus.NewEventBus())

		stored, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Bottle, StartTime: at(10, 0), EndTime: timePtr(at(10, 20)),
		}, true)

		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
		assert.Len(t, repo.Events, 2)
	})

	t.Run("rejects a duplicate even with force", func(t *testing.T) {
		repo := &StubEventRepository{}
		existing, _ := repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Bottle, StartTime: at(10, 0), EndTime: timePtr(at(10, 20))})
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Bottle, StartTime: at(10, 0), EndTime: timePtr(at(10, 20)),
		}, true)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, DuplicateActivity, conflict.Code)
		assert.Equal(t, existing.ID, conflict.ConflictingEventID)
		assert.Len(t, repo.Events, 1)
	})

	t.Run("rejects invalid candidates before touching storage", func(t *testing.T) {
		repo := &StubEventRepository{}
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Sleep, StartTime: at(10, 0), EndTime: timePtr(at(9, 0)),
		}, false)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Empty(t, repo.Events)
	})

	t.Run("publishes an audit change with the acting caregiver", func(t *testing.T) {
		repo := &StubEventRepository{}
		bus := event_bus.NewEventBus()
		var published []event_bus.EventChange
		event_bus.SubscribeTyped(bus, event_bus.EventCreated, func(e event_bus.EventT[event_bus.EventChange]) error {
			published = append(published, e.Data)
			return nil
		})
		service := newTestService(repo, bus)
		actor := caregiver.WithCaregiver(ctx, caregiver.Caregiver{ID: "mom", DisplayName: "Mom"})

		stored, err := service.Create(actor, Event{
			ChildID: 1, Type: eventtype.Bath, StartTime: at(19, 0), EndTime: timePtr(at(19, 15)),
		}, false)

		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, "created", published[0].Action)
		assert.Equal(t, 1, published[0].ChildID)
		assert.Equal(t, "mom", published[0].ActorID)
		assert.Nil(t, published[0].Before)
		assert.Equal(t, stored, published[0].After)
	})

	t.Run("audit handler failure does not fail the create", func(t *testing.T) {
		repo := &StubEventRepository{}
		bus := event_bus.NewEventBus()
		bus.Subscribe(event_bus.EventCreated, func(event_bus.Event) error {
			return errors.New("audit store down")
		})
		service := newTestService(repo, bus)

		stored, err := service.Create(ctx, Event{
			ChildID: 1, Type: eventtype.Bath, StartTime: at(19, 0), EndTime: timePtr(at(19, 15)),
		}, false)

		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
	})
}

func TestEventServiceUpdate(t *testing.T) {
	ctx := context.Background()
	at := func(hour, min int) time.Time {
		return time.Date(2024, time.May, 1, hour, min, 0, 0, time.UTC)
	}

	t.Run("an event does not conflict with its own stored row", func(t *testing.T) {
		repo := &StubEventRepository{}
		existing, _ := repo.Store(ctx, Event{ChildID: 1, UID: "abc", Type: eventtype.Sleep, StartTime: at(9, 0), EndTime: timePtr(at(11, 0))})
		service := newTestService(repo, event_bus.NewEventBus())

		updated, err := service.Update(ctx, Event{
			ID: existing.ID, Type: eventtype.Sleep, StartTime: at(9, 0), EndTime: timePtr(at(11, 30)),
		}, false)

		require.NoError(t, err)
		assert.Equal(t, at(11, 30), *updated.EndTime)
	})

	t.Run("keeps the stored child and uid", func(t *testing.T) {
		repo := &StubEventRepository{}
		existing, _ := repo.Store(ctx, Event{ChildID: 7, UID: "abc", Type: eventtype.Bath, StartTime: at(19, 0), EndTime: timePtr(at(19, 15))})
		service := newTestService(repo, event_bus.NewEventBus())

		updated, err := service.Update(ctx, Event{
			ID: existing.ID, ChildID: 99, Type: eventtype.Bath, StartTime: at(19, 0), EndTime: timePtr(at(19, 20)),
		}, false)

		require.NoError(t, err)
		assert.Equal(t, 7, updated.ChildID)
		assert.Equal(t, "abc", updated.UID)
	})

	t.Run("rejects moving onto another exclusive event", func(t *testing.T) {
		repo := &StubEventRepository{}
		other, _ := repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Sleep, StartTime: at(9, 0), EndTime: timePtr(at(11, 0))})
		existing, _ := repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Bottle, StartTime: at(12, 0), EndTime: timePtr(at(12, 20))})
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Update(ctx, Event{
			ID: existing.ID, Type: eventtype.Bottle, StartTime: at(10, 0), EndTime: timePtr(at(10, 20)),
		}, false)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, OverlapActivity, conflict.Code)
		assert.Equal(t, other.ID, conflict.ConflictingEventID)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := &StubEventRepository{}
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Update(ctx, Event{ID: 42, Type: eventtype.Bath, StartTime: at(19, 0)}, false)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and returns the event", func(t *testing.T) {
		repo := &StubEventRepository{}
		start := time.Date(2024, time.May, 1, 19, 0, 0, 0, time.UTC)
		existing, _ := repo.Store(ctx, Event{ChildID: 1, Type: eventtype.Bath, StartTime: start, EndTime: timePtr(start.Add(15 * time.Minute))})
		bus := event_bus.NewEventBus()
		var published []event_bus.EventChange
		event_bus.SubscribeTyped(bus, event_bus.EventDeleted, func(e event_bus.EventT[event_bus.EventChange]) error {
			published = append(published, e.Data)
			return nil
		})
		service := newTestService(repo, bus)

		deleted, err := service.Delete(ctx, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, existing, deleted)
		assert.Empty(t, repo.Events)
		require.Len(t, published, 1)
		assert.Equal(t, "deleted", published[0].Action)
		assert.Equal(t, existing, published[0].Before)
		assert.Nil(t, published[0].After)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := &StubEventRepository{}
		service := newTestService(repo, event_bus.NewEventBus())

		_, err := service.Delete(ctx, 42)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
