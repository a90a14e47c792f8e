package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cradlelog/cradlelog/internal/event_bus"
	"github.com/cradlelog/cradlelog/pkg/caregiver"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	start := time.Date(2024, time.May, 1, 19, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	snapshot := event.Event{
		ID: 3, UID: "abc", ChildID: 1, Type: eventtype.Bath,
		StartTime: start, EndTime: &end,
	}

	t.Run("records a create with an after snapshot only", func(t *testing.T) {
		repo := &StubRepository{}
		bus := event_bus.NewEventBus()
		NewRecorder(repo).Register(bus)

		err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventCreated, event_bus.EventChange{
			Action:    "created",
			ChildID:   1,
			ActorID:   "mom",
			After:     snapshot,
			Timestamp: start,
		}))

		require.NoError(t, err)
		require.Len(t, repo.Entries, 1)
		entry := repo.Entries[0]
		assert.Equal(t, ActionCreated, entry.Action)
		assert.Equal(t, 1, entry.ChildID)
		assert.Equal(t, "mom", entry.ActorID)
		assert.Nil(t, entry.Before)

		var recorded event.Event
		require.NoError(t, json.Unmarshal(entry.After, &recorded))
		assert.Equal(t, snapshot.UID, recorded.UID)
		assert.Equal(t, snapshot.Type, recorded.Type)
	})

	t.Run("records a delete with a before snapshot only", func(t *testing.T) {
		repo := &StubRepository{}
		bus := event_bus.NewEventBus()
		NewRecorder(repo).Register(bus)

		err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventDeleted, event_bus.EventChange{
			Action:    "deleted",
			ChildID:   1,
			Before:    snapshot,
			Timestamp: start,
		}))

		require.NoError(t, err)
		require.Len(t, repo.Entries, 1)
		assert.Equal(t, ActionDeleted, repo.Entries[0].Action)
		assert.NotNil(t, repo.Entries[0].Before)
		assert.Nil(t, repo.Entries[0].After)
	})

	t.Run("records every write made through the event service", func(t *testing.T) {
		repo := &StubRepository{}
		bus := event_bus.NewEventBus()
		NewRecorder(repo).Register(bus)
		events := &event.StubEventRepository{}
		service := event.NewEventService(events, event.NewClassifier(events), bus)
		ctx := caregiver.WithCaregiver(context.Background(), caregiver.Caregiver{ID: "dad"})

		created, err := service.Create(ctx, event.Event{
			ChildID: 1, Type: eventtype.Bath, StartTime: start, EndTime: &end,
		}, false)
		require.NoError(t, err)
		later := end.Add(5 * time.Minute)
		_, err = service.Update(ctx, event.Event{
			ID: created.ID, Type: eventtype.Bath, StartTime: start, EndTime: &later,
		}, false)
		require.NoError(t, err)
		_, err = service.Delete(ctx, created.ID)
		require.NoError(t, err)

		require.Len(t, repo.Entries, 3)
		assert.Equal(t, ActionCreated, repo.Entries[0].Action)
		assert.Equal(t, ActionUpdated, repo.Entries[1].Action)
		assert.Equal(t, ActionDeleted, repo.Entries[2].Action)
		for _, entry := range repo.Entries {
			assert.Equal(t, "dad", entry.ActorID)
			assert.Equal(t, 1, entry.ChildID)
		}

		recent, err := repo.FindRecent(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, ActionDeleted, recent[0].Action)
		assert.Equal(t, ActionUpdated, recent[1].Action)
	})
}
