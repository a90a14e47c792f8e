package audit

import (
	"encoding/json"
	"fmt"

	"github.com/cradlelog/cradlelog/internal/event_bus"
)

// Recorder subscribes to event-change envelopes on the bus and persists them
// as audit entries. The write path publishes fire-and-forget, so a failing
// recorder shows up in the log but never blocks an event write.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Register subscribes the recorder to all event-change types on the bus.
func (r *Recorder) Register(bus *event_bus.EventBus) {
	for _, eventType := range []event_bus.EventType{
		event_bus.EventCreated,
		event_bus.EventUpdated,
		event_bus.EventDeleted,
	} {
		event_bus.SubscribeTyped(bus, eventType, r.record)
	}
}

func (r *Recorder) record(e event_bus.EventT[event_bus.EventChange]) error {
	change := e.Data

	before, err := marshalSnapshot(change.Before)
	if err != nil {
		return fmt.Errorf("could not marshal before snapshot: %w", err)
	}
	after, err := marshalSnapshot(change.After)
	if err != nil {
		return fmt.Errorf("could not marshal after snapshot: %w", err)
	}

	entry := Entry{
		Action:    Action(change.Action),
		ChildID:   change.ChildID,
		ActorID:   change.ActorID,
		Before:    before,
		After:     after,
		Timestamp: change.Timestamp,
	}
	return r.repo.Store(e.Context(), entry)
}

func marshalSnapshot(snapshot any) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	return json.Marshal(snapshot)
}
