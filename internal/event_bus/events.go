package event_bus

import "time"

const (
	EventCreated EventType = "event.created"
	EventUpdated EventType = "event.updated"
	EventDeleted EventType = "event.deleted"
)

// EventChange is published on every event write so the audit trail can be
// recorded without the write path depending on audit storage. Before and
// After carry event snapshots as concrete values: creates set only After,
// deletes only Before, updates both. An unset snapshot is a nil interface,
// never a typed nil pointer, so subscribers may test it with == nil.
type EventChange struct {
	Action    string
	ChildID   int
	ActorID   string
	Before    any
	After     any
	Timestamp time.Time
}
