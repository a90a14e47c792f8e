package audit

import "time"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entry is one immutable audit record of an event write. Before and After
// hold JSON snapshots of the event; create entries have no Before, delete
// entries no After.
type Entry struct {
	ID        int
	Action    Action
	ChildID   int
	ActorID   string
	Before    []byte
	After     []byte
	Timestamp time.Time
}
