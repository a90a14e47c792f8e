package event

import (
	"context"
	"fmt"
	"time"

	"github.com/cradlelog/cradlelog/internal/event_bus"
	"github.com/cradlelog/cradlelog/pkg/caregiver"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EventService interface {
	// Create runs the two-phase create flow. Without force, a conflicting
	// candidate is rejected with a ConflictError naming the existing event;
	// the caller may resubmit the same candidate with force=true to accept
	// an overlap. A duplicate is rejected either way.
	Create(ctx context.Context, candidate Event, force bool) (Event, error)
	// Update runs the same flow with the event's own row excluded from the
	// conflict scan.
	Update(ctx context.Context, candidate Event, force bool) (Event, error)
	Delete(ctx context.Context, id int) (Event, error)
	Get(ctx context.Context, id int) (*Event, error)
}

type EventServiceImpl struct {
	repo       EventRepository
	classifier *Classifier
	bus        *event_bus.EventBus
}

func NewEventService(repo EventRepository, classifier *Classifier, bus *event_bus.EventBus) *EventServiceImpl {
	return &EventServiceImpl{repo: repo, classifier: classifier, bus: bus}
}

func (s *EventServiceImpl) Create(ctx context.Context, candidate Event, force bool) (Event, error) {
	normalized, err := ValidateAndNormalize(candidate)
	if err != nil {
		return Event{}, err
	}

	if err := s.checkConflicts(ctx, normalized, 0, force); err != nil {
		return Event{}, err
	}

	normalized.UID = uuid.NewString()
	stored, err := s.repo.Store(ctx, normalized)
	if err != nil {
		return Event{}, err
	}

	s.publishChange(ctx, event_bus.EventCreated, "created", nil, &stored)
	return stored, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, candidate Event, force bool) (Event, error) {
	existing, err := s.repo.FindByID(ctx, candidate.ID)
	if err != nil {
		return Event{}, err
	}
	if existing == nil {
		return Event{}, ErrEventNotFound
	}

	candidate.ChildID = existing.ChildID
	candidate.UID = existing.UID
	normalized, err := ValidateAndNormalize(candidate)
	if err != nil {
		return Event{}, err
	}

	if err := s.checkConflicts(ctx, normalized, normalized.ID, force); err != nil {
		return Event{}, err
	}

	updated, err := s.repo.Update(ctx, normalized)
	if err != nil {
		return Event{}, err
	}

	s.publishChange(ctx, event_bus.EventUpdated, "updated", existing, &updated)
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int) (Event, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if existing == nil {
		return Event{}, ErrEventNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return Event{}, err
	}

	s.publishChange(ctx, event_bus.EventDeleted, "deleted", existing, nil)
	return *existing, nil
}

func (s *EventServiceImpl) Get(ctx context.Context, id int) (*Event, error) {
	return s.repo.FindByID(ctx, id)
}

// checkConflicts classifies the candidate and translates the outcome into
// the flow's decision. Duplicates are rejected even on the force path; only
// an overlap the caller has explicitly accepted is waved through.
func (s *EventServiceImpl) checkConflicts(ctx context.Context, candidate Event, excludeID int, force bool) error {
	classification, err := s.classifier.Classify(ctx, candidate.ChildID, candidate, excludeID)
	if err != nil {
		return fmt.Errorf("conflict check failed: %w", err)
	}
	switch classification.Outcome {
	case OutcomeDuplicate:
		return &ConflictError{Code: DuplicateActivity, ConflictingEventID: classification.ExistingID}
	case OutcomeOverlap:
		if !force {
			return &ConflictError{Code: OverlapActivity, ConflictingEventID: classification.ExistingID}
		}
		log.Infof("Overlap with event %d accepted by caller for child %d", classification.ExistingID, candidate.ChildID)
	}
	return nil
}

// publishChange emits an audit envelope. Audit failures are reported in the
// log but never fail the primary operation.
func (s *EventServiceImpl) publishChange(ctx context.Context, eventType event_bus.EventType, action string, before, after *Event) {
	childID := 0
	if after != nil {
		childID = after.ChildID
	} else if before != nil {
		childID = before.ChildID
	}
	change := event_bus.EventChange{
		Action:    action,
		ChildID:   childID,
		ActorID:   caregiver.CurrentID(ctx),
		Timestamp: time.Now(),
	}
	if before != nil {
		change.Before = *before
	}
	if after != nil {
		change.After = *after
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, change)); err != nil {
		log.Warnf("audit publish for %s failed: %v", action, err)
	}
}
