package event

import (
	"context"
	"fmt"

	"github.com/cradlelog/cradlelog/internal/utils"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

// Outcome is the result of classifying a candidate event against the child's
// existing events.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDuplicate
	OutcomeOverlap
)

// Classification pairs an outcome with the existing event that triggered it.
type Classification struct {
	Outcome    Outcome
	ExistingID int
}

// Classifier decides whether a candidate event may coexist with the child's
// already-stored events. It only consults the type registry and the event
// repository; shape validation happens earlier in ValidateAndNormalize.
type Classifier struct {
	repo  EventRepository
	clock utils.Clock
}

func NewClassifier(repo EventRepository) *Classifier {
	return &Classifier{repo: repo, clock: &utils.SystemClock{}}
}

// Classify returns OK for non-exclusive types without touching storage.
// For exclusive types it scans the child's other exclusive events whose
// intervals intersect the candidate's (half-open: touching boundaries do not
// intersect). An exact type/start/end match wins over a plain overlap, since
// it signals an accidental double submit rather than a scheduling conflict.
// excludeID skips the candidate's own stored row on updates; pass 0 on create.
func (c *Classifier) Classify(ctx context.Context, childID int, candidate Event, excludeID int) (Classification, error) {
	policy, ok := eventtype.PolicyFor(candidate.Type)
	if !ok {
		return Classification{}, fmt.Errorf("no policy for type %q", candidate.Type)
	}
	if !policy.Exclusive {
		return Classification{Outcome: OutcomeOK}, nil
	}

	now := c.clock.Now()
	candidateEnd := candidate.EffectiveEnd(now)

	existing, err := c.repo.FindOverlapping(ctx, childID, eventtype.ExclusiveTypes(), candidate.StartTime, candidateEnd, excludeID)
	if err != nil {
		return Classification{}, fmt.Errorf("could not scan for conflicting events: %w", err)
	}

	overlapID := 0
	for _, other := range existing {
		otherEnd := other.EffectiveEnd(now)
		if !other.StartTime.Before(candidateEnd) || !candidate.StartTime.Before(otherEnd) {
			continue
		}
		if other.Type == candidate.Type &&
			other.StartTime.Equal(candidate.StartTime) &&
			sameInstant(other.EndTime, candidate.EndTime) {
			// A duplicate beats any overlap found alongside it.
			return Classification{Outcome: OutcomeDuplicate, ExistingID: other.ID}, nil
		}
		if overlapID == 0 {
			overlapID = other.ID
		}
	}

	if overlapID != 0 {
		return Classification{Outcome: OutcomeOverlap, ExistingID: overlapID}, nil
	}
	return Classification{Outcome: OutcomeOK}, nil
}
