package voicedraft

import (
	"context"
	"fmt"
	"time"

	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	log "github.com/sirupsen/logrus"
)

// DefaultConfidenceThreshold is the fixed cut-off below which a parsed draft
// must be confirmed by the user before an event is created from it.
const DefaultConfidenceThreshold = 0.75

// Draft is a structured event candidate parsed from free text. It mirrors
// the inputs of the event create flow.
type Draft struct {
	Type      eventtype.Type
	StartTime time.Time
	EndTime   *time.Time
	Fields    event.Fields
}

// Result pairs a draft with the parser's confidence in it.
type Result struct {
	Draft      Draft
	Confidence float64
}

var ErrUnparseable = fmt.Errorf("could not parse text into an event draft")

// Parser turns free text plus the caller's local time into a draft. The
// caller's local time anchors relative expressions like "half an hour ago".
type Parser interface {
	Parse(ctx context.Context, text string, localTime time.Time) (Result, error)
}

// Status classifies the outcome of submitting free text.
type Status string

const (
	// StatusCreated means the draft was confident enough and the event was
	// created through the regular flow.
	StatusCreated Status = "created"
	// StatusNeedsConfirmation means the draft parsed but its confidence is
	// below the threshold; it is returned to the user untouched.
	StatusNeedsConfirmation Status = "needs_confirmation"
)

// IntakeResult is what a submission produces: a created event, or a draft
// awaiting explicit confirmation.
type IntakeResult struct {
	Status Status
	Event  *event.Event
	Draft  *Result
}

type Intake struct {
	parser    Parser
	events    event.EventService
	threshold float64
}

func NewIntake(parser Parser, events event.EventService) *Intake {
	return &Intake{parser: parser, events: events, threshold: DefaultConfidenceThreshold}
}

// Submit parses the text and, when the parser is confident enough, pushes
// the draft through the normal event create flow. A conflict surfaced by the
// flow propagates to the caller unchanged; force never applies here, since a
// voice draft has not been explicitly confirmed against a named conflict.
func (i *Intake) Submit(ctx context.Context, childID int, text string, localTime time.Time) (IntakeResult, error) {
	result, err := i.parser.Parse(ctx, text, localTime)
	if err != nil {
		return IntakeResult{}, fmt.Errorf("voice draft parse failed: %w", err)
	}

	if result.Confidence < i.threshold {
		log.Debugf("Voice draft below confidence threshold (%.2f < %.2f), returning for confirmation",
			result.Confidence, i.threshold)
		return IntakeResult{Status: StatusNeedsConfirmation, Draft: &result}, nil
	}

	candidate := event.Event{
		ChildID:   childID,
		Type:      result.Draft.Type,
		StartTime: result.Draft.StartTime,
		EndTime:   result.Draft.EndTime,
		Fields:    result.Draft.Fields,
	}
	created, err := i.events.Create(ctx, candidate, false)
	if err != nil {
		return IntakeResult{}, err
	}
	return IntakeResult{Status: StatusCreated, Event: &created, Draft: &result}, nil
}
