package voicedraft

import (
	"context"
	"testing"
	"time"

	"github.com/cradlelog/cradlelog/internal/event_bus"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntakeWithRepo() (*Intake, *event.StubEventRepository, *StubParser) {
	repo := &event.StubEventRepository{}
	events := event.NewEventService(repo, event.NewClassifier(repo), event_bus.NewEventBus())
	parser := &StubParser{}
	return NewIntake(parser, events), repo, parser
}

func TestIntakeSubmit(t *testing.T) {
	ctx := context.Background()
	localTime := time.Date(2024, time.May, 1, 15, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.May, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)

	t.Run("a confident draft becomes an event", func(t *testing.T) {
		intake, repo, parser := newIntakeWithRepo()
		parser.Result = Result{
			Draft:      Draft{Type: eventtype.Bottle, StartTime: start, EndTime: &end},
			Confidence: 0.92,
		}

		result, err := intake.Submit(ctx, 1, "gave a bottle an hour ago", localTime)

		require.NoError(t, err)
		assert.Equal(t, StatusCreated, result.Status)
		require.NotNil(t, result.Event)
		assert.Equal(t, eventtype.Bottle, result.Event.Type)
		assert.Equal(t, 1, result.Event.ChildID)
		assert.Len(t, repo.Events, 1)
	})

	t.Run("a low confidence draft is returned for confirmation", func(t *testing.T) {
		intake, repo, parser := newIntakeWithRepo()
		parser.Result = Result{
			Draft:      Draft{Type: eventtype.Bottle, StartTime: start, EndTime: &end},
			Confidence: 0.4,
		}

		result, err := intake.Submit(ctx, 1, "maybe a bottle? not sure when", localTime)

		require.NoError(t, err)
		assert.Equal(t, StatusNeedsConfirmation, result.Status)
		assert.Nil(t, result.Event)
		require.NotNil(t, result.Draft)
		assert.Equal(t, eventtype.Bottle, result.Draft.Draft.Type)
		assert.Empty(t, repo.Events)
	})

	t.Run("confidence exactly at the threshold passes", func(t *testing.T) {
		intake, repo, parser := newIntakeWithRepo()
		parser.Result = Result{
			Draft:      Draft{Type: eventtype.Bottle, StartTime: start, EndTime: &end},
			Confidence: DefaultConfidenceThreshold,
		}

		result, err := intake.Submit(ctx, 1, "bottle at two", localTime)

		require.NoError(t, err)
		assert.Equal(t, StatusCreated, result.Status)
		assert.Len(t, repo.Events, 1)
	})

	t.Run("parser failure propagates", func(t *testing.T) {
		intake, repo, parser := newIntakeWithRepo()
		parser.Err = ErrUnparseable

		_, err := intake.Submit(ctx, 1, "mwahaha", localTime)

		assert.ErrorIs(t, err, ErrUnparseable)
		assert.Empty(t, repo.Events)
	})

	t.Run("a conflict from the create flow is never forced", func(t *testing.T) {
		intake, repo, parser := newIntakeWithRepo()
		repo.Store(ctx, event.Event{
			ChildID: 1, Type: eventtype.Sleep,
			StartTime: start.Add(-time.Hour), EndTime: &end,
		})
		parser.Result = Result{
			Draft:      Draft{Type: eventtype.Bottle, StartTime: start, EndTime: &end},
			Confidence: 0.95,
		}

		_, err := intake.Submit(ctx, 1, "bottle at two", localTime)

		var conflict *event.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, event.OverlapActivity, conflict.Code)
		assert.Len(t, repo.Events, 1)
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		raw := `{
			"type": "BOTTLE",
			"startTime": "2024-05-01T14:00:00+02:00",
			"endTime": "2024-05-01T14:20:00+02:00",
			"amountMl": 120,
			"confidence": 0.9
		}`

		result, err := parseResponse(raw)

		require.NoError(t, err)
		assert.Equal(t, eventtype.Bottle, result.Draft.Type)
		assert.Equal(t, 0.9, result.Confidence)
		require.NotNil(t, result.Draft.Fields.AmountML)
		assert.Equal(t, 120, *result.Draft.Fields.AmountML)
		require.NotNil(t, result.Draft.EndTime)
		assert.Equal(t, 20*time.Minute, result.Draft.EndTime.Sub(result.Draft.StartTime))
	})

	t.Run("json wrapped in a code fence", func(t *testing.T) {
		raw := "```json\n{\"type\": \"DIAPER\", \"startTime\": \"2024-05-01T14:00:00Z\", \"poop\": true, \"confidence\": 0.8}\n```"

		result, err := parseResponse(raw)

		require.NoError(t, err)
		assert.Equal(t, eventtype.Diaper, result.Draft.Type)
		require.NotNil(t, result.Draft.Fields.Poop)
		assert.True(t, *result.Draft.Fields.Poop)
	})

	t.Run("omitted end time stays open", func(t *testing.T) {
		raw := `{"type": "SLEEP", "startTime": "2024-05-01T13:00:00Z", "confidence": 0.85}`

		result, err := parseResponse(raw)

		require.NoError(t, err)
		assert.Nil(t, result.Draft.EndTime)
	})

	t.Run("unknown type", func(t *testing.T) {
		raw := `{"type": "JUGGLING", "startTime": "2024-05-01T13:00:00Z", "confidence": 0.9}`

		_, err := parseResponse(raw)

		assert.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("not json at all", func(t *testing.T) {
		_, err := parseResponse("Sure! Here's what I extracted: a bottle.")

		assert.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("bad start time", func(t *testing.T) {
		raw := `{"type": "SLEEP", "startTime": "yesterday-ish", "confidence": 0.9}`

		_, err := parseResponse(raw)

		assert.ErrorIs(t, err, ErrUnparseable)
	})
}
