package event

import (
	"testing"
	"time"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndNormalize(t *testing.T) {
	start := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	t.Run("valid duration event passes unchanged", func(t *testing.T) {
		input := Event{ChildID: 1, Type: eventtype.Sleep, StartTime: start, EndTime: &end}

		result, err := ValidateAndNormalize(input)

		assert.NoError(t, err)
		assert.Equal(t, input, result)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := ValidateAndNormalize(Event{ChildID: 1, Type: "NAP", StartTime: start})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "type", validationErr.Field)
	})

	t.Run("missing start time is rejected", func(t *testing.T) {
		_, err := ValidateAndNormalize(Event{ChildID: 1, Type: eventtype.Sleep})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "startTime", validationErr.Field)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		before := start.Add(-time.Minute)
		_, err := ValidateAndNormalize(Event{ChildID: 1, Type: eventtype.Sleep, StartTime: start, EndTime: &before})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "endTime", validationErr.Field)
	})

	t.Run("point type gets end pinned to start", func(t *testing.T) {
		pee := true
		result, err := ValidateAndNormalize(Event{
			ChildID: 1, Type: eventtype.Diaper, StartTime: start,
			Fields: Fields{Pee: &pee},
		})

		require.NoError(t, err)
		require.NotNil(t, result.EndTime)
		assert.True(t, result.EndTime.Equal(start))
	})

	t.Run("point type end overrides caller input", func(t *testing.T) {
		wrong := start.Add(time.Hour)
		pee := true
		result, err := ValidateAndNormalize(Event{
			ChildID: 1, Type: eventtype.Diaper, StartTime: start, EndTime: &wrong,
			Fields: Fields{Pee: &pee},
		})

		require.NoError(t, err)
		assert.True(t, result.EndTime.Equal(start))
	})

	t.Run("open duration event is valid", func(t *testing.T) {
		result, err := ValidateAndNormalize(Event{ChildID: 1, Type: eventtype.Sleep, StartTime: start})

		assert.NoError(t, err)
		assert.Nil(t, result.EndTime)
	})

	t.Run("diaper without flags is rejected", func(t *testing.T) {
		_, err := ValidateAndNormalize(Event{ChildID: 1, Type: eventtype.Diaper, StartTime: start})

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("supplement without a name is rejected", func(t *testing.T) {
		_, err := ValidateAndNormalize(Event{ChildID: 1, Type: eventtype.Supplement, StartTime: start})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "supplement", validationErr.Field)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		amount := -50
		_, err := ValidateAndNormalize(Event{
			ChildID: 1, Type: eventtype.Bottle, StartTime: start, EndTime: &end,
			Fields: Fields{AmountML: &amount},
		})

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}
