package stats

import (
	"testing"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDailyStats(t *testing.T) {
	renderer := NewCsvStatsRenderer()

	t.Run("renders one row per day", func(t *testing.T) {
		stats := []DailyStat{
			{
				Date:         "2024-05-01",
				SleepMinutes: 780,
				BottleML:     240,
				PumpedML:     120,
				PoopCount:    2,
				PeeCount:     6,
				ByType: map[eventtype.Type]CategoryTotals{
					eventtype.Breastfeed: {Count: 5, Minutes: 95},
					eventtype.Bottle:     {Count: 3, Minutes: 45},
					eventtype.Diaper:     {Count: 7},
					eventtype.Bath:       {Count: 1, Minutes: 15},
					eventtype.Outdoor:    {Count: 1, Minutes: 65},
				},
			},
			{Date: "2024-05-02", ByType: map[eventtype.Type]CategoryTotals{}},
		}

		result, err := renderer.RenderDailyStats(stats)

		require.NoError(t, err)
		expected := "Date,Sleep,Feedings,Bottle ml,Pumped ml,Diapers,Poop,Pee,Baths,Outdoor\n" +
			"2024-05-01,13:00,8,240,120,7,2,6,1,01:05\n" +
			"2024-05-02,00:00,0,0,0,0,0,0,0,00:00\n"
		assert.Equal(t, expected, result)
	})

	t.Run("header only for an empty range", func(t *testing.T) {
		result, err := renderer.RenderDailyStats(nil)

		require.NoError(t, err)
		assert.Equal(t, "Date,Sleep,Feedings,Bottle ml,Pumped ml,Diapers,Poop,Pee,Baths,Outdoor\n", result)
	})
}

func TestMinutesToString(t *testing.T) {
	assert.Equal(t, "00:00", minutesToString(0))
	assert.Equal(t, "00:59", minutesToString(59))
	assert.Equal(t, "01:00", minutesToString(60))
	assert.Equal(t, "07:05", minutesToString(425))
	assert.Equal(t, "26:10", minutesToString(1570))
}
