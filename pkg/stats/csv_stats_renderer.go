package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
	log "github.com/sirupsen/logrus"
)

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderDailyStats renders one row per day, suitable for spreadsheet import.
func (t *CsvStatsRendererImpl) RenderDailyStats(stats []DailyStat) (string, error) {
	header := []string{
		"Date", "Sleep", "Feedings", "Bottle ml", "Pumped ml",
		"Diapers", "Poop", "Pee", "Baths", "Outdoor",
	}

	data := make([][]string, 0, len(stats)+1)
	data = append(data, header)
	for _, stat := range stats {
		feedings := stat.ByType[eventtype.Breastfeed].Count + stat.ByType[eventtype.Bottle].Count
		row := []string{
			stat.Date,
			minutesToString(stat.SleepMinutes),
			strconv.Itoa(feedings),
			strconv.Itoa(stat.BottleML),
			strconv.Itoa(stat.PumpedML),
			strconv.Itoa(stat.ByType[eventtype.Diaper].Count),
			strconv.Itoa(stat.PoopCount),
			strconv.Itoa(stat.PeeCount),
			strconv.Itoa(stat.ByType[eventtype.Bath].Count),
			minutesToString(stat.ByType[eventtype.Outdoor].Minutes),
		}
		data = append(data, row)
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func minutesToString(minutes int) string {
	hours := strconv.Itoa(minutes / 60)
	if len(hours) == 1 {
		hours = "0" + hours
	}
	mins := strconv.Itoa(minutes % 60)
	if len(mins) == 1 {
		mins = "0" + mins
	}
	return hours + ":" + mins
}
