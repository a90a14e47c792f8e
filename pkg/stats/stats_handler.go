package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cradlelog/cradlelog/internal/rest"
	"github.com/cradlelog/cradlelog/pkg/child"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type CategoryTotalsDTO struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

type DailyStatDTO struct {
	ChildID      int                          `json:"childId"`
	Date         string                       `json:"date"`
	Timezone     string                       `json:"timezone"`
	ByType       map[string]CategoryTotalsDTO `json:"byType"`
	SleepMinutes int                          `json:"sleepMinutes"`
	BottleML     int                          `json:"bottleMl"`
	PumpedML     int                          `json:"pumpedMl"`
	PoopCount    int                          `json:"poopCount"`
	PeeCount     int                          `json:"peeCount"`
}

type StatsHandler struct {
	statsService StatsService
	children     child.Service
	csvRenderer  *CsvStatsRendererImpl
}

func NewStatsHandler(statsService StatsService, children child.Service, csvRenderer *CsvStatsRendererImpl) *StatsHandler {
	return &StatsHandler{statsService: statsService, children: children, csvRenderer: csvRenderer}
}

// GetDailyStat recomputes and returns the stats for one day. The timezone
// query parameter falls back to the child's configured zone.
func (h *StatsHandler) GetDailyStat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Computing daily stat")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		h.badRequest(w, "Missing 'date' query parameter", "Expected YYYY-MM-DD")
		return
	}
	timezone, err := h.resolveTimezone(r.Context(), childID, r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	stat, err := h.statsService.ComputeDailyStat(r.Context(), childID, date, timezone)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(statToDTO(stat)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetDayEvents returns the events relevant for rendering one day's timeline.
func (h *StatsHandler) GetDayEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing events for day")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		h.badRequest(w, "Missing 'date' query parameter", "Expected YYYY-MM-DD")
		return
	}
	timezone, err := h.resolveTimezone(r.Context(), childID, r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	includeEvening := r.URL.Query().Get("includePreviousEvening") == "true"

	events, err := h.statsService.ListEventsForDay(r.Context(), childID, date, timezone, includeEvening)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]event.EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, event.ToDTO(e))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ExportRangeCsv streams a CSV of daily stats for an inclusive date range.
func (h *StatsHandler) ExportRangeCsv(w http.ResponseWriter, r *http.Request) {
	log.Trace("Exporting stats range as CSV")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.badRequest(w, "Missing 'from' or 'to' query parameter", "Expected YYYY-MM-DD")
		return
	}
	timezone, err := h.resolveTimezone(r.Context(), childID, r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	statsRange, err := h.statsService.ComputeRange(r.Context(), childID, from, to, timezone)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	csvData, err := h.csvRenderer.RenderDailyStats(statsRange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="daily_stats.csv"`)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Errorf("Failed to write CSV response: %v", err)
	}
}

func (h *StatsHandler) resolveTimezone(ctx context.Context, childID int, queryTz string) (string, error) {
	if queryTz != "" {
		return queryTz, nil
	}
	c, err := h.children.GetChild(ctx, childID)
	if err != nil {
		return "", err
	}
	return c.Settings.Timezone, nil
}

// writeServiceError maps service failures onto status codes: bad caller
// input stays a 400, a missing child a 404, anything else is the server's
// fault.
func (h *StatsHandler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.badRequest(w, validationErr.Error(), "")
	case errors.Is(err, child.ErrChildNotFound):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Child not found"})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *StatsHandler) badRequest(w http.ResponseWriter, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func statToDTO(stat DailyStat) DailyStatDTO {
	byType := make(map[string]CategoryTotalsDTO, len(stat.ByType))
	for typ, totals := range stat.ByType {
		byType[string(typ)] = CategoryTotalsDTO(totals)
	}
	return DailyStatDTO{
		ChildID:      stat.ChildID,
		Date:         stat.Date,
		Timezone:     stat.Timezone,
		ByType:       byType,
		SleepMinutes: stat.SleepMinutes,
		BottleML:     stat.BottleML,
		PumpedML:     stat.PumpedML,
		PoopCount:    stat.PoopCount,
		PeeCount:     stat.PeeCount,
	}
}
