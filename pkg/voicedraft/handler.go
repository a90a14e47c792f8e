package voicedraft

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cradlelog/cradlelog/internal/rest"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type submitRequest struct {
	Text      string `json:"text"`
	LocalTime string `json:"localTime"`
}

type DraftDTO struct {
	Type       string  `json:"type"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime,omitempty"`
	AmountML   *int    `json:"amountMl,omitempty"`
	Pee        *bool   `json:"pee,omitempty"`
	Poop       *bool   `json:"poop,omitempty"`
	Count      *int    `json:"count,omitempty"`
	Supplement string  `json:"supplement,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Confidence float64 `json:"confidence"`
}

type submitResponse struct {
	Status string          `json:"status"`
	Event  *event.EventDTO `json:"event,omitempty"`
	Draft  *DraftDTO       `json:"draft,omitempty"`
}

type Handler struct {
	intake *Intake
}

func NewHandler(intake *Intake) *Handler {
	return &Handler{intake: intake}
}

func (h *Handler) SubmitText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Submitting voice draft")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body format", "")
		return
	}
	if req.Text == "" {
		h.badRequest(w, "Missing 'text'", "")
		return
	}
	localTime, err := time.Parse(time.RFC3339, req.LocalTime)
	if err != nil {
		h.badRequest(w, "Invalid localTime format", "localTime must be in RFC3339 format")
		return
	}

	result, err := h.intake.Submit(r.Context(), childID, req.Text, localTime)
	if err != nil {
		var conflictErr *event.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(rest.ConflictResponse{
				Error:              conflictErr.Error(),
				Code:               string(conflictErr.Code),
				ConflictingEventID: conflictErr.ConflictingEventID,
			})
		case errors.Is(err, ErrUnparseable):
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Could not understand the note"})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	resp := submitResponse{Status: string(result.Status)}
	if result.Event != nil {
		dto := event.ToDTO(*result.Event)
		resp.Event = &dto
	}
	if result.Status == StatusNeedsConfirmation && result.Draft != nil {
		dto := draftToDTO(*result.Draft)
		resp.Draft = &dto
	}

	if result.Status == StatusCreated {
		w.WriteHeader(http.StatusCreated)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func draftToDTO(result Result) DraftDTO {
	d := result.Draft
	var endTime string
	if d.EndTime != nil {
		endTime = d.EndTime.Format(time.RFC3339)
	}
	return DraftDTO{
		Type:       string(d.Type),
		StartTime:  d.StartTime.Format(time.RFC3339),
		EndTime:    endTime,
		AmountML:   d.Fields.AmountML,
		Pee:        d.Fields.Pee,
		Poop:       d.Fields.Poop,
		Count:      d.Fields.Count,
		Supplement: d.Fields.Supplement,
		Notes:      d.Fields.Notes,
		Confidence: result.Confidence,
	}
}
