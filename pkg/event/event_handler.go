package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cradlelog/cradlelog/internal/rest"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID         int    `json:"id"`
	UID        string `json:"uid"`
	ChildID    int    `json:"childId"`
	Type       string `json:"type"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime,omitempty"`
	AmountML   *int   `json:"amountMl,omitempty"`
	Pee        *bool  `json:"pee,omitempty"`
	Poop       *bool  `json:"poop,omitempty"`
	PoopColor  string `json:"poopColor,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Supplement string `json:"supplement,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type createEventRequest struct {
	Type       string `json:"type"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime,omitempty"`
	Force      bool   `json:"force,omitempty"`
	AmountML   *int   `json:"amountMl,omitempty"`
	Pee        *bool  `json:"pee,omitempty"`
	Poop       *bool  `json:"poop,omitempty"`
	PoopColor  string `json:"poopColor,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Supplement string `json:"supplement,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// updateEventRequest mirrors createEventRequest, but every field is optional
// and missing fields keep their stored value. Sending "endTime": "" clears
// the end time, reopening a duration event.
type updateEventRequest struct {
	Type       *string `json:"type"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Force      bool    `json:"force,omitempty"`
	AmountML   *int    `json:"amountMl"`
	Pee        *bool   `json:"pee"`
	Poop       *bool   `json:"poop"`
	PoopColor  *string `json:"poopColor"`
	Count      *int    `json:"count"`
	Supplement *string `json:"supplement"`
	Notes      *string `json:"notes"`
}

type EventHandler struct {
	eventService EventService
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new event")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid child id", "")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	candidate, err := requestToEvent(childID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time format", "Times must be in RFC3339 format")
		return
	}

	stored, err := h.eventService.Create(r.Context(), candidate, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Updating event")

	id, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", "")
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	existing, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Event not found", "")
		return
	}

	candidate, err := applyUpdate(*existing, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time format", "Times must be in RFC3339 format")
		return
	}

	updated, err := h.eventService.Update(r.Context(), candidate, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(ToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Deleting event")

	id, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", "")
		return
	}

	deleted, err := h.eventService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(ToDTO(deleted)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error(), "")
	case errors.As(err, &conflictErr):
		w.WriteHeader(http.StatusConflict)
		encodeErr := json.NewEncoder(w).Encode(rest.ConflictResponse{
			Error:              conflictErr.Error(),
			Code:               string(conflictErr.Code),
			ConflictingEventID: conflictErr.ConflictingEventID,
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	case errors.Is(err, ErrEventNotFound):
		writeError(w, http.StatusNotFound, "Event not found", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requestToEvent(childID int, req createEventRequest) (Event, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return Event{}, err
	}
	var endTime *time.Time
	if req.EndTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return Event{}, err
		}
		endTime = &parsed
	}
	return Event{
		ChildID:   childID,
		Type:      eventtype.Type(req.Type),
		StartTime: startTime,
		EndTime:   endTime,
		Fields: Fields{
			AmountML:   req.AmountML,
			Pee:        req.Pee,
			Poop:       req.Poop,
			PoopColor:  req.PoopColor,
			Count:      req.Count,
			Supplement: req.Supplement,
			Notes:      req.Notes,
		},
	}, nil
}

func applyUpdate(existing Event, req updateEventRequest) (Event, error) {
	if req.Type != nil {
		existing.Type = eventtype.Type(*req.Type)
	}
	if req.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return Event{}, err
		}
		existing.StartTime = startTime
	}
	if req.EndTime != nil {
		if *req.EndTime == "" {
			existing.EndTime = nil
		} else {
			endTime, err := time.Parse(time.RFC3339, *req.EndTime)
			if err != nil {
				return Event{}, err
			}
			existing.EndTime = &endTime
		}
	}
	if req.AmountML != nil {
		existing.Fields.AmountML = req.AmountML
	}
	if req.Pee != nil {
		existing.Fields.Pee = req.Pee
	}
	if req.Poop != nil {
		existing.Fields.Poop = req.Poop
	}
	if req.PoopColor != nil {
		existing.Fields.PoopColor = *req.PoopColor
	}
	if req.Count != nil {
		existing.Fields.Count = req.Count
	}
	if req.Supplement != nil {
		existing.Fields.Supplement = *req.Supplement
	}
	if req.Notes != nil {
		existing.Fields.Notes = *req.Notes
	}
	return existing, nil
}

func ToDTO(event Event) EventDTO {
	var endTime string
	if event.EndTime != nil {
		endTime = event.EndTime.Format(time.RFC3339)
	}
	return EventDTO{
		ID:         event.ID,
		UID:        event.UID,
		ChildID:    event.ChildID,
		Type:       string(event.Type),
		StartTime:  event.StartTime.Format(time.RFC3339),
		EndTime:    endTime,
		AmountML:   event.Fields.AmountML,
		Pee:        event.Fields.Pee,
		Poop:       event.Fields.Poop,
		PoopColor:  event.Fields.PoopColor,
		Count:      event.Fields.Count,
		Supplement: event.Fields.Supplement,
		Notes:      event.Fields.Notes,
	}
}
