package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cradlelog/cradlelog/internal/rest"
	"github.com/gorilla/mux"
)

type EntryDTO struct {
	ID         int             `json:"id"`
	Action     string          `json:"action"`
	ChildID    int             `json:"childId"`
	ActorID    string          `json:"actorId,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt string          `json:"occurredAt"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	childID, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid child id"})
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.repo.FindRecent(r.Context(), childID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryDTO{
			ID:         e.ID,
			Action:     string(e.Action),
			ChildID:    e.ChildID,
			ActorID:    e.ActorID,
			Before:     e.Before,
			After:      e.After,
			OccurredAt: e.Timestamp.Format(time.RFC3339),
		})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
