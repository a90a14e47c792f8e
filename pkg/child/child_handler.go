package child

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cradlelog/cradlelog/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ChildDTO struct {
	Id        int    `json:"id"`
	Uid       string `json:"uid"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Timezone  string `json:"timezone"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new child")

	var dto ChildDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.badRequest(w, "Invalid request body format", "")
		return
	}
	child, err := dtoToChild(dto)
	if err != nil {
		h.badRequest(w, "Invalid birthDate format", "birthDate must be in YYYY-MM-DD format")
		return
	}

	created, err := h.service.CreateChild(r.Context(), child)
	if err != nil {
		h.badRequest(w, err.Error(), "")
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(childToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	child, err := h.service.GetChild(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrChildNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(childToDTO(child)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAllChildren(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	children, err := h.service.GetAllChildren(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ChildDTO, 0, len(children))
	for _, c := range children {
		dtos = append(dtos, childToDTO(c))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Updating child")

	id, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	var dto ChildDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.badRequest(w, "Invalid request body format", "")
		return
	}
	child, err := dtoToChild(dto)
	if err != nil {
		h.badRequest(w, "Invalid birthDate format", "birthDate must be in YYYY-MM-DD format")
		return
	}
	child.Id = id

	updated, err := h.service.UpdateChild(r.Context(), child)
	if err != nil {
		if errors.Is(err, ErrChildNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.badRequest(w, err.Error(), "")
		return
	}
	if err := json.NewEncoder(w).Encode(childToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["childId"])
	if err != nil {
		h.badRequest(w, "Invalid child id", "")
		return
	}
	if err := h.service.DeleteChild(r.Context(), id); err != nil {
		if errors.Is(err, ErrChildNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) badRequest(w http.ResponseWriter, msg, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dtoToChild(dto ChildDTO) (Child, error) {
	var birthDate time.Time
	if dto.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", dto.BirthDate)
		if err != nil {
			return Child{}, err
		}
		birthDate = parsed
	}
	return Child{
		Name:      dto.Name,
		BirthDate: birthDate,
		Settings:  Settings{Timezone: dto.Timezone},
	}, nil
}

func childToDTO(child Child) ChildDTO {
	return ChildDTO{
		Id:        child.Id,
		Uid:       child.Uid,
		Name:      child.Name,
		BirthDate: child.BirthDate.Format("2006-01-02"),
		Timezone:  child.Settings.Timezone,
	}
}
