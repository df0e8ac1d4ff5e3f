package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/eventcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	calendar *Service
}

type EventDTO struct {
	UID         string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type TimeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ConflictResponse struct {
	Error          string        `json:"error"`
	Conflicting    []EventDTO    `json:"conflicting"`
	SuggestedSlots []TimeSlotDTO `json:"suggestedSlots"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	var events []Event
	var err error
	if date == "" {
		events, err = h.calendar.GetAll(r.Context())
	} else {
		events, err = h.calendar.GetEventsForDate(r.Context(), date)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var eventDTO EventDTO
	if err := json.NewDecoder(r.Body).Decode(&eventDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	added, err := h.calendar.AddEvent(r.Context(), dtoToEvent(eventDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(*added))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var eventDTO EventDTO
	if err := json.NewDecoder(r.Body).Decode(&eventDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	eventDTO.UID = mux.Vars(r)["eventUid"]

	modified, err := h.calendar.UpdateEvent(r.Context(), dtoToEvent(eventDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(*modified))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventUid := mux.Vars(r)["eventUid"]
	if err := h.calendar.DeleteEvent(r.Context(), eventUid); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	var minDuration time.Duration
	if minutes := r.URL.Query().Get("minutes"); minutes != "" {
		m, err := strconv.Atoi(minutes)
		if err != nil || m < 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid minutes", "'minutes' must be a non-negative integer")
			return
		}
		minDuration = time.Duration(m) * time.Minute
	}

	slots, err := h.calendar.SuggestSlots(r.Context(), date, minDuration)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Tracef("free slots on %s: %d", date, len(slots))
	rest.WriteJSON(w, http.StatusOK, slotsToDTO(slots))
}

func writeServiceError(w http.ResponseWriter, err error) {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		conflicting := make([]EventDTO, 0, len(conflictErr.Conflicting))
		for _, e := range conflictErr.Conflicting {
			conflicting = append(conflicting, eventToDTO(e))
		}
		rest.WriteJSON(w, http.StatusConflict, ConflictResponse{
			Error:          ErrTimeConflict.Error(),
			Conflicting:    conflicting,
			SuggestedSlots: slotsToDTO(conflictErr.SuggestedSlots),
		})
	case IsValidationError(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", err.Error())
	default:
		log.Errorf("calendar request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Storage error", err.Error())
	}
}

func slotsToDTO(slots []TimeSlot) []TimeSlotDTO {
	dtos := make([]TimeSlotDTO, 0, len(slots))
	for _, s := range slots {
		dtos = append(dtos, TimeSlotDTO{Start: s.Start.String(), End: s.End.String()})
	}
	return dtos
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		UID:         e.UID,
		Title:       e.Title,
		Date:        e.Date,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		Category:    string(e.Category),
	}
}

func dtoToEvent(e EventDTO) Event {
	return Event{
		UID:         e.UID,
		Title:       e.Title,
		Date:        e.Date,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		Category:    Category(e.Category),
	}
}
