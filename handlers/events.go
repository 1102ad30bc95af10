package handlers

import (
	"net/http"

	"student-records/logging"
	"student-records/models"
	"student-records/repository"
)

type EventHandler struct {
	repo *repository.Repository
}

func NewEventHandler(repo *repository.Repository) *EventHandler {
	return &EventHandler{repo: repo}
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.Events.List(r.Context(), listFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.repo.Events.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if err := decodeJSON(r, &in); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.repo.Events.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("event created", "id", id, "student_id", in.StudentID)
	respondJSON(w, r, http.StatusCreated, createdResponse{ID: id, Message: "Event added successfully"})
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var in models.EventInput
	if err := decodeJSON(r, &in); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Events.Update(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Event updated successfully")
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Events.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Event deleted successfully")
}
