package handlers

import (
	"net/http"

	"student-records/repository"
)

// MirrorHandler serves the read-only JSON view. It only ever sees a Reader.
type MirrorHandler struct {
	reader repository.Reader
}

func NewMirrorHandler(reader repository.Reader) *MirrorHandler {
	return &MirrorHandler{reader: reader}
}

func (h *MirrorHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.reader.ListStudents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, students)
}

func (h *MirrorHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.reader.ListEvents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, events)
}

// StudentEvents lists one student's events; an unknown student gives [].
func (h *MirrorHandler) StudentEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.reader.ListEventsByStudent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, events)
}

func (h *MirrorHandler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.reader.ListGroups(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, groups)
}

func (h *MirrorHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.reader.ListPeriods(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, periods)
}
