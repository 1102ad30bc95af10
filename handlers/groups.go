package handlers

import (
	"net/http"

	"student-records/logging"
	"student-records/models"
	"student-records/repository"
)

type GroupHandler struct {
	repo *repository.Repository
}

func NewGroupHandler(repo *repository.Repository) *GroupHandler {
	return &GroupHandler{repo: repo}
}

func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.repo.Groups.List(r.Context(), listFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	group, err := h.repo.Groups.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, group)
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var in models.GroupInput
	if err := decodeJSON(r, &in); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.repo.Groups.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("group created", "id", id, "name", in.Name)
	respondJSON(w, r, http.StatusCreated, createdResponse{ID: id, Message: "Group added successfully"})
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var in models.GroupInput
	if err := decodeJSON(r, &in); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Groups.Update(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Group updated successfully")
}

// DeleteGroup leaves the group's students in place without a group.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Groups.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, r, http.StatusOK, "Group deleted successfully")
}
