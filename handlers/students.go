package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"student-records/logging"
	"student-records/models"
	"student-records/repository"
	"student-records/spreadsheet"
)

type StudentHandler struct {
	repo      *repository.Repository
	importer  *spreadsheet.Importer
	maxUpload int64
}

func NewStudentHandler(repo *repository.Repository, maxUpload int64) *StudentHandler {
	return &StudentHandler{
		repo:      repo,
		importer:  spreadsheet.NewImporter(repo),
		maxUpload: maxUpload,
	}
}

// studentRequest is the JSON body of POST and PUT. The group is given by name.
type studentRequest struct {
	models.StudentInput
	GroupName string `json:"group_name"`
}

// resolve turns the typed group name into a reference. A warning is returned
// when the name matched no group.
func (h *StudentHandler) resolve(ctx context.Context, req studentRequest) (models.StudentInput, string, error) {
	if req.GroupName == "" {
		return req.StudentInput, "", nil
	}
	ref, err := h.repo.Groups.ResolveName(ctx, req.GroupName)
	if err != nil {
		return models.StudentInput{}, "", err
	}
	warning := ""
	if ref.Unmatched() {
		warning = fmt.Sprintf("group %q not found, student saved without a group", ref.Name)
	}
	return req.StudentInput.WithGroup(ref), warning, nil
}

func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.repo.Students.List(r.Context(), listFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	student, err := h.repo.Students.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, student)
}

func (h *StudentHandler) GetStudentDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.repo.Students.Detail(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, warning, err := h.resolve(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := h.repo.Students.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("student created", "id", id)
	respondJSON(w, r, http.StatusCreated, createdResponse{ID: id, Message: "Student added successfully", Warning: warning})
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, warning, err := h.resolve(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.repo.Students.Update(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}

	if warning != "" {
		respondMessage(w, r, http.StatusOK, "Student updated successfully; "+warning)
		return
	}
	respondMessage(w, r, http.StatusOK, "Student updated successfully")
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Students.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("student deleted", "id", id)
	respondMessage(w, r, http.StatusOK, "Student deleted successfully")
}

// ImportStudents reads a multipart "file" field (.xlsx or .csv).
func (h *StudentHandler) ImportStudents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, fh, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	format, err := spreadsheet.FormatFromPath(fh.Filename)
	if err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.importer.ImportStudents(r.Context(), file, format)
	if err != nil {
		if _, ok := models.AsValidation(err); ok {
			respondError(w, r, err)
			return
		}
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

// ExportStudents streams every student as ?format=xlsx (default) or csv.
func (h *StudentHandler) ExportStudents(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(spreadsheet.XLSX)
	}
	format, err := spreadsheet.ParseFormat(name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	students, err := h.repo.Students.List(r.Context(), listFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("students_%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := spreadsheet.ExportStudents(w, format, students); err != nil {
		logging.FromContext(r.Context()).Error("error exporting students", "error", err)
	}
}
