package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"student-records/logging"
	"student-records/models"
	"student-records/repository"
)

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type validationResponse struct {
	Message string `json:"message"`
	Field   string `json:"field"`
	Rule    string `json:"rule"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("error encoding response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, messageResponse{Message: msg})
}

// respondError maps the error kinds to status codes. Anything unrecognized is
// a 500 and is logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *models.ValidationError
		nf *models.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		respondJSON(w, r, http.StatusBadRequest, validationResponse{Message: ve.Message(), Field: ve.Field, Rule: ve.Rule})
	case errors.As(err, &nf):
		respondMessage(w, r, http.StatusNotFound, capitalize(nf.Entity)+" not found")
	case errors.Is(err, models.ErrReferential):
		respondMessage(w, r, http.StatusConflict, err.Error())
	default:
		logging.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		respondMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// pathID reads the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// listFilter reads ?q= and ?column=.
func listFilter(r *http.Request) repository.Filter {
	q := r.URL.Query()
	return repository.Filter{Query: q.Get("q"), Column: q.Get("column")}
}
