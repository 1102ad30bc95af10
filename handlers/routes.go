package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"student-records/middleware"
	"student-records/report"
	"student-records/repository"
)

const serviceName = "student-records"

// NewAdminRouter wires the full read-write API.
func NewAdminRouter(repo *repository.Repository, engine *report.Engine, maxUpload int64) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete))
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	students := NewStudentHandler(repo, maxUpload)
	events := NewEventHandler(repo)
	groups := NewGroupHandler(repo)
	reports := NewReportHandler(engine)

	// Fixed paths go before /students/{id} so they are not read as ids.
	r.HandleFunc("/students/import", students.ImportStudents).Methods(http.MethodPost)
	r.HandleFunc("/students/export", students.ExportStudents).Methods(http.MethodGet)

	r.HandleFunc("/students", students.GetStudents).Methods(http.MethodGet)
	r.HandleFunc("/students", students.CreateStudent).Methods(http.MethodPost)
	r.HandleFunc("/students/{id}", students.GetStudent).Methods(http.MethodGet)
	r.HandleFunc("/students/{id}", students.UpdateStudent).Methods(http.MethodPut)
	r.HandleFunc("/students/{id}", students.DeleteStudent).Methods(http.MethodDelete)
	r.HandleFunc("/students/{id}/detail", students.GetStudentDetail).Methods(http.MethodGet)

	r.HandleFunc("/events", events.GetEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", events.CreateEvent).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}", events.GetEvent).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", events.UpdateEvent).Methods(http.MethodPut)
	r.HandleFunc("/events/{id}", events.DeleteEvent).Methods(http.MethodDelete)

	r.HandleFunc("/groups", groups.GetGroups).Methods(http.MethodGet)
	r.HandleFunc("/groups", groups.CreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", groups.GetGroup).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id}", groups.UpdateGroup).Methods(http.MethodPut)
	r.HandleFunc("/groups/{id}", groups.DeleteGroup).Methods(http.MethodDelete)

	r.HandleFunc("/report", reports.GetReport).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler(repo)).Methods(http.MethodGet)
	r.HandleFunc("/", indexHandler(r)).Methods(http.MethodGet)

	// Preflight for every path; CORS answers it once a route has matched.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// NewMirrorRouter serves the read-only JSON view. ReadOnly wraps the whole
// router so writes to any path get 405, matched route or not.
func NewMirrorRouter(reader repository.Reader) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	mirror := NewMirrorHandler(reader)
	read := []string{http.MethodGet, http.MethodHead}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/students", mirror.Students).Methods(read...)
	api.HandleFunc("/students/{id}/events", mirror.StudentEvents).Methods(read...)
	api.HandleFunc("/events", mirror.Events).Methods(read...)
	api.HandleFunc("/groups", mirror.Groups).Methods(read...)
	api.HandleFunc("/education-periods", mirror.Periods).Methods(read...)

	r.HandleFunc("/health", healthHandler(reader)).Methods(read...)
	r.HandleFunc("/", indexHandler(r)).Methods(read...)

	var h http.Handler = r
	h = middleware.ReadOnly(h)
	h = middleware.CORS(read...)(h)
	h = middleware.Logging(h)
	h = middleware.Recover(h)
	return h
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(store pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if err := store.Ping(r.Context()); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
		}
		respondJSON(w, r, code, map[string]string{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// indexHandler lists the router's endpoints.
func indexHandler(router *mux.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var endpoints []string
		router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
			path, err := route.GetPathTemplate()
			if err != nil {
				return nil
			}
			methods, err := route.GetMethods()
			if err != nil {
				return nil
			}
			endpoints = append(endpoints, strings.Join(methods, ",")+" "+path)
			return nil
		})
		sort.Strings(endpoints)

		respondJSON(w, r, http.StatusOK, map[string]any{
			"service":   serviceName,
			"endpoints": endpoints,
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, r, http.StatusNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
