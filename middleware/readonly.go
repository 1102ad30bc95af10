package middleware

import (
	"encoding/json"
	"net/http"

	"student-records/logging"
)

// ReadOnly lets GET and HEAD through and answers everything else with 405.
func ReadOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		logging.FromContext(r.Context()).Warn("write rejected by read-only server", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Allow", "GET, HEAD")
		writeMessage(w, http.StatusMethodNotAllowed, "this server is read-only")
	})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
