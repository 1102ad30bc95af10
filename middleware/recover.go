package middleware

import (
	"net/http"
	"runtime/debug"

	"student-records/logging"
)

// Recover turns a handler panic into a 500 so one bad request cannot take
// the server down.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logging.FromContext(r.Context()).Error("panic serving request",
					"path", r.URL.Path,
					"panic", p,
					"stack", string(debug.Stack()))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
