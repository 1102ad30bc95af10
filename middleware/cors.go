// Package middleware holds the HTTP wrappers shared by the admin API and the mirror.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// CORS allows any origin to call the listed methods and answers preflight
// requests itself.
func CORS(methods ...string) func(http.Handler) http.Handler {
	allowed := strings.Join(append(methods[:len(methods):len(methods)], http.MethodOptions), ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", allowed)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, Accept, Origin")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition, X-Request-ID")

			if r.Method == http.MethodOptions {
				slog.Debug("preflight", "path", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
