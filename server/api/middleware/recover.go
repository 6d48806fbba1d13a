package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// Recover turns a handler panic into a 500 carrying the standard error
// envelope and logs the stack trace.
func Recover(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				reqID := RequestIDFrom(r.Context())
				log.Error().
					Str("request_id", reqID).
					Str("method", r.Method).
					Str("route", routeTemplate(r)).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("http_panic")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
					"code":       "internal_error",
					"message":    http.StatusText(http.StatusInternalServerError),
					"request_id": reqID,
					"timestamp":  time.Now().UTC().Format(time.RFC3339),
				}})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
