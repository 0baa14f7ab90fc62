package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// LimitBody rejects a declared Content-Length above limit with 413 and caps
// every other body with http.MaxBytesReader (via chi's RequestSize).  A
// limit of zero or less disables the check.
func LimitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		capped := chimw.RequestSize(limit)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
					"Request body exceeds the configured limit.")
				return
			}
			capped.ServeHTTP(w, r)
		})
	}
}
