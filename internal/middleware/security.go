// internal/middleware/security.go
//
// Security-header middleware.
//
// Adds default headers to every response unless the handler already set
// them:
//
//   • X-Content-Type-Options     –  nosniff
//   • X-Frame-Options            –  DENY
//   • Referrer-Policy            –  no-referrer
//   • Permissions-Policy         –  camera, microphone, and geolocation off
//   • Strict-Transport-Security  –  only when REQUIRE_HTTPS is on and
//                                   HSTS_SECONDS > 0
//
// Notes
// -----
// • Headers must be in place before the first WriteHeader or Write, so the
//   writer is wrapped with httpsnoop hooks instead of adding them after
//   next.ServeHTTP returns.
// • A max-age of a year or more also advertises `preload`.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/felixge/httpsnoop"
)

const (
	hstsPreloadMin = 31536000

	headerHSTS           = "Strict-Transport-Security"
	headerContentTypeOpt = "X-Content-Type-Options"
	headerFrameOptions   = "X-Frame-Options"
	headerReferrerPolicy = "Referrer-Policy"
	headerPermissions    = "Permissions-Policy"
)

// HSTSValue renders the Strict-Transport-Security value for seconds, or ""
// when seconds <= 0.
func HSTSValue(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	v := "max-age=" + strconv.Itoa(seconds) + "; includeSubDomains"
	if seconds >= hstsPreloadMin {
		v += "; preload"
	}
	return v
}

// Security returns the header finalizer for p.
func Security(p Policy) func(http.Handler) http.Handler {
	var hsts string
	if p.RequireHTTPS {
		hsts = HSTSValue(p.HSTSSeconds)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var once sync.Once
			apply := func() {
				once.Do(func() {
					h := w.Header()
					setDefault(h, headerContentTypeOpt, "nosniff")
					setDefault(h, headerFrameOptions, "DENY")
					setDefault(h, headerReferrerPolicy, "no-referrer")
					setDefault(h, headerPermissions, "camera=(), microphone=(), geolocation=()")
					if hsts != "" {
						setDefault(h, headerHSTS, hsts)
					}
				})
			}

			sw := httpsnoop.Wrap(w, httpsnoop.Hooks{
				WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						apply()
						next(code)
					}
				},
				Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(b []byte) (int, error) {
						apply()
						return next(b)
					}
				},
				ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
					return func(src io.Reader) (int64, error) {
						apply()
						return next(src)
					}
				},
				Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
					return func() {
						apply()
						next()
					}
				},
			})

			next.ServeHTTP(sw, r)

			// Handlers that never write still get an implicit 200.
			apply()
		})
	}
}

// setDefault sets name only when no value is present.
func setDefault(h http.Header, name, value string) {
	if len(h.Values(name)) == 0 {
		h.Set(name, value)
	}
}
