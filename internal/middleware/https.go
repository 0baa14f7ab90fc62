// internal/middleware/https.go
//
// HTTPS enforcement.
//
// Context
// -------
// When REQUIRE_HTTPS is on, every request must arrive over TLS, either
// directly or through a proxy that says so in X-Forwarded-Proto.  Plain
// requests are handled by method:
//
//   - GET, HEAD, and OPTIONS get a 301 to the same URL with "https://".
//   - Everything else gets a 400 JSON body, since browsers drop the body
//     of a redirected POST.
//
// With REQUIRE_HTTPS off the guard is a pass-through.  Either way the
// Security middleware still adds headers to whatever goes out, redirects
// and rejections included.
//
// Notes
// -----
//   - The redirect rewrites only the first "http://" in the URL, which is
//     always the scheme, so query strings that embed URLs are untouched.
//   - Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/complaintdesk/internal/metrics"
)

// Policy is the transport configuration the guard and the header
// finalizer share.
type Policy struct {
	RequireHTTPS bool
	HSTSSeconds  int
}

// Decision is the guard's verdict for one request.
type Decision string

const (
	Unenforced Decision = metrics.DecisionUnenforced
	Secure     Decision = metrics.DecisionSecure
	Redirected Decision = metrics.DecisionRedirected
	Rejected   Decision = metrics.DecisionRejected
)

// IsSecure reports whether r arrived over TLS, or through a proxy that
// says so.  Checked in order: the native TLS state, the first entry of
// X-Forwarded-Proto, then X-Forwarded-Ssl.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if xfp := r.Header.Get("X-Forwarded-Proto"); xfp != "" {
		first, _, _ := strings.Cut(xfp, ",")
		if strings.EqualFold(strings.TrimSpace(first), "https") {
			return true
		}
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Ssl")), "on")
}

// Decide applies p to r without side effects.
func (p Policy) Decide(r *http.Request) Decision {
	if !p.RequireHTTPS {
		return Unenforced
	}
	if IsSecure(r) {
		return Secure
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Redirected
	default:
		return Rejected
	}
}

// RequireHTTPS returns the interceptor for p.
func RequireHTTPS(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := p.Decide(r)
			metrics.TransportDecisions.WithLabelValues(string(d)).Inc()

			switch d {
			case Redirected:
				http.Redirect(w, r, secureURL(r), http.StatusMovedPermanently)
			case Rejected:
				WriteError(w, http.StatusBadRequest, "https_required", "HTTPS is required for this endpoint.")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// secureURL rebuilds the full request URL and swaps its scheme.
func secureURL(r *http.Request) string {
	full := "http://" + r.Host + r.URL.RequestURI()
	return strings.Replace(full, "http://", "https://", 1)
}
