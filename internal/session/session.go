// internal/session/session.go
//
// Session cookie policy.
//
// Context
//   The session store itself lives outside this service's bootstrap layer.
//   What lives here is the policy every store must honour: cookie flags, the
//   random token size, and the TTL, idle, and rotation windows, all taken
//   from the validated configuration snapshot.  Cookie flags follow
//   REQUIRE_HTTPS unless they were set explicitly (see config).
//
//   /api/status publishes the policy so clients can discover it.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"

	"github.com/yanizio/complaintdesk/internal/config"
)

// Policy is immutable after NewPolicy.
type Policy struct {
	TTL        time.Duration
	MaxIdle    time.Duration
	Rotate     time.Duration
	TokenBytes int

	Secure         bool
	RememberSecure bool
	HTTPOnly       bool
	SameSite       http.SameSite
}

// NewPolicy copies the session section of the snapshot.
func NewPolicy(c config.Session) Policy {
	return Policy{
		TTL:            c.TTL(),
		MaxIdle:        c.MaxIdle(),
		Rotate:         c.Rotate(),
		TokenBytes:     c.TokenBytes,
		Secure:         c.CookieSecure,
		RememberSecure: c.RememberCookieSecure,
		HTTPOnly:       c.CookieHTTPOnly,
		SameSite:       c.SameSiteMode(),
	}
}

// Summary is the public, non-secret view used by /api/status.
type Summary struct {
	TTLSeconds           int    `json:"ttl_seconds"`
	MaxIdleSeconds       int    `json:"max_idle_seconds"`
	RotateSeconds        int    `json:"rotate_seconds"`
	TokenBytes           int    `json:"token_bytes"`
	CookieSecure         bool   `json:"cookie_secure"`
	RememberCookieSecure bool   `json:"remember_cookie_secure"`
	CookieHTTPOnly       bool   `json:"cookie_httponly"`
	SameSite             string `json:"same_site"`
}

// Summary reports the policy without any secret material.
func (p Policy) Summary() Summary {
	return Summary{
		TTLSeconds:           int(p.TTL / time.Second),
		MaxIdleSeconds:       int(p.MaxIdle / time.Second),
		RotateSeconds:        int(p.Rotate / time.Second),
		TokenBytes:           p.TokenBytes,
		CookieSecure:         p.Secure,
		RememberCookieSecure: p.RememberSecure,
		CookieHTTPOnly:       p.HTTPOnly,
		SameSite:             sameSiteName(p.SameSite),
	}
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return "Lax"
	}
}
