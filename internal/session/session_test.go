package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanizio/complaintdesk/internal/config"
)

func strictPolicy() Policy {
	return NewPolicy(config.Session{
		TTLSeconds:           43200,
		MaxIdleSeconds:       7200,
		RotateSeconds:        21600,
		TokenBytes:           48,
		CookieSecure:         true,
		RememberCookieSecure: false,
		CookieSameSite:       "Strict",
		CookieHTTPOnly:       true,
	})
}

func TestNewPolicy(t *testing.T) {
	p := strictPolicy()
	require.Equal(t, 12*time.Hour, p.TTL)
	require.Equal(t, 2*time.Hour, p.MaxIdle)
	require.Equal(t, 6*time.Hour, p.Rotate)
	require.Equal(t, http.SameSiteStrictMode, p.SameSite)
}

func TestSummary(t *testing.T) {
	s := strictPolicy().Summary()
	require.Equal(t, Summary{
		TTLSeconds:           43200,
		MaxIdleSeconds:       7200,
		RotateSeconds:        21600,
		TokenBytes:           48,
		CookieSecure:         true,
		RememberCookieSecure: false,
		CookieHTTPOnly:       true,
		SameSite:             "Strict",
	}, s)
}

func TestSummary_SameSiteNames(t *testing.T) {
	for in, want := range map[string]string{"Strict": "Strict", "Lax": "Lax", "None": "None"} {
		s := NewPolicy(config.Session{CookieSameSite: in}).Summary()
		require.Equal(t, want, s.SameSite, in)
	}
}
