package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(h http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.test/", nil))
	return w
}

func TestHSTSValue(t *testing.T) {
	require.Equal(t, "", HSTSValue(0))
	require.Equal(t, "", HSTSValue(-1))
	require.Equal(t, "max-age=100; includeSubDomains", HSTSValue(100))
	require.Equal(t, "max-age=31535999; includeSubDomains", HSTSValue(31535999))
	require.Equal(t, "max-age=31536000; includeSubDomains; preload", HSTSValue(31536000))
	require.Equal(t, "max-age=63072000; includeSubDomains; preload", HSTSValue(63072000))
}

func TestSecurity_DefaultHeaders(t *testing.T) {
	w := serve(Security(Policy{})(okHandler))

	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	require.Equal(t, "camera=(), microphone=(), geolocation=()", w.Header().Get("Permissions-Policy"))
	require.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS is only sent when HTTPS is required")
}

func TestSecurity_HSTS(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   string
	}{
		{name: "year preloads", policy: Policy{RequireHTTPS: true, HSTSSeconds: 31536000}, want: "max-age=31536000; includeSubDomains; preload"},
		{name: "short no preload", policy: Policy{RequireHTTPS: true, HSTSSeconds: 100}, want: "max-age=100; includeSubDomains"},
		{name: "zero disables", policy: Policy{RequireHTTPS: true, HSTSSeconds: 0}, want: ""},
		{name: "not required", policy: Policy{HSTSSeconds: 31536000}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(Security(tt.policy)(okHandler))
			require.Equal(t, tt.want, w.Header().Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurity_HandlerValueWins(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Strict-Transport-Security", "max-age=5")
		_, _ = w.Write([]byte("framed"))
	})

	w := serve(Security(Policy{RequireHTTPS: true, HSTSSeconds: 31536000})(h))

	require.Equal(t, []string{"SAMEORIGIN"}, w.Header().Values("X-Frame-Options"))
	require.Equal(t, "max-age=5", w.Header().Get("Strict-Transport-Security"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestSecurity_HandlerThatNeverWrites(t *testing.T) {
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	w := serve(Security(Policy{})(h))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSecurity_PreservesFlusher(t *testing.T) {
	var flushed bool
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		f.Flush()
		flushed = true
	})

	w := serve(Security(Policy{})(h))
	require.True(t, flushed)
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
