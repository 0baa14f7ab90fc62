// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadHeaderTimeout  – abort slow-loris headers (5 s)
//   • ReadTimeout        – cap body upload time (30 s)
//   • WriteTimeout       – cap total response time (30 s)
//   • IdleTimeout        – close keep-alives on idle clients (60 s)
//
// This helper centralises those defaults so cmd/web doesn't repeat
// boilerplate.  Read and write limits are wider than a pure API would
// use because complaint attachments can reach MAX_CONTENT_LENGTH.
//

package server

import (
	"crypto/tls"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// New constructs an *http.Server with sensible defaults.  tlsCfg may be
// nil for plaintext.
func New(addr string, handler http.Handler, tlsCfg *tls.Config, log *zap.SugaredLogger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if log != nil {
		srv.ErrorLog, _ = zap.NewStdLogAt(log.Desugar().Named("http"), zap.WarnLevel)
	}
	return srv
}
