package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/complaintdesk/internal/requestinfo"
)

// AccessLog writes one INFO line per request once the handler returns.
// Server errors are logged at WARN.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur_ms", time.Since(start).Milliseconds(),
				"secure", IsSecure(r),
				"req_id", GetRequestID(r.Context()),
			}
			if info := requestinfo.FromContext(r.Context()); info != nil {
				fields = append(fields, "ip", info.Geo.IP.String(), "bot", info.UA.IsBot)
			}

			if status >= http.StatusInternalServerError {
				log.Warnw("http request", fields...)
				return
			}
			log.Infow("http request", fields...)
		})
	}
}
