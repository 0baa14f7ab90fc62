package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/complaintdesk/internal/database"
	"github.com/yanizio/complaintdesk/internal/middleware"
	"github.com/yanizio/complaintdesk/internal/requestinfo"
	"github.com/yanizio/complaintdesk/internal/session"
)

const serviceName = "complaintdesk"

// TransportPolicy derives the guard policy from the snapshot.
func (a *App) TransportPolicy() middleware.Policy {
	return middleware.Policy{
		RequireHTTPS: a.cfg.Transport.RequireHTTPS,
		HSTSSeconds:  a.cfg.Transport.HSTSSeconds,
	}
}

// routes builds the router.  Middleware order matters: the header
// finalizer wraps both the panic recoverer and the HTTPS interceptor, so
// 500s, redirects, and rejections are headered too.
func (a *App) routes() chi.Router {
	policy := a.TransportPolicy()
	enricher := &requestinfo.Enricher{Geo: a.geo, Log: a.log}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Security(policy),
		chimw.Recoverer,
		enricher.Enrich,
		middleware.AccessLog(a.log),
		middleware.RequireHTTPS(policy),
		middleware.LimitBody(a.cfg.Uploads.MaxContentLength),
		database.Inject(a.db),
	)

	// Set before Route so the /api sub-router inherits them.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	r.Get("/healthz", a.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders: []string{middleware.HeaderRequestID},
			MaxAge:         300,
		}))
		r.Get("/status", a.status)
	})

	return r
}

/*──────────────────────────── handlers ─────────────────────────────────────*/

type healthBody struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// health reports 200 when the database (if any) answers a ping, else 503.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	db := database.FromContext(r.Context())
	if db == nil {
		middleware.WriteJSON(w, http.StatusOK, healthBody{Status: "ok", DB: "disabled"})
		return
	}
	if err := database.Ping(r.Context(), db); err != nil {
		a.log.Warnw("health check failed", "err", err)
		middleware.WriteJSON(w, http.StatusServiceUnavailable, healthBody{Status: "degraded", DB: "unavailable"})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, healthBody{Status: "ok", DB: "ok"})
}

type twoFactorBody struct {
	CodeLength  int `json:"code_length"`
	TTLSeconds  int `json:"ttl_seconds"`
	MaxAttempts int `json:"max_attempts"`
}

type statusBody struct {
	Service         string          `json:"service"`
	PreferredScheme string          `json:"preferred_scheme"`
	RequireHTTPS    bool            `json:"require_https"`
	Secure          bool            `json:"secure"`
	RequestID       string          `json:"request_id,omitempty"`
	UptimeSeconds   int64           `json:"uptime_seconds"`
	Session         session.Summary `json:"session"`
	TwoFactor       twoFactorBody   `json:"two_factor"`
}

// status publishes the non-secret transport and session policy so clients
// can discover cookie and 2FA constraints.
func (a *App) status(w http.ResponseWriter, r *http.Request) {
	tf := a.cfg.TwoFactor
	middleware.WriteJSON(w, http.StatusOK, statusBody{
		Service:         serviceName,
		PreferredScheme: a.cfg.Transport.PreferredURLScheme,
		RequireHTTPS:    a.cfg.Transport.RequireHTTPS,
		Secure:          middleware.IsSecure(r),
		RequestID:       middleware.GetRequestID(r.Context()),
		UptimeSeconds:   int64(time.Since(a.started) / time.Second),
		Session:         a.session.Summary(),
		TwoFactor: twoFactorBody{
			CodeLength:  tf.CodeLength,
			TTLSeconds:  tf.TTLSeconds,
			MaxAttempts: tf.MaxAttempts,
		},
	})
}
