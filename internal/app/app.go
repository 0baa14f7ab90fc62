// internal/app/app.go
//
// Application assembler.
//
// Context
// -------
// `New` turns a validated configuration snapshot into a ready handler.
// The order is fixed:
//
//  1. Storage: open the database named by SQLALCHEMY_DATABASE_URI, with
//     ping retries.  An empty URI runs without a database.
//  2. Upload directories: best-effort; failures are logged and counted.
//  3. Optional GeoLite2 database for request enrichment.
//  4. Router: middleware chain, then routes (see routes.go).
//
// TLS is not touched here.  Only the self-hosted path (`Serve`) builds a
// TLS context, so the same handler can sit behind a TLS-terminating proxy.
//
// Notes
// -----
//   - The *sqlx.DB lives on App and reaches handlers via database.Inject.
//   - Oxford commas, two spaces after periods.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/yanizio/complaintdesk/internal/config"
	"github.com/yanizio/complaintdesk/internal/database"
	"github.com/yanizio/complaintdesk/internal/requestinfo"
	"github.com/yanizio/complaintdesk/internal/session"
	"github.com/yanizio/complaintdesk/internal/storage"
)

// App owns the long-lived resources behind the HTTP handler.
type App struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	db      *sqlx.DB
	ownsDB  bool
	geo     *geoip2.Reader
	session session.Policy
	router  chi.Router
	started time.Time
}

// Option customises New.
type Option func(*App)

// WithDB supplies an already-open handle.  New will not open one and
// Close will not close it.
func WithDB(db *sqlx.DB) Option {
	return func(a *App) { a.db = db }
}

// New assembles the application.  Storage errors are fatal; upload and
// geo errors are not.
func New(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if log == nil {
		log = zap.S()
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		session: session.NewPolicy(cfg.Session),
		started: time.Now(),
	}
	for _, o := range opts {
		o(a)
	}

	// 1. storage
	if a.db == nil && cfg.DatabaseURI != "" {
		dbOpts := database.DefaultOptions()
		dbOpts.Log = log
		db, err := database.OpenWithOptions(ctx, cfg.DatabaseURI, dbOpts)
		if err != nil {
			log.Errorw("database unavailable", "err", err)
			return nil, err
		}
		a.db, a.ownsDB = db, true
		log.Infow("database online", "driver", db.DriverName())
	} else if a.db == nil {
		log.Warnw("SQLALCHEMY_DATABASE_URI is empty, running without a database")
	}

	// 2. upload directories
	if cfg.Uploads.Folder != "" {
		_ = storage.NewUploads(cfg.Uploads).Provision(log)
	}

	// 3. geo database
	if p := cfg.HTTP.GeoIPPath; p != "" {
		geo, err := requestinfo.OpenGeo(p)
		if err != nil {
			log.Warnw("geo lookup disabled", "err", err)
		} else {
			a.geo = geo
		}
	}

	// 4. router
	a.router = a.routes()

	log.Infow("application assembled",
		"require_https", cfg.Transport.RequireHTTPS,
		"hsts_s", cfg.Transport.HSTSSeconds,
		"max_body", cfg.Uploads.MaxContentLength,
		"db", a.db != nil,
		"geo", a.geo != nil,
	)
	return a, nil
}

// Handler returns the root handler.
func (a *App) Handler() http.Handler { return a.router }

// Config returns the snapshot the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Close releases the database (when New opened it) and the geo reader.
func (a *App) Close() error {
	var errs []error
	if a.ownsDB && a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.geo != nil {
		errs = append(errs, a.geo.Close())
	}
	return errors.Join(errs...)
}
