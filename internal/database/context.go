package database

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
)

type ctxKey struct{}

// WithDB returns a copy of ctx carrying db.
func WithDB(ctx context.Context, db *sqlx.DB) context.Context {
	return context.WithValue(ctx, ctxKey{}, db)
}

// FromContext returns the handle stored by Inject, or nil.
func FromContext(ctx context.Context) *sqlx.DB {
	db, _ := ctx.Value(ctxKey{}).(*sqlx.DB)
	return db
}

// Inject makes db available to handlers through FromContext.  A nil db
// leaves the request untouched.
func Inject(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if db == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithDB(r.Context(), db)))
		})
	}
}
