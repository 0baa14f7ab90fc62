// Package database centralises sqlx connection helpers.  Connection
// strings arrive in SQLAlchemy form (SQLALCHEMY_DATABASE_URI) and are
// translated to a driver DSN by ParseURI.  Three drivers are registered:
// go-sql-driver/mysql, pgx (stdlib), and modernc sqlite.
//
// Public entry points:
//
//	Open(ctx, uri)                     – conservative pool sizes.
//	OpenWithOptions(ctx, uri, opts)    – fine-grained control.
//
// Both helpers Ping the database, with retries, before returning so the
// process fails fast during bootstrap.  Callers should Close() the
// returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/yanizio/complaintdesk/internal/metrics"
)

func init() {
	// sqlx only knows "sqlite3" out of the box.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options tunes one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Retries is how many extra pings follow a failed first one.
	Retries int
	// RetryBackoff is the first wait; later waits grow exponentially.
	RetryBackoff time.Duration

	Log *zap.SugaredLogger
}

// DefaultOptions: 15 max open, 5 idle, 30-minute lifetime, five retries
// starting at 500 ms.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         5,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// Open connects with DefaultOptions.
func Open(ctx context.Context, uri string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, uri, DefaultOptions())
}

// OpenWithOptions translates uri, opens the pool, and pings until the
// database answers or the retries run out.
func OpenWithOptions(ctx context.Context, uri string, opts Options) (*sqlx.DB, error) {
	tgt, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(tgt.Driver, tgt.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", tgt.Driver, err)
	}

	if tgt.SingleConn {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := pingWithRetry(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s (%s): %w", tgt.Driver, redact(uri), err)
	}
	return db, nil
}

// pingWithRetry pings up to opts.Retries+1 times with exponential backoff.
func pingWithRetry(ctx context.Context, db *sqlx.DB, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.S()
	}

	eb := backoff.NewExponentialBackOff()
	if opts.RetryBackoff > 0 {
		eb.InitialInterval = opts.RetryBackoff
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		metrics.DBConnectAttemptsTotal.Inc()
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(max(opts.Retries, 0))+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Warnw("database ping failed, retrying", "err", err, "wait", wait)
		}),
	)
	return err
}

// Ping is the health probe used by /healthz.
func Ping(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
