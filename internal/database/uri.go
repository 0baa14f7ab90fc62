package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Driver names registered by the blank imports in database.go.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedURI is returned for a scheme with no registered driver.
var ErrUnsupportedURI = errors.New("database: unsupported URI scheme")

// Target is a driver name plus the DSN that driver expects.
type Target struct {
	Driver string
	DSN    string

	// SingleConn pins the pool to one connection.  Set for in-memory
	// SQLite, where each connection would otherwise see its own database.
	SingleConn bool
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// ParseURI translates a SQLAlchemy-style URI into a Target.
//
//	sqlite://                         in-memory
//	sqlite:///relative.db             file relative to the working dir
//	sqlite:////abs/path.db            absolute file
//	mysql+pymysql://u:p@host/db       MySQL or MariaDB over TCP
//	postgresql+psycopg2://u:p@h/db    PostgreSQL via pgx
func ParseURI(uri string) (Target, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedURI, redact(uri))
	}
	dialect, _, _ := strings.Cut(strings.ToLower(scheme), "+")

	switch dialect {
	case "sqlite":
		return sqliteTarget(strings.TrimPrefix(uri, scheme+"://")), nil
	case "mysql", "mariadb":
		return mysqlTarget(uri)
	case "postgres", "postgresql":
		u, err := url.Parse(uri)
		if err != nil {
			return Target{}, fmt.Errorf("database: parse URI: %w", err)
		}
		u.Scheme = "postgres"
		return Target{Driver: DriverPostgres, DSN: u.String()}, nil
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedURI, scheme)
	}
}

func sqliteTarget(rest string) Target {
	if rest == "" || rest == "/:memory:" {
		return Target{
			Driver:     DriverSQLite,
			DSN:        "file::memory:?" + sqlitePragmas,
			SingleConn: true,
		}
	}
	// One slash separates the empty host from the path; a second one
	// makes it absolute.
	path := strings.TrimPrefix(rest, "/")
	return Target{Driver: DriverSQLite, DSN: "file:" + path + "?" + sqlitePragmas}
}

func mysqlTarget(uri string) (Target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, fmt.Errorf("database: parse URI: %w", err)
	}

	c := mysql.NewConfig()
	c.ParseTime = true
	c.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		c.User = u.User.Username()
		c.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if sock := q.Get("unix_socket"); sock != "" {
		c.Net = "unix"
		c.Addr = sock
	} else {
		c.Net = "tcp"
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		host := u.Hostname()
		if host == "" {
			host = "127.0.0.1"
		}
		c.Addr = net.JoinHostPort(host, port)
	}
	if cs := q.Get("charset"); cs != "" {
		c.Params = map[string]string{"charset": cs}
	}

	return Target{Driver: DriverMySQL, DSN: c.FormatDSN()}, nil
}

// redact hides the password in a URI for error messages and logs.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	return u.Redacted()
}
