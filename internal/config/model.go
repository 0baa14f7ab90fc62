// internal/config/model.go
//
// Typed configuration model for the complaint service.
//
// Context
// -------
// These structs are the one immutable snapshot that `loader.go` builds
// from defaults, an optional YAML file, an optional `.env`, and the
// process environment.  Every field maps to a single upper-case env key
// (see `keys.go`).  Values that reference Vault (`vault:mount/path#key`)
// are resolved before validation, so the model only ever holds plain
// strings.
//
// Validation happens immediately after resolution; the binary fails fast
// when a value is out of range.
//
// Notes
// -----
//   - Durations are stored as whole seconds, mirroring the env contract.
//     Use the helper methods for time.Duration values.
//   - The `Paths` block is derived at runtime from APP_ROOT discovery.
//   - Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"net/http"
	"time"
)

//
// HTTP section
//

// HTTP holds listener settings for the self-hosted run path.
type HTTP struct {
	ListenAddr string `validate:"required,listen_addr"`
	GeoIPPath  string
}

//
// Uploads section
//

// Uploads describes where attachment files land.  The service only makes
// sure the directories exist; storing files is the handlers' business.
type Uploads struct {
	Folder           string `validate:"required"`
	AvatarSubdir     string `validate:"required"`
	ComplaintSubdir  string `validate:"required"`
	MaxContentLength int64  `validate:"gt=0"`
}

//
// Mail section
//

// Mail carries outbound SMTP settings.
type Mail struct {
	Enabled        bool
	Server         string
	Port           int `validate:"min=1,max=65535"`
	UseTLS         bool
	UseSSL         bool
	Username       string
	Password       string
	DefaultSender  string
	TimeoutSeconds int `validate:"gt=0"`
}

// Timeout returns the SMTP dial timeout.
func (m Mail) Timeout() time.Duration { return seconds(m.TimeoutSeconds) }

//
// Auth section
//

// Auth holds portal and identity-provider settings.
type Auth struct {
	PortalLoginURL string `validate:"omitempty,url"`
	GoogleClientID string
}

//
// Session section
//

// Session is the cookie and lifetime policy handed to the session layer.
// Both cookie Secure flags follow REQUIRE_HTTPS unless set explicitly.
type Session struct {
	TTLSeconds           int    `validate:"gt=0"`
	MaxIdleSeconds       int    `validate:"gt=0"`
	RotateSeconds        int    `validate:"gt=0"`
	TokenBytes           int    `validate:"min=16,max=512"`
	CookieSecure         bool
	RememberCookieSecure bool
	CookieSameSite       string `validate:"oneof=Strict Lax None"`
	CookieHTTPOnly       bool
}

// TTL is the absolute session lifetime.
func (s Session) TTL() time.Duration { return seconds(s.TTLSeconds) }

// MaxIdle is the idle timeout.
func (s Session) MaxIdle() time.Duration { return seconds(s.MaxIdleSeconds) }

// Rotate is the token reissue interval.
func (s Session) Rotate() time.Duration { return seconds(s.RotateSeconds) }

// SameSiteMode maps CookieSameSite onto net/http.
func (s Session) SameSiteMode() http.SameSite {
	switch s.CookieSameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

//
// Two-factor section
//

// TwoFactor bounds one-time code delivery.
type TwoFactor struct {
	CodeLength  int `validate:"min=4,max=12"`
	TTLSeconds  int `validate:"gt=0"`
	MaxAttempts int `validate:"gt=0"`
}

// TTL is how long an issued code stays valid.
func (t TwoFactor) TTL() time.Duration { return seconds(t.TTLSeconds) }

//
// Transport section
//

// Transport is the HTTPS and TLS policy.
//
// CertPath and KeyPath are only meaningful together.  Leaving either
// blank means "no TLS", which is an error only when RequireHTTPS is set
// and the process serves traffic itself.
type Transport struct {
	RequireHTTPS       bool
	CertPath           string
	KeyPath            string
	KeyPassword        string
	CABundle           string
	HSTSSeconds        int    `validate:"min=0"`
	PreferredURLScheme string `validate:"oneof=http https"`
}

// HasTLSMaterial reports whether both certificate and key are configured.
func (t Transport) HasTLSMaterial() bool { return t.CertPath != "" && t.KeyPath != "" }

//
// Paths section (runtime only)
//

// Paths is resolved at runtime.  Root is APP_ROOT or the discovered
// project directory.
type Paths struct {
	Root   string
	LogDir string `validate:"required"`
}

//
// Root aggregate
//

// Config is the immutable snapshot returned by Load.  Callers receive a
// pointer and must treat it as read-only.
type Config struct {
	SecretKey   string
	DatabaseURI string
	Debug       bool
	APIKey      string

	HTTP      HTTP
	Uploads   Uploads
	Mail      Mail
	Auth      Auth
	Session   Session
	TwoFactor TwoFactor
	Transport Transport
	Paths     Paths
}

// Redacted returns a flat view of the snapshot with secrets masked.  Used
// by the check-config command and the startup log line.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		KeySecretKey:             mask(c.SecretKey),
		KeyDatabaseURI:           mask(c.DatabaseURI),
		KeyDebug:                 c.Debug,
		KeyAPIKey:                mask(c.APIKey),
		KeyListenAddr:            c.HTTP.ListenAddr,
		KeyUploadFolder:          c.Uploads.Folder,
		KeyMaxContentLength:      c.Uploads.MaxContentLength,
		KeyMailEnabled:           c.Mail.Enabled,
		KeyMailServer:            c.Mail.Server,
		KeyMailPort:              c.Mail.Port,
		KeyMailPassword:          mask(c.Mail.Password),
		KeySessionTTL:            c.Session.TTLSeconds,
		KeySessionMaxIdle:        c.Session.MaxIdleSeconds,
		KeySessionRotate:         c.Session.RotateSeconds,
		KeySessionCookieSecure:   c.Session.CookieSecure,
		KeySessionCookieSameSite: c.Session.CookieSameSite,
		KeyRequireHTTPS:          c.Transport.RequireHTTPS,
		KeySSLCertPath:           c.Transport.CertPath,
		KeySSLKeyPath:            c.Transport.KeyPath,
		KeySSLKeyPassword:        mask(c.Transport.KeyPassword),
		KeySSLCABundle:           c.Transport.CABundle,
		KeyHSTSSeconds:           c.Transport.HSTSSeconds,
		KeyPreferredURLScheme:    c.Transport.PreferredURLScheme,
		KeyLogDir:                c.Paths.LogDir,
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
