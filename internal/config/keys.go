package config

// Configuration keys.  The env var is the upper-case form; YAML files use
// the lower-case form as a flat key.
const (
	KeySecretKey   = "secret_key"
	KeyDatabaseURI = "sqlalchemy_database_uri"
	KeyDebug       = "debug"
	KeyAPIKey      = "api_key"

	KeyListenAddr = "listen_addr"
	KeyGeoIPPath  = "geoip_db_path"
	KeyLogDir     = "log_dir"

	KeyUploadFolder     = "upload_folder"
	KeyAvatarSubdir     = "avatar_subdir"
	KeyComplaintSubdir  = "complaint_attachment_subdir"
	KeyMaxContentLength = "max_content_length"

	KeyMailEnabled       = "mail_enabled"
	KeyMailServer        = "mail_server"
	KeyMailPort          = "mail_port"
	KeyMailUseTLS        = "mail_use_tls"
	KeyMailUseSSL        = "mail_use_ssl"
	KeyMailUsername      = "mail_username"
	KeyMailPassword      = "mail_password"
	KeyMailDefaultSender = "mail_default_sender"
	KeyMailTimeout       = "mail_timeout"

	KeyPortalLoginURL = "portal_login_url"
	KeyGoogleClientID = "google_client_id"

	KeySessionTTL            = "session_ttl_seconds"
	KeySessionMaxIdle        = "session_max_idle_seconds"
	KeySessionRotate         = "session_rotate_seconds"
	KeySessionTokenBytes     = "session_token_bytes"
	KeySessionCookieSecure   = "session_cookie_secure"
	KeyRememberCookieSecure  = "remember_cookie_secure"
	KeySessionCookieSameSite = "session_cookie_samesite"
	KeySessionCookieHTTPOnly = "session_cookie_httponly"

	KeyTwoFactorCodeLength  = "two_factor_code_length"
	KeyTwoFactorTTL         = "two_factor_ttl_seconds"
	KeyTwoFactorMaxAttempts = "two_factor_max_attempts"

	KeyRequireHTTPS       = "require_https"
	KeySSLCertPath        = "ssl_cert_path"
	KeySSLKeyPath         = "ssl_key_path"
	KeySSLKeyPassword     = "ssl_key_password"
	KeySSLCABundle        = "ssl_ca_bundle"
	KeyHSTSSeconds        = "hsts_seconds"
	KeyPreferredURLScheme = "preferred_url_scheme"
)

// Defaults that are not derived from other keys.
const (
	DefaultListenAddr       = "0.0.0.0:5001"
	DefaultAvatarSubdir     = "avatars"
	DefaultComplaintSubdir  = "complaints"
	DefaultMaxContentLength = 32 * 1024 * 1024
	DefaultMailPort         = 465
	DefaultMailTimeout      = 30
	DefaultSessionTTL       = 60 * 60 * 12
	DefaultSessionMaxIdle   = 60 * 60 * 2
	DefaultSessionRotate    = 60 * 60 * 6
	DefaultSessionTokenLen  = 48
	DefaultTwoFactorCodeLen = 6
	DefaultTwoFactorTTL     = 10 * 60
	DefaultTwoFactorTries   = 5
	DefaultHSTSSeconds      = 60 * 60 * 24 * 365
)

// knownKeys gates the env provider so unrelated process variables never
// reach the koanf tree.
var knownKeys = map[string]struct{}{}

func init() {
	for _, k := range []string{
		KeySecretKey, KeyDatabaseURI, KeyDebug, KeyAPIKey,
		KeyListenAddr, KeyGeoIPPath, KeyLogDir,
		KeyUploadFolder, KeyAvatarSubdir, KeyComplaintSubdir, KeyMaxContentLength,
		KeyMailEnabled, KeyMailServer, KeyMailPort, KeyMailUseTLS, KeyMailUseSSL,
		KeyMailUsername, KeyMailPassword, KeyMailDefaultSender, KeyMailTimeout,
		KeyPortalLoginURL, KeyGoogleClientID,
		KeySessionTTL, KeySessionMaxIdle, KeySessionRotate, KeySessionTokenBytes,
		KeySessionCookieSecure, KeyRememberCookieSecure, KeySessionCookieSameSite,
		KeySessionCookieHTTPOnly,
		KeyTwoFactorCodeLength, KeyTwoFactorTTL, KeyTwoFactorMaxAttempts,
		KeyRequireHTTPS, KeySSLCertPath, KeySSLKeyPath, KeySSLKeyPassword,
		KeySSLCABundle, KeyHSTSSeconds,
	} {
		knownKeys[k] = struct{}{}
	}
}
